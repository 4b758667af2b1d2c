package brc

import (
	"bytes"
	"testing"
)

func TestFindIndexOf(t *testing.T) {
	if id := findIndexOf([]byte{32, 48, 32, 47, 98, 99, ';', 10}, patternSemi); id != 6 {
		t.Errorf("fail 1: %d", id)
	}
	if id := findIndexOf([]byte{32, 48, 32, 47, 98, 99, 10, ';'}, patternSemi); id != 7 {
		t.Errorf("fail 2: %d", id)
	}
	if id := findIndexOf([]byte{';', 48, 32, 47, 98, 99, 10, 34}, patternSemi); id != 0 {
		t.Errorf("fail 3: %d", id)
	}
	if id := findIndexOf([]byte{67, 48, 32, 47, 98, 99, 10, 89}, patternSemi); id != -1 {
		t.Errorf("fail 4: %d", id)
	}
	if id := findIndexOf([]byte{67, 48, 32, 47, 98, 99, 10, 89, 67, 48, 32, 47, 98, ';', 10, 89}, patternSemi); id != 13 {
		t.Errorf("fail 5: %d", id)
	}
	if id := findIndexOf([]byte{67, 48, 32, 47, 98, 99, 10, 89, 67, 48, 32, 48, 32, 47, 98, ';', 10, 89}, patternSemi); id != 15 {
		t.Errorf("fail 6: %d", id)
	}
	if id := findIndexOf([]byte{67, 48, 32, 47, 98, ';'}, patternSemi); id != 5 {
		t.Errorf("fail 7: %d", id)
	}
	if id := findIndexOf([]byte{67, 48, 0, 47, 98, ';', ';', 45, 45, ';', 12}, patternSemi); id != 5 {
		t.Errorf("fail 8: %d", id)
	}
	if id := findIndexOf(nil, patternSemi); id != -1 {
		t.Errorf("fail 9: %d", id)
	}
	if id := findIndexOf([]byte("Zürich;1.0\n"), patternNl); id != 11 {
		t.Errorf("fail 10: %d", id)
	}
}

// every length and position against bytes.IndexByte, including bytes >= 0x80
func TestFindIndexOfMatchesIndexByte(t *testing.T) {
	for _, needle := range []byte{';', '\n', 0xC3} {
		pattern := compilePattern(needle)
		for n := 0; n <= 40; n++ {
			for pos := -1; pos < n; pos++ {
				haystack := make([]byte, n)
				for i := range haystack {
					haystack[i] = byte(0x41 + i%50) // never a needle
					if i%3 == 0 {
						haystack[i] = 0xBC
					}
				}
				if pos >= 0 {
					haystack[pos] = needle
				}
				if got, want := findIndexOf(haystack, pattern), bytes.IndexByte(haystack, needle); got != want {
					t.Fatalf("needle=%q n=%d pos=%d: got %d, want %d", needle, n, pos, got, want)
				}
			}
		}
	}
}

func TestGetHashFromBytes(t *testing.T) {
	if getHashFromBytes([]byte("Hamburg")) != getHashFromBytes([]byte("Hamburg")) {
		t.Fatal("hash is not stable")
	}
	if getHashFromBytes([]byte("Hamburg")) == getHashFromBytes([]byte("Hamburh")) {
		t.Fatal("unexpected collision")
	}
}

func BenchmarkFindIndexOf(b *testing.B) {
	line := []byte("Las Palmas de Gran Canaria;-12.3")
	for i := 0; i < b.N; i++ {
		findIndexOf(line, patternSemi)
	}
}

func BenchmarkIndexByte(b *testing.B) {
	line := []byte("Las Palmas de Gran Canaria;-12.3")
	for i := 0; i < b.N; i++ {
		bytes.IndexByte(line, ';')
	}
}
