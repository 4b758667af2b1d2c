package brc

import (
	"encoding/binary"
	"math/bits"

	"github.com/zeebo/xxh3"
)

const (
	recordSep = '\n'
	valueSep  = ';'
)

var patternNl = compilePattern(recordSep)
var patternSemi = compilePattern(valueSep)

// getHashFromBytes uses xxh3, keys are compared after the hash matched
func getHashFromBytes(data []byte) uint64 {
	return xxh3.Hash(data)
}

// findIndexOf is optimize for power of 2 buffer size
func findIndexOf(haystack []byte, pattern uint64) int {
	var i int
	hLen := len(haystack)
	for i = 0; i < hLen/8*8; i += 8 {
		if index := firstInstance(
			binary.BigEndian.Uint64(haystack[i:i+8]), pattern); index != 8 {
			return i + index
		}
	}
	if hLen%8 == 0 {
		return -1
	}
	// pad the tail with a byte that can never match the pattern
	filler := ^byte(pattern)
	sliceToUint := uint64(0)
	for j := 0; j < 8; j++ {
		b := filler
		if i+j < hLen {
			b = haystack[i+j]
		}
		sliceToUint |= uint64(b) << (56 - 8*j)
	}
	if index := firstInstance(sliceToUint, pattern); index != 8 {
		return i + index
	}
	return -1
}

// https://richardstartin.github.io/posts/finding-bytes
func compilePattern(byteToFind byte) uint64 {
	return uint64(byteToFind) * 0x0101010101010101
}

func firstInstance(word, pattern uint64) int {
	var input uint64 = word ^ pattern
	var tmp uint64 = (input & 0x7F7F7F7F7F7F7F7F) + 0x7F7F7F7F7F7F7F7F
	tmp = ^(tmp | input | 0x7F7F7F7F7F7F7F7F)
	return bits.LeadingZeros64(tmp) >> 3
}
