package brc

import "math"

// ParseFixed parses a temperature token into tenths: "-12.3" => -123.
// The accepted grammar is an optional '-', one or more digits, a '.', and
// exactly one digit. Anything else, or a value that does not fit an int32,
// returns false.
func ParseFixed(s []byte) (int32, bool) {
	n := len(s)
	if n < 3 || s[n-2] != '.' {
		return 0, false
	}
	frac := s[n-1] - '0'
	if frac > 9 {
		return 0, false
	}
	i := 0
	minus := s[0] == '-'
	if minus {
		i++
	}
	if i == n-2 { // no integer digit
		return 0, false
	}
	var d int64
	for ; i < n-2; i++ {
		c := s[i] - '0'
		if c > 9 {
			return 0, false
		}
		d = d*10 + int64(c)
		if d > math.MaxInt32 {
			return 0, false
		}
	}
	d = d*10 + int64(frac)
	if d > math.MaxInt32 {
		return 0, false
	}
	if minus {
		d = -d
	}
	return int32(d), true
}

// appendFixed renders tenths with exactly one fractional digit, without going
// through a float.
func appendFixed(dst []byte, v int32) []byte {
	u := int64(v)
	if u < 0 {
		dst = append(dst, '-')
		u = -u
	}
	var tmp [12]byte
	pos := len(tmp)
	pos--
	tmp[pos] = byte('0' + u%10)
	pos--
	tmp[pos] = '.'
	u /= 10
	for {
		pos--
		tmp[pos] = byte('0' + u%10)
		u /= 10
		if u == 0 {
			break
		}
	}
	return append(dst, tmp[pos:]...)
}
