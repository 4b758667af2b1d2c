package brc

import "bytes"

// LineScanner walks a record-aligned range and yields each terminated record
// without its '\n'. A trailing fragment with no terminator is never yielded.
type LineScanner struct {
	data   []byte
	pos    int
	offset int // start of the last record returned
}

func NewLineScanner(data []byte) *LineScanner {
	return &LineScanner{data: data}
}

func (s *LineScanner) Next() ([]byte, bool) {
	nl := bytes.IndexByte(s.data[s.pos:], recordSep)
	if nl < 0 {
		s.pos = len(s.data)
		return nil, false
	}
	s.offset = s.pos
	line := s.data[s.pos : s.pos+nl]
	s.pos += nl + 1
	return line, true
}

// Offset of the last record returned by Next, relative to the scanned range.
func (s *LineScanner) Offset() int {
	return s.offset
}

// splitRecord returns key and value around the first ';', or false.
func splitRecord(line []byte) ([]byte, []byte, bool) {
	sep := findIndexOf(line, patternSemi)
	if sep < 0 {
		return nil, nil, false
	}
	return line[:sep], line[sep+1:], true
}
