package brc

import (
	"bytes"
	"io"
	"strconv"
)

// appendStation renders "name;min/mean/max"; min and max come straight from
// tenths so they are printed exactly as read.
func appendStation(dst []byte, station *StationData) []byte {
	dst = append(dst, station.Name...)
	dst = append(dst, valueSep)
	dst = appendFixed(dst, station.Min)
	dst = append(dst, '/')
	dst = strconv.AppendFloat(dst, station.Mean(), 'f', 1, 64)
	dst = append(dst, '/')
	dst = appendFixed(dst, station.Max)
	return dst
}

func writeData(out io.Writer, stationLst []*StationData) error {
	var buffer bytes.Buffer
	buffer.Grow(len(stationLst) * 32)
	line := make([]byte, 0, 128)
	for _, station := range stationLst {
		line = appendStation(line[:0], station)
		buffer.Write(line)
		buffer.WriteByte(recordSep)
	}
	if _, err := out.Write(buffer.Bytes()); err != nil {
		return ioError("write", "output", err)
	}
	return nil
}
