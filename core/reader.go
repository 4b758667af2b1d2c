package brc

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

var chunkReadByteSize int = os.Getpagesize()

// FileReader exposes the whole input as one read-only buffer. Bytes is only
// valid between Read and Close and must not be written to.
type FileReader interface {
	Open(filename string) error
	Close() error
	IsOpen() bool
	GetFilename() string
	GetSize() int64
	Read() (int64, error)
	Bytes() []byte
}

type _FileCommonReader struct {
	filename string
	size     int64
	data     []byte
	open     bool
}

func (fileReader *_FileCommonReader) IsOpen() bool {
	return fileReader.open
}

func (fileReader *_FileCommonReader) GetSize() int64 {
	return fileReader.size
}

func (fileReader *_FileCommonReader) GetFilename() string {
	return fileReader.filename
}

func (fileReader *_FileCommonReader) Bytes() []byte {
	return fileReader.data
}

// openAndStat is shared by both readers
func (fileReader *_FileCommonReader) openAndStat(filename string) (*os.File, error) {
	if len(filename) == 0 {
		return nil, fmt.Errorf("%w: empty filename", ErrIO)
	}
	if fileReader.open {
		return nil, fmt.Errorf("%w: file already open: %s", ErrIO, fileReader.filename)
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil, ioError("open", filename, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, ioError("stat", filename, err)
	}
	fileReader.filename = filename
	fileReader.size = info.Size()
	return file, nil
}

// FileDiskReader copies the file into a heap buffer with pread.
type FileDiskReader struct {
	_FileCommonReader
	file *os.File
	fd   int
}

type FileMmapReader struct {
	_FileCommonReader
}

func NewFileDiskReader() FileReader {
	return &FileDiskReader{}
}

func (fileReader *FileDiskReader) Open(filename string) error {
	file, err := fileReader.openAndStat(filename)
	if err != nil {
		return err
	}
	fileReader.file = file
	fileReader.fd = int(file.Fd())
	fileReader.open = true
	return nil
}

// Read loads the whole file once, later calls are no-ops.
func (fileReader *FileDiskReader) Read() (int64, error) {
	if !fileReader.IsOpen() {
		return 0, fmt.Errorf("%w: file is not open", ErrIO)
	}
	if fileReader.data != nil {
		return fileReader.size, nil
	}
	data := make([]byte, fileReader.size)
	total := int64(0)
	for total < fileReader.size {
		n, err := unix.Pread(fileReader.fd,
			data[total:min(total+int64(chunkReadByteSize*64), fileReader.size)], total)
		if err != nil {
			return 0, ioError("read", fileReader.filename, err)
		}
		if n == 0 {
			return 0, ioError("read", fileReader.filename,
				fmt.Errorf("file shrank to %d bytes, expected %d", total, fileReader.size))
		}
		total += int64(n)
	}
	fileReader.data = data
	return total, nil
}

func (fileReader *FileDiskReader) Close() error {
	if !fileReader.open {
		return fmt.Errorf("%w: file already closed", ErrIO)
	}
	err := fileReader.file.Close()
	fileReader.file = nil
	fileReader.fd = -1
	fileReader.data = nil
	fileReader.size = 0
	fileReader.open = false
	if err != nil {
		return ioError("close", fileReader.filename, err)
	}
	return nil
}

// NewFileMmapReader maps the file read-only, pages are loaded on first access.
func NewFileMmapReader() FileReader {
	return &FileMmapReader{}
}

func (fileReader *FileMmapReader) Open(filename string) error {
	file, err := fileReader.openAndStat(filename)
	if err != nil {
		return err
	}
	// the mapping stays valid after the file is closed
	defer file.Close()
	if fileReader.size == 0 {
		// a zero length mapping is rejected by the kernel
		fileReader.data = []byte{}
		fileReader.open = true
		return nil
	}
	mmapFile, err := unix.Mmap(
		int(file.Fd()), 0, int(fileReader.size),
		unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return ioError("mmap", filename, err)
	}
	// a hint only, the ranges are scanned front to back
	_ = unix.Madvise(mmapFile, unix.MADV_SEQUENTIAL)
	fileReader.data = mmapFile
	fileReader.open = true
	return nil
}

// Read is a no-op, the mapping was created by Open.
func (fileReader *FileMmapReader) Read() (int64, error) {
	if !fileReader.IsOpen() {
		return 0, fmt.Errorf("%w: file is not open", ErrIO)
	}
	return fileReader.size, nil
}

func (fileReader *FileMmapReader) Close() error {
	if !fileReader.open {
		return fmt.Errorf("%w: file already closed", ErrIO)
	}
	var err error
	if len(fileReader.data) > 0 {
		err = unix.Munmap(fileReader.data)
	}
	fileReader.data = nil
	fileReader.size = 0
	fileReader.open = false
	if err != nil {
		return ioError("munmap", fileReader.filename, err)
	}
	return nil
}
