package persistence

import (
	"bufio"
	"fmt"
	"os"
)

// FileWriter appends to a file through a buffer.
type FileWriter struct {
	file *os.File
	buf  *bufio.Writer
}

func NewFileWriter(filename string) (*FileWriter, error) {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, OwnerReadWrite)
	if err != nil {
		return nil, err
	}
	return &FileWriter{
		file: f,
		buf:  bufio.NewWriter(f),
	}, nil
}

func (w *FileWriter) Write(b []byte) (int, error) {
	return w.buf.Write(b)
}

func (w *FileWriter) Flush() error {
	if err := w.buf.Flush(); err != nil {
		return fmt.Errorf("failed to flush disk writer: %w", err)
	}

	return nil
}

// Close flushes the buffer and closes the file. It returns the final file info.
func (w *FileWriter) Close() (os.FileInfo, error) {
	if w.file == nil {
		return nil, os.ErrClosed
	}

	err := w.buf.Flush()
	if err != nil {
		return nil, err
	}
	w.buf = nil

	info, err := w.file.Stat()
	if err != nil {
		return nil, err
	}

	err = w.file.Close()
	if err != nil {
		return nil, err
	}
	w.file = nil

	return info, nil
}
