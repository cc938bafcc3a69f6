package debian

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// WriteTo writes the record in control file syntax. Fields are
// written in sorted order and multi-line fields keep the order
// that their lines were added in.
func (r *Record) WriteTo(w io.Writer) (int64, error) {
	cw := &countingWriter{w: w}
	for _, k := range r.Keys() {
		v := r.fields[k]
		if !v.list {
			if _, err := fmt.Fprintf(cw, "%s: %s\n", k, v.value); err != nil {
				return cw.n, err
			}
			continue
		}
		if err := writeBlock(cw, k, v.lines); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

// writeBlock writes a multi-line field.
func writeBlock(w io.Writer, key Field, lines []string) error {
	if _, err := fmt.Fprintf(w, "%s:\n", key); err != nil {
		return err
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, " %s\n", line); err != nil {
			return err
		}
	}
	return nil
}

// WriteDescriptor writes the record to path, replacing any
// existing file.
func WriteDescriptor(r *Record, path string) (string, error) {
	path = filepath.Clean(path)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating descriptor: %w", err)
	}
	bw := bufio.NewWriter(f)
	if _, err := r.WriteTo(bw); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing descriptor: %w", err)
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("writing descriptor: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing descriptor: %w", err)
	}
	return path, nil
}

// countingWriter counts the bytes written to the underlying
// io.Writer.
type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}
