package debian

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pault.ag/go/debian/control"
	"pault.ag/go/debian/hashio"
)

const (
	algMD5    = "md5"
	algSHA1   = "sha1"
	algSHA256 = "sha256"
)

// chunkSize is the size of each read when hashing a file.
const chunkSize = 64 * 1024

// ChecksumFile computes the MD5, SHA1 and SHA256 digests of
// the file at path. The file is streamed rather than being
// read into memory.
func ChecksumFile(path string) (Checksums, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return Checksums{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	w, hashers, err := hashio.NewHasherWriters([]string{algMD5, algSHA1, algSHA256}, io.Discard)
	if err != nil {
		return Checksums{}, err
	}

	buf := make([]byte, chunkSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				return Checksums{}, fmt.Errorf("hashing %s: %w", path, werr)
			}
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Checksums{}, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	name := filepath.Base(path)
	var out Checksums
	for _, h := range hashers {
		fh := control.FileHashFromHasher(name, *h)
		switch h.Name() {
		case algMD5:
			out.MD5 = fh
		case algSHA1:
			out.SHA1 = fh
		case algSHA256:
			out.SHA256 = fh
		}
	}
	return out, nil
}

// checksumLine formats a file hash the way that it appears in
// a checksum field.
func checksumLine(fh control.FileHash) string {
	return fmt.Sprintf("%s %d %s", fh.Hash, fh.Size, fh.Filename)
}

// AppendChecksums computes the checksums of each file and
// appends the Checksums-Sha1, Checksums-Sha256 and Files
// fields to the descriptor at path. Files are listed in the
// order given.
func AppendChecksums(path string, files []string) error {
	sums := make([]Checksums, 0, len(files))
	for _, file := range files {
		c, err := ChecksumFile(file)
		if err != nil {
			return err
		}
		sums = append(sums, c)
	}

	var sha1Lines, sha256Lines, md5Lines []string
	for _, c := range sums {
		sha1Lines = append(sha1Lines, checksumLine(c.SHA1))
		sha256Lines = append(sha256Lines, checksumLine(c.SHA256))
		md5Lines = append(md5Lines, checksumLine(c.MD5))
	}

	f, err := os.OpenFile(filepath.Clean(path), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening descriptor: %w", err)
	}
	bw := bufio.NewWriter(f)
	for _, block := range []struct {
		key   Field
		lines []string
	}{
		{FieldChecksumsSha1, sha1Lines},
		{FieldChecksumsSha256, sha256Lines},
		{FieldFiles, md5Lines},
	} {
		if err := writeBlock(bw, block.key, block.lines); err != nil {
			_ = f.Close()
			return fmt.Errorf("appending %s: %w", block.key, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("appending checksums: %w", err)
	}
	return f.Close()
}
