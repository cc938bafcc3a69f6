package debian

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pault.ag/go/debian/control"
)

// descriptor is the part of a source control file that lists
// the files belonging to the source package.
type descriptor struct {
	Files           []control.MD5FileHash    `control:"Files" delim:"\n" strip:"\n\r\t "`
	ChecksumsSha1   []control.SHA1FileHash   `control:"Checksums-Sha1" delim:"\n" strip:"\n\r\t "`
	ChecksumsSha256 []control.SHA256FileHash `control:"Checksums-Sha256" delim:"\n" strip:"\n\r\t "`
}

type entry struct {
	field Field
	want  control.FileHash
}

func (d *descriptor) entries() []entry {
	var out []entry
	for _, h := range d.Files {
		out = append(out, entry{field: FieldFiles, want: h.FileHash})
	}
	for _, h := range d.ChecksumsSha1 {
		out = append(out, entry{field: FieldChecksumsSha1, want: h.FileHash})
	}
	for _, h := range d.ChecksumsSha256 {
		out = append(out, entry{field: FieldChecksumsSha256, want: h.FileHash})
	}
	return out
}

// Verify checks that every file listed in the checksum fields
// of the source control file at path exists next to it and
// matches the recorded size and digest. It returns the names of
// the files that were checked.
//
// Signed files are accepted, however the signature is not
// checked.
func Verify(path string) ([]string, error) {
	path = filepath.Clean(path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening descriptor: %w", err)
	}
	defer f.Close()

	dec, err := control.NewDecoder(f, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading descriptor %s: %w", ErrMetadataFormat, path, err)
	}
	var d descriptor
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty descriptor: %s", ErrMetadataFormat, path)
		}
		return nil, fmt.Errorf("%w: parsing descriptor %s: %w", ErrMetadataFormat, path, err)
	}
	entries := d.entries()
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: descriptor has no checksum fields: %s", ErrMetadataFormat, path)
	}

	dir := filepath.Dir(path)
	sums := map[string]Checksums{}
	var checked []string
	for _, e := range entries {
		name := e.want.Filename
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("%w: unexpected file name in %s entry: %q", ErrMetadataFormat, e.field, name)
		}
		actual, ok := sums[name]
		if !ok {
			actual, err = ChecksumFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			sums[name] = actual
			checked = append(checked, name)
		}
		if err := compareHash(e.field, e.want, actual); err != nil {
			return nil, err
		}
	}
	return checked, nil
}

func compareHash(field Field, want control.FileHash, actual Checksums) error {
	var got control.FileHash
	switch field {
	case FieldFiles:
		got = actual.MD5
	case FieldChecksumsSha1:
		got = actual.SHA1
	case FieldChecksumsSha256:
		got = actual.SHA256
	}
	if got.Size != want.Size {
		return fmt.Errorf("%w: %s: size %d does not match %d", ErrChecksumMismatch, want.Filename, got.Size, want.Size)
	}
	if !strings.EqualFold(got.Hash, want.Hash) {
		return fmt.Errorf("%w: %s: %s %s does not match %s", ErrChecksumMismatch, want.Filename, field, got.Hash, want.Hash)
	}
	return nil
}
