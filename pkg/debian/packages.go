package debian

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"pault.ag/go/debian/control"
)

// ReadControl parses the debian/control file at the given path.
func ReadControl(path string) (*Control, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("opening control file: %w", err)
	}
	defer f.Close()
	return ParseControl(f)
}

// ParseControl reads every paragraph of a debian/control file.
// Comment lines are skipped.
//
// https://www.debian.org/doc/debian-policy/ch-controlfields.html#source-package-control-files-debian-control
func ParseControl(r io.Reader) (*Control, error) {
	pr, err := control.NewParagraphReader(r, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading control file: %w", ErrMetadataFormat, err)
	}
	all, err := pr.All()
	if err != nil {
		return nil, fmt.Errorf("%w: parsing control file: %w", ErrMetadataFormat, err)
	}

	var paragraphs []control.Paragraph
	for _, p := range all {
		if len(p.Order) == 0 {
			continue
		}
		paragraphs = append(paragraphs, p)
	}
	return &Control{paragraphs: paragraphs}, nil
}

// Fields returns a flat view of every field in the control
// file. When a field appears in more than one paragraph, the
// last value wins.
func (c *Control) Fields() map[string]string {
	out := map[string]string{}
	for _, p := range c.paragraphs {
		for _, k := range p.Order {
			out[k] = fold(p.Values[k])
		}
	}
	return out
}

// Binaries returns the binary packages declared in the control
// file in the order that they are declared.
func (c *Control) Binaries() []BinaryPackage {
	var out []BinaryPackage
	for _, p := range c.paragraphs {
		name := fold(p.Values[string(FieldPackage)])
		if name == "" {
			continue
		}
		out = append(out, BinaryPackage{
			Name:         name,
			Section:      fold(p.Values[string(FieldSection)]),
			Priority:     fold(p.Values[string(FieldPriority)]),
			Architecture: fold(p.Values[string(FieldArchitecture)]),
		})
	}
	return out
}

// fold joins the lines of a folded field into a single line.
func fold(s string) string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, " ")
}

// Line returns the Package-List entry for the binary package.
func (b BinaryPackage) Line() string {
	return fmt.Sprintf("%s deb %s %s arch=%s",
		b.Name,
		valueOr(b.Section, DefaultSection),
		valueOr(b.Priority, DefaultPriority),
		valueOr(b.Architecture, DefaultArchitecture),
	)
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
