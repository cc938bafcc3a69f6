package debian

import (
	"fmt"
	"path/filepath"
)

// DeriveNames returns the canonical names of the files that
// make up a source package.
//
// https://www.debian.org/doc/debian-policy/ch-controlfields.html#s-f-files
func DeriveNames(name string, v PackageVersion) Names {
	return Names{
		SourceDir:     fmt.Sprintf("%s-%s", name, v.UpstreamVersion),
		OrigTarball:   fmt.Sprintf("%s_%s.orig.tar.gz", name, v.UpstreamVersion),
		DebianTarball: fmt.Sprintf("%s_%s.debian.tar.xz", name, v.DebianRevision),
		Descriptor:    fmt.Sprintf("%s_%s.dsc", name, v.DebianRevision),
	}
}

// In returns a copy of n with each file name placed
// inside dir.
func (n Names) In(dir string) Names {
	return Names{
		SourceDir:     filepath.Join(dir, n.SourceDir),
		OrigTarball:   filepath.Join(dir, n.OrigTarball),
		DebianTarball: filepath.Join(dir, n.DebianTarball),
		Descriptor:    filepath.Join(dir, n.Descriptor),
	}
}

// Archives returns the tarballs in the order that they are
// listed in the checksum fields.
func (n Names) Archives() []string {
	return []string{n.OrigTarball, n.DebianTarball}
}
