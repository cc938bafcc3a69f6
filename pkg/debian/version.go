package debian

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	version "github.com/knqyf263/go-deb-version"
)

var regexpChangelog = regexp.MustCompile(`^(?P<name>\S+)\s*\((?P<version>[^)]*)\)(?P<target>[^;]*);`)

// ParseVersion parses the header line of a debian/changelog
// entry.
//
//	xsnow (1:3.3.2-1) unstable; urgency=low
//
// https://www.debian.org/doc/debian-policy/ch-source.html#debian-changelog-debian-changelog
func ParseVersion(line string) (PackageVersion, error) {
	matches := regexpChangelog.FindStringSubmatch(line)
	if len(matches) == 0 {
		return PackageVersion{}, fmt.Errorf("%w: unexpected changelog header: %q", ErrMetadataFormat, line)
	}
	name := matches[regexpChangelog.SubexpIndex("name")]
	raw := strings.TrimSpace(matches[regexpChangelog.SubexpIndex("version")])
	target := strings.TrimSpace(matches[regexpChangelog.SubexpIndex("target")])

	// everything after the last colon is the revision, and
	// the first element (if any) is the epoch
	bits := strings.Split(raw, ":")
	revision := bits[len(bits)-1]
	epoch := "0"
	if len(bits) > 1 {
		epoch = bits[0]
	}

	upstream := revision
	if i := strings.LastIndex(revision, "-"); i != -1 {
		upstream = revision[:i]
	}

	pv := PackageVersion{
		Name:            name,
		Epoch:           epoch,
		DebianRevision:  revision,
		UpstreamVersion: upstream,
		Target:          target,
	}
	if pv.Epoch == "" || pv.DebianRevision == "" || pv.UpstreamVersion == "" || pv.Target == "" {
		return PackageVersion{}, fmt.Errorf("%w: incomplete version in changelog header: %q", ErrMetadataFormat, line)
	}
	return pv, nil
}

// ReadChangelog parses the first line of the changelog file
// at the given path.
func ReadChangelog(path string) (PackageVersion, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return PackageVersion{}, fmt.Errorf("opening changelog: %w", err)
	}
	defer f.Close()

	// the header can be arbitrarily long
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return PackageVersion{}, fmt.Errorf("reading changelog: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return PackageVersion{}, fmt.Errorf("%w: empty changelog: %s", ErrMetadataFormat, path)
	}
	return ParseVersion(line)
}

// String returns the full version including the epoch.
func (v PackageVersion) String() string {
	return v.Epoch + ":" + v.DebianRevision
}

// Validate checks that the version is one that dpkg would
// accept.
func (v PackageVersion) Validate() error {
	if _, err := version.NewVersion(v.String()); err != nil {
		return fmt.Errorf("invalid debian version %q: %w", v.String(), err)
	}
	return nil
}
