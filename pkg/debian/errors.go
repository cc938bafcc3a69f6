package debian

import "errors"

var (
	// ErrMetadataFormat is returned when the changelog does not
	// start with a "name (version) target;" line.
	ErrMetadataFormat = errors.New("malformed package metadata")
	// ErrMissingMetadataDirectory is returned when a package has
	// no debian directory.
	ErrMissingMetadataDirectory = errors.New("missing debian metadata directory")
	// ErrChecksumMismatch is returned when a file referenced by a
	// source control file does not match its recorded checksum.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)
