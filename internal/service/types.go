package service

import (
	"errors"
	"time"

	"github.com/djcass44/corbos-scm/pkg/debian"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// ErrNoDescriptor is returned when container mode finishes
// without producing a source control file.
var ErrNoDescriptor = errors.New("no source control file produced")

type Mode string

const (
	ModeGit       Mode = "git"
	ModeContainer Mode = "container"
)

const DefaultBranch = "master"

type Options struct {
	Git     string
	Branch  string
	Package string
	OutDir  string

	Registry     string
	Container    string
	Mirror       string
	Distribution string

	// CacheDir is where repositories are checked out. A
	// temporary directory is used when it is empty.
	CacheDir string
	// ModTime is applied to every archive entry when set.
	ModTime *time.Time
}

// Result describes the files that a run produced.
type Result struct {
	Mode        Mode
	Descriptors []string
	Files       []string
	// Version is only known when the descriptor was
	// synthesised locally.
	Version *debian.PackageVersion
	// Revision is the commit or image digest that the
	// sources came from, if it could be determined.
	Revision string
}
