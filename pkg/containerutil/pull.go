package containerutil

import (
	"context"
	"fmt"
	"github.com/djcass44/corbos-scm/pkg/command"
	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"
	"os"
	"regexp"
	"strings"
)

// shellSafe matches words that bash reads literally.
var shellSafe = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// Podman is the container engine that images are pulled
// and run with.
const Podman = "podman"

// containerWorkDir is where the output directory is mounted
// inside the container.
const containerWorkDir = "/tmp"

// FetchOptions describe which source package to download.
type FetchOptions struct {
	OutDir       string
	Mirror       string
	Distribution string
	Package      string
}

func Pull(ctx context.Context, runner command.Runner, ref name.Reference) error {
	log := logr.FromContextOrDiscard(ctx)
	// pull the image
	log.Info("pulling image", "ref", ref.Name())

	if _, err := runner.Run(ctx, command.Options{Output: os.Stderr}, Podman, "pull", ref.Name()); err != nil {
		return fmt.Errorf("pulling %s: %w", ref.Name(), err)
	}
	return nil
}

// FetchSource runs pull-debian-source inside the container so
// that the source package is downloaded into opts.OutDir.
func FetchSource(ctx context.Context, runner command.Runner, ref name.Reference, opts FetchOptions) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("ref", ref.Name(), "package", opts.Package)
	log.Info("fetching source package in container", "mirror", opts.Mirror, "distribution", opts.Distribution)

	if _, err := runner.Run(ctx, command.Options{Output: os.Stderr}, Podman, RunArgs(ref, opts)...); err != nil {
		return fmt.Errorf("fetching %s in %s: %w", opts.Package, ref.Name(), err)
	}
	return nil
}

// RunArgs returns the podman arguments used by FetchSource.
func RunArgs(ref name.Reference, opts FetchOptions) []string {
	script := []string{"cd " + containerWorkDir, "&&", "pull-debian-source", "--download-only"}
	if opts.Mirror != "" {
		script = append(script, "--mirror", quote(opts.Mirror))
	}
	if opts.Distribution != "" {
		script = append(script, "--distro", quote(opts.Distribution))
	}
	script = append(script, quote(opts.Package))

	return []string{
		"run",
		"--rm",
		"-v", fmt.Sprintf("%s:%s", opts.OutDir, containerWorkDir),
		ref.Name(),
		"bash", "-c", strings.Join(script, " "),
	}
}

// quote returns s as a single bash word.
func quote(s string) string {
	if shellSafe.MatchString(s) {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
