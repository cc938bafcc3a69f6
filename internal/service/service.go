package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/djcass44/corbos-scm/pkg/command"
	"github.com/djcass44/corbos-scm/pkg/containerutil"
	"github.com/djcass44/corbos-scm/pkg/debian"
	"github.com/djcass44/corbos-scm/pkg/downloader"
	"github.com/go-logr/logr"
	"github.com/google/go-containerregistry/pkg/name"
)

// Resolver returns the digest of a container image.
type Resolver func(ctx context.Context, ref name.Reference) (string, error)

type Service struct {
	runner  command.Runner
	resolve Resolver
}

func New(runner command.Runner, resolve Resolver) *Service {
	if runner == nil {
		runner = &command.Exec{}
	}
	if resolve == nil {
		resolve = containerutil.Digest
	}
	return &Service{runner: runner, resolve: resolve}
}

// Run produces a source package in opts.OutDir using the mode
// selected by the options.
func (s *Service) Run(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	mode, _ := opts.Mode()
	log := logr.FromContextOrDiscard(ctx).WithValues("mode", mode)
	log.V(1).Info("preparing output directory", "path", opts.OutDir)

	if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	var res *Result
	var err error
	switch mode {
	case ModeGit:
		res, err = s.runGit(logr.NewContext(ctx, log), opts)
	case ModeContainer:
		res, err = s.runContainer(logr.NewContext(ctx, log), opts)
	}
	if err != nil {
		return nil, err
	}
	res.Mode = mode
	return res, nil
}

func (s *Service) runGit(ctx context.Context, opts Options) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	cacheDir := opts.CacheDir
	if cacheDir == "" {
		dir, err := os.MkdirTemp("", "corbos-scm-*")
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := os.RemoveAll(dir); err != nil {
				log.Error(err, "failed to remove checkout", "path", dir)
			}
		}()
		cacheDir = dir
	}
	d, err := downloader.NewDownloader(cacheDir)
	if err != nil {
		return nil, err
	}
	checkout, err := d.Checkout(ctx, opts.Git, opts.Branch)
	if err != nil {
		return nil, err
	}
	head, err := downloader.Head(checkout)
	if err != nil {
		log.V(1).Info("unable to determine checked out commit", "error", err.Error())
	} else {
		log.Info("checked out repository", "commit", head)
	}

	res, err := Build(ctx, filepath.Join(checkout, filepath.Clean("/"+opts.Package)), opts.OutDir, opts)
	if err != nil {
		return nil, err
	}
	res.Revision = head
	return res, nil
}

func (s *Service) runContainer(ctx context.Context, opts Options) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx)

	ref, err := containerutil.Reference(opts.Registry, opts.Container)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	digest, err := s.resolve(ctx, ref)
	if err != nil {
		log.V(1).Info("unable to resolve image digest", "ref", ref.Name(), "error", err.Error())
	} else {
		log.Info("resolved image", "ref", ref.Name(), "digest", digest)
	}

	// podman requires an absolute path for bind mounts
	outDir, err := filepath.Abs(opts.OutDir)
	if err != nil {
		return nil, err
	}
	// anything that was already in the output directory
	// isn't ours to verify
	existing, err := descriptors(outDir)
	if err != nil {
		return nil, err
	}

	if err := containerutil.Pull(ctx, s.runner, ref); err != nil {
		return nil, err
	}
	if err := containerutil.FetchSource(ctx, s.runner, ref, containerutil.FetchOptions{
		OutDir:       outDir,
		Mirror:       opts.Mirror,
		Distribution: opts.Distribution,
		Package:      opts.Package,
	}); err != nil {
		return nil, err
	}

	found, err := descriptors(outDir)
	if err != nil {
		return nil, err
	}
	res := &Result{Revision: digest}
	for _, path := range found {
		if slices.Contains(existing, path) {
			continue
		}
		files, err := debian.Verify(path)
		if err != nil {
			return nil, err
		}
		log.Info("verified source package", "descriptor", path, "files", len(files))
		res.Descriptors = append(res.Descriptors, path)
		res.Files = append(res.Files, files...)
	}
	if len(res.Descriptors) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoDescriptor, outDir)
	}
	return res, nil
}

// descriptors lists the source control files in dir.
func descriptors(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.dsc"))
	if err != nil {
		return nil, err
	}
	slices.Sort(matches)
	return matches, nil
}
