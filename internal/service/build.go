package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/djcass44/corbos-scm/pkg/archiveutil"
	"github.com/djcass44/corbos-scm/pkg/debian"
	"github.com/go-logr/logr"
	"github.com/gosimple/hashdir"
)

const (
	metadataDir   = "debian"
	changelogFile = "changelog"
	controlFile   = "control"
)

// Build turns the package directory pkgDir into a source
// package in outDir. The directory must contain a debian/
// metadata directory.
func Build(ctx context.Context, pkgDir, outDir string, opts Options) (*Result, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("dir", pkgDir)

	metaDir := filepath.Join(pkgDir, metadataDir)
	if info, err := os.Stat(metaDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", debian.ErrMissingMetadataDirectory, metaDir)
	}

	if digest, err := hashdir.Make(pkgDir, "sha256"); err != nil {
		log.V(1).Info("failed to compute source digest", "error", err.Error())
	} else {
		log.V(1).Info("computed source digest", "digest", digest)
	}

	v, err := debian.ReadChangelog(filepath.Join(metaDir, changelogFile))
	if err != nil {
		return nil, err
	}
	log = log.WithValues("name", v.Name, "version", v.String())
	log.Info("parsed changelog", "target", v.Target)
	if err := v.Validate(); err != nil {
		log.Info("WARNING: version does not follow debian policy", "error", err.Error())
	}

	ctrl, err := debian.ReadControl(filepath.Join(metaDir, controlFile))
	if err != nil {
		return nil, err
	}

	names := debian.DeriveNames(v.Name, v)
	paths := names.In(outDir)

	// base descriptor
	record := debian.CollectFields(ctrl.Fields(), ctrl.Binaries(), v)
	if _, err := debian.WriteDescriptor(record, paths.Descriptor); err != nil {
		return nil, err
	}
	log.V(1).Info("wrote descriptor", "path", paths.Descriptor, "fields", record.Len())

	// archives
	log.Info("creating debian archive", "path", paths.DebianTarball)
	if err := archiveutil.XZTar(ctx, paths.DebianTarball, metaDir, archiveutil.Options{
		Prefix:  metadataDir,
		ModTime: opts.ModTime,
	}); err != nil {
		return nil, err
	}
	log.Info("creating source archive", "path", paths.OrigTarball)
	if err := archiveutil.GzipTar(ctx, paths.OrigTarball, pkgDir, archiveutil.Options{
		Prefix:  names.SourceDir,
		Exclude: []string{metadataDir, ".git"},
		ModTime: opts.ModTime,
	}); err != nil {
		return nil, err
	}

	if err := debian.AppendChecksums(paths.Descriptor, paths.Archives()); err != nil {
		return nil, err
	}

	// make sure that what we wrote can be read back
	files, err := debian.Verify(paths.Descriptor)
	if err != nil {
		return nil, err
	}
	log.Info("created source package", "descriptor", paths.Descriptor)

	return &Result{
		Descriptors: []string{paths.Descriptor},
		Files:       files,
		Version:     &v,
	}, nil
}
