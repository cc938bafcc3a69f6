// Package archivetest expands archives so that tests can
// inspect what was packed.
package archivetest

import (
	"archive/tar"
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
)

// Guntar is the same as Untar, but it first decodes the gzipped archive.
func Guntar(ctx context.Context, r io.Reader, dst string) error {
	gzp, err := gzip.NewReader(r)
	if err != nil {
		return err
	}
	defer gzp.Close()
	return Untar(ctx, gzp, dst)
}

// XZuntar is the same as Untar, but it first decodes the xz archive.
func XZuntar(ctx context.Context, r io.Reader, dst string) error {
	xzr, err := xz.NewReader(r)
	if err != nil {
		return err
	}
	return Untar(ctx, xzr, dst)
}

// Untar expands a tar archive into the given directory.
func Untar(ctx context.Context, r io.Reader, dst string) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("dst", dst)
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			log.Error(err, "failed to read file from archive")
			return err
		case header == nil:
			continue
		}

		target := filepath.Join(dst, filepath.Clean("/"+header.Name))

		switch header.Typeflag {
		case tar.TypeDir:
			log.V(5).Info("creating directory", "target", target)
			if err := os.MkdirAll(target, 0755); err != nil {
				log.Error(err, "failed to create directory", "target", target)
				return err
			}
		case tar.TypeSymlink:
			log.V(5).Info("creating symlink", "target", target, "link", header.Linkname)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				log.Error(err, "failed to create symlink", "target", target)
				return err
			}
		case tar.TypeReg:
			log.V(5).Info("creating file", "target", target, "mode", header.Mode)
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_RDWR|os.O_TRUNC, os.FileMode(header.Mode))
			if err != nil {
				log.Error(err, "failed to open file", "target", target)
				return err
			}

			if _, err := io.Copy(f, tr); err != nil {
				log.Error(err, "failed to extract file", "target", target)
				_ = f.Close()
				return err
			}
			_ = f.Close()
		}
	}
}
