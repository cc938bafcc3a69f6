package archiveutil

import (
	"archive/tar"
	"context"
	"fmt"
	"github.com/djcass44/corbos-scm/pkg/fileutil"
	"github.com/go-logr/logr"
	"github.com/klauspost/compress/gzip"
	"github.com/ulikunitz/xz"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// Options control how a directory is packed.
type Options struct {
	// Prefix is the top-level directory that every entry
	// is placed under.
	Prefix string
	// Exclude contains paths relative to the source directory
	// that are left out of the archive along with everything
	// beneath them.
	Exclude []string
	// ModTime overrides the modification time of every entry
	// when set.
	ModTime *time.Time
}

// GzipTar packs the directory src into a gzip-compressed tar
// archive at dst.
func GzipTar(ctx context.Context, dst, src string, opts Options) error {
	f, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	gzw := gzip.NewWriter(f)
	if err := Tar(ctx, gzw, src, opts); err != nil {
		_ = gzw.Close()
		_ = f.Close()
		return err
	}
	if err := gzw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("compressing archive: %w", err)
	}
	return f.Close()
}

// XZTar packs the directory src into an xz-compressed tar
// archive at dst.
func XZTar(ctx context.Context, dst, src string, opts Options) error {
	f, err := os.Create(filepath.Clean(dst))
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	xzw, err := xz.NewWriter(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("creating xz writer: %w", err)
	}
	if err := Tar(ctx, xzw, src, opts); err != nil {
		_ = xzw.Close()
		_ = f.Close()
		return err
	}
	if err := xzw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("compressing archive: %w", err)
	}
	return f.Close()
}

// Tar writes the contents of the directory src to w as a tar
// archive. Entries are written in lexical order.
func Tar(ctx context.Context, w io.Writer, src string, opts Options) error {
	log := logr.FromContextOrDiscard(ctx).WithValues("src", src, "prefix", opts.Prefix)
	src = filepath.Clean(src)
	tw := tar.NewWriter(w)

	err := filepath.WalkDir(src, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, err := filepath.Rel(src, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			rel = ""
		}
		if rel != "" && excluded(rel, opts.Exclude) {
			log.V(5).Info("skipping excluded path", "path", rel)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		name := path.Join(opts.Prefix, rel)
		if name == "" || name == "." {
			// the root is only written when it has a name
			return nil
		}
		return writeEntry(log, tw, p, name, opts)
	})
	if err != nil {
		log.Error(err, "failed to pack directory")
		return fmt.Errorf("packing %s: %w", src, err)
	}
	if err := tw.Close(); err != nil {
		return fmt.Errorf("closing archive: %w", err)
	}
	return nil
}

func writeEntry(log logr.Logger, tw *tar.Writer, src, name string, opts Options) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	var link string
	symlink, err := fileutil.IsSymbolicLink(src)
	if err != nil {
		return err
	}
	if symlink {
		link, err = os.Readlink(src)
		if err != nil {
			return err
		}
	}
	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	if info.IsDir() {
		hdr.Name += "/"
	}
	// ownership of the build host is meaningless to consumers
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	if opts.ModTime != nil {
		hdr.ModTime = *opts.ModTime
		hdr.AccessTime = time.Time{}
		hdr.ChangeTime = time.Time{}
	}

	log.V(6).Info("writing entry", "name", hdr.Name, "type", hdr.Typeflag)
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(tw, f)
	return err
}

func excluded(rel string, exclude []string) bool {
	for _, e := range exclude {
		e = strings.Trim(filepath.ToSlash(e), "/")
		if rel == e || strings.HasPrefix(rel, e+"/") {
			return true
		}
	}
	return false
}
