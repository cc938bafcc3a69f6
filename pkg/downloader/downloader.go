package downloader

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-logr/logr"
	"github.com/hashicorp/go-getter"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

func NewDownloader(cacheDir string) (*Downloader, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, err
	}
	return &Downloader{cacheDir: cacheDir}, nil
}

// Checkout clones the given branch of a git repository and
// returns the directory that it was cloned into.
func (d *Downloader) Checkout(ctx context.Context, repo, branch string) (string, error) {
	log := logr.FromContextOrDiscard(ctx).WithValues("repo", repo, "branch", branch)
	log.Info("checking out repository")

	src := GitSource(repo, branch)

	// clone into a predictable location so that the same
	// repository and branch are never mixed up with another
	dst := filepath.Join(d.cacheDir, cacheKey(src))
	if _, err := os.Stat(filepath.Join(dst, ".git")); err == nil {
		err := update(ctx, dst, branch)
		if err == nil {
			log.Info("reusing cached checkout", "dst", dst)
			return dst, nil
		}
		log.V(1).Info("unable to update cached checkout", "dst", dst, "error", err.Error())
	}

	log.V(1).Info("preparing to clone repository", "src", src, "dst", dst)
	if err := os.RemoveAll(dst); err != nil {
		log.Error(err, "failed to clear checkout directory", "dst", dst)
		return "", err
	}

	client := &getter.Client{
		Ctx:             ctx,
		Src:             src,
		Dst:             dst,
		Mode:            getter.ClientModeDir,
		DisableSymlinks: true,
	}
	if err := client.Get(); err != nil {
		log.Error(err, "failed to clone repository")
		return "", fmt.Errorf("cloning %s: %w", repo, err)
	}
	return dst, nil
}

// update fetches branch into an existing clone at dst and
// resets the worktree to it.
func update(ctx context.Context, dst, branch string) error {
	repo, err := git.PlainOpen(dst)
	if err != nil {
		return fmt.Errorf("opening repository: %w", err)
	}
	remoteRef := plumbing.NewRemoteReferenceName(git.DefaultRemoteName, branch)
	err = repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: git.DefaultRemoteName,
		RefSpecs:   []config.RefSpec{config.RefSpec(fmt.Sprintf("+%s:%s", plumbing.NewBranchReferenceName(branch), remoteRef))},
		Force:      true,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetching %s: %w", branch, err)
	}
	ref, err := repo.Reference(remoteRef, true)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", remoteRef, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.Checkout(&git.CheckoutOptions{Hash: ref.Hash(), Force: true}); err != nil {
		return fmt.Errorf("checking out %s: %w", ref.Hash(), err)
	}
	return wt.Clean(&git.CleanOptions{Dir: true})
}

// GitSource builds a go-getter source string that forces the
// git getter and selects the given branch.
func GitSource(repo, branch string) string {
	src := strings.TrimPrefix(repo, "git::")
	sep := "?"
	if strings.Contains(src, "?") {
		sep = "&"
	}
	return fmt.Sprintf("git::%s%sref=%s", src, sep, url.QueryEscape(branch))
}

// Head returns the commit that is checked out in the
// repository at dir.
func Head(dir string) (string, error) {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("opening repository: %w", err)
	}
	ref, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("resolving HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// cacheKey returns a short, filesystem-safe name for a source.
// It should not be used for cryptographic operations.
func cacheKey(src string) string {
	h := sha256.Sum256([]byte(src))
	return hex.EncodeToString(h[:])[:12]
}
