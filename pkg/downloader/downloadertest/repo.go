// Package downloadertest creates git repositories for tests.
package downloadertest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// NewRepo initialises a repository on the master branch with
// a single commit containing files. It returns the directory
// of the repository and the hash of the commit.
func NewRepo(t *testing.T, files map[string]string) (string, string) {
	t.Helper()
	dir := t.TempDir()

	if _, err := git.PlainInit(dir, false); err != nil {
		t.Fatalf("failed to init repository: %v", err)
	}
	return dir, Commit(t, dir, files)
}

// Commit writes files into the repository at dir and commits
// them. It returns the hash of the new commit.
func Commit(t *testing.T, dir string, files map[string]string) string {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	if err != nil {
		t.Fatalf("failed to open repository: %v", err)
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to open worktree: %v", err)
	}
	if err := wt.AddGlob("."); err != nil {
		t.Fatalf("failed to stage files: %v", err)
	}
	hash, err := wt.Commit("update", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.org",
			When:  time.Unix(1700000000, 0),
		},
	})
	if err != nil {
		t.Fatalf("failed to commit: %v", err)
	}
	return hash.String()
}
