// Package git commits checklist and generated-content changes to the
// repository that contains them.
package git

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// FindRepoRoot walks up from path to the directory holding .git.
func FindRepoRoot(path string) (string, error) {
	current := path
	if info, err := os.Stat(current); err == nil && !info.IsDir() {
		current = filepath.Dir(current)
	}

	for {
		if _, err := os.Stat(filepath.Join(current, ".git")); err == nil {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", os.ErrNotExist
		}
		current = parent
	}
}

func IsGitRepo(path string) bool {
	_, err := FindRepoRoot(path)
	return err == nil
}

// Committer stages and commits files under a fixed author. Files outside a
// repository are ignored.
type Committer struct {
	AuthorName  string
	AuthorEmail string
	Push        bool

	now func() time.Time
}

func NewCommitter(name, email string, push bool) *Committer {
	return &Committer{AuthorName: name, AuthorEmail: email, Push: push, now: time.Now}
}

// Commit records a single file.
func (c *Committer) Commit(path, message string) error {
	return c.CommitAll([]string{path}, message)
}

// CommitAll stages every path and makes one commit. Nothing is committed
// when the paths carry no changes. All paths must share a repository.
func (c *Committer) CommitAll(paths []string, message string) error {
	if len(paths) == 0 {
		return nil
	}

	repoRoot, err := FindRepoRoot(paths[0])
	if err != nil {
		return nil
	}

	repo, err := git.PlainOpen(repoRoot)
	if err != nil {
		return err
	}
	w, err := repo.Worktree()
	if err != nil {
		return err
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(repoRoot, abs)
		if err != nil {
			return err
		}
		if _, err := w.Add(filepath.ToSlash(rel)); err != nil {
			return err
		}
	}

	status, err := w.Status()
	if err != nil {
		return err
	}
	if status.IsClean() {
		return nil
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	_, err = w.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  c.AuthorName,
			Email: c.AuthorEmail,
			When:  now(),
		},
	})
	if err != nil {
		return err
	}

	if !c.Push {
		return nil
	}
	remotes, err := repo.Remotes()
	if err != nil || len(remotes) == 0 {
		return nil
	}
	err = repo.Push(&git.PushOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return err
	}
	return nil
}

// Init creates an empty repository at path.
func Init(path string) error {
	_, err := git.PlainInit(path, false)
	return err
}
