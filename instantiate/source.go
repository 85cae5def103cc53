package instantiate

import (
	"fmt"
	"io/ioutil"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/bootstrapp/bootstrapp/internal/bserrors"
)

// Source supplies the billy.Filesystem rooted at a template bundle
// directory (the directory directly containing Bootstrapp.json and
// Content/).
type Source interface {
	FS() (billy.Filesystem, error)
}

type localSource struct{ path string }

// NewLocalSource is a template bundle on the local filesystem at path.
func NewLocalSource(path string) Source {
	return &localSource{path: path}
}

func (s *localSource) FS() (billy.Filesystem, error) {
	return osfs.New(s.path), nil
}

type gitSource struct {
	url string
	ref string
}

// NewGitSource is a template bundle fetched from a git repository's
// root, optionally pinned to ref (a branch name; empty means the
// remote's default branch). ref is always looked up as a branch, so a
// tag name is not resolved.
func NewGitSource(url, ref string) Source {
	return &gitSource{url: url, ref: ref}
}

func (s *gitSource) FS() (billy.Filesystem, error) {
	fs := memfs.New()
	storage := memory.NewStorage()
	opts := &git.CloneOptions{
		URL:          s.url,
		SingleBranch: true,
		Depth:        1,
	}
	if s.ref != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(s.ref)
	}
	if _, err := git.Clone(storage, fs, opts); err != nil {
		return nil, bserrors.IO(s.url, fmt.Errorf("cloning template bundle: %w", err))
	}
	return fs, nil
}

// billyFS adapts a billy.Filesystem to render.FS for import resolution.
type billyFS struct{ fs billy.Filesystem }

func (b billyFS) ReadFile(path string) ([]byte, error) {
	f, err := b.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ioutil.ReadAll(f)
}
