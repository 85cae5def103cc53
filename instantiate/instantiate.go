package instantiate

import (
	"fmt"
	"io/ioutil"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/helper/chroot"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/internal/bserrors"
	"github.com/bootstrapp/bootstrapp/internal/bslog"
	"github.com/bootstrapp/bootstrapp/lang"
	"github.com/bootstrapp/bootstrapp/render"
)

// Options configures a single instantiation run.
type Options struct {
	// Params are user-supplied parameter overrides, keyed by
	// ParameterSpec.ID.
	Params map[string]string
	// ExcludePackages names packages (by their "name" field) to drop
	// from the context's packages list.
	ExcludePackages map[string]bool
	// OutputDir overrides the spec-computed, date-stamped output
	// path. Empty means compute it from outputDirectoryName under
	// ResultsRoot.
	OutputDir string
	// ResultsRoot is the directory under which date-stamped output
	// directories are created when OutputDir is empty. Defaults to
	// "Results".
	ResultsRoot string
	// GitInit, if true, initializes a git repository in the output
	// directory and commits the rendered tree. This is not part of
	// the original rendering pipeline; it is an added convenience for
	// callers that want the instantiated project under version
	// control immediately.
	GitInit bool
	// Now fixes the clock used for CURRENT_YEAR/DATE/DATETIME/TIME
	// and the results-root date stamp. The zero value means time.Now().
	Now time.Time
}

// Result reports where a run wrote its output.
type Result struct {
	OutputDir string
}

// Run performs one full instantiation: load the spec, seed the
// context, walk Content/ applying inclusion rules, and write the
// rendered tree to the output directory.
func Run(source Source, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	bundleFS, err := source.FS()
	if err != nil {
		return nil, err
	}

	specData, err := readFile(bundleFS, SpecFileName)
	if err != nil {
		return nil, bserrors.IO(SpecFileName, err)
	}
	spec, err := LoadSpec(specData)
	if err != nil {
		return nil, err
	}
	bslog.Debugf("loaded spec %s (templateVersion=%s)", SpecFileName, spec.TemplateVersion)

	values, err := BuildContext(spec, opts.Params, opts.ExcludePackages, now)
	if err != nil {
		return nil, err
	}

	contentFS, err := chrootContent(bundleFS)
	if err != nil {
		return nil, err
	}
	rnd := render.New(billyFS{fs: contentFS})
	ctx := render.Context(values)

	outputDirName, err := renderTemplateString(rnd, ctx, spec.OutputDirectoryName)
	if err != nil {
		return nil, err
	}
	outputDir := opts.OutputDir
	if outputDir == "" {
		resultsRoot := opts.ResultsRoot
		if resultsRoot == "" {
			resultsRoot = "Results"
		}
		outputDir = filepath.Join(resultsRoot, now.Format("2006-01-02"), outputDirName)
	}

	blacklist, err := BuildBlacklist(spec.IncludeDirectories, spec.IncludeFiles, ctx)
	if err != nil {
		return nil, err
	}

	parametrizable, err := compileParametrizablePatterns(spec.ParametrizableFiles)
	if err != nil {
		return nil, err
	}

	if err := prepareOutputDir(outputDir); err != nil {
		return nil, bserrors.IO(outputDir, err)
	}

	dirs, files, err := walkContent(contentFS)
	if err != nil {
		return nil, bserrors.IO(ContentDirName, err)
	}

	if err := materializeDirectories(rnd, ctx, blacklist, outputDir, dirs); err != nil {
		return nil, err
	}
	if err := materializeFiles(rnd, ctx, blacklist, parametrizable, contentFS, outputDir, files); err != nil {
		return nil, err
	}

	if opts.GitInit {
		if err := gitInitAndCommit(outputDir); err != nil {
			return nil, bserrors.IO(outputDir, err)
		}
	}

	bslog.Infof("instantiated template bundle into %s", outputDir)
	return &Result{OutputDir: outputDir}, nil
}

func chrootContent(bundleFS billy.Filesystem) (billy.Filesystem, error) {
	if _, err := bundleFS.Stat(ContentDirName); err != nil {
		return nil, bserrors.IO(ContentDirName, err)
	}
	return chroot.New(bundleFS, ContentDirName), nil
}

// renderTemplateString parses and renders a one-off template string
// (e.g. outputDirectoryName) against an already-built context.
func renderTemplateString(rnd *render.Renderer, ctx *bsctx.Context, src string) (string, error) {
	if src == "" {
		return "", nil
	}
	nodes, err := lang.Parse(src, lang.DefaultDelimiters)
	if err != nil {
		return "", bserrors.Syntax("", err)
	}
	out, err := rnd.RenderWithContext(nodes, ctx)
	if err != nil {
		return "", bserrors.Eval("", err)
	}
	return out, nil
}

func readFile(fs billy.Filesystem, p string) ([]byte, error) {
	f, err := fs.Open(p)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ioutil.ReadAll(f)
}

// sourceMode returns the source file's permission bits, preserved
// into the rendered output per §4.F ("copy the source bytes verbatim,
// preserving metadata") — applied to rendered files too, since a
// rendered shell script's shebang should stay executable.
func sourceMode(fs billy.Filesystem, p string) (os.FileMode, error) {
	info, err := fs.Stat(p)
	if err != nil {
		return 0, err
	}
	return info.Mode().Perm(), nil
}

// compileParametrizablePatterns compiles each pattern as a full-string
// match against the basename: §4.F describes these patterns as
// "anchored with ^…$", and property #8 requires that an unanchored
// author-written pattern like ".*\.swift" still match the whole
// basename rather than any substring of it, so the anchors are added
// here rather than trusted to the spec author.
func compileParametrizablePatterns(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("^(?:" + p + ")$")
		if err != nil {
			return nil, bserrors.Spec("", fmt.Errorf("parametrizableFiles pattern %q: %w", p, err))
		}
		out = append(out, re)
	}
	return out, nil
}

func matchesAny(patterns []*regexp.Regexp, basename string) bool {
	for _, re := range patterns {
		if re.MatchString(basename) {
			return true
		}
	}
	return false
}

func materializeDirectories(rnd *render.Renderer, ctx *bsctx.Context, bl *Blacklist, outputDir string, dirs []string) error {
	for _, d := range dirs {
		if bl.DirectoryBlacklisted(d) {
			continue
		}
		renderedRel, err := renderRelPath(rnd, ctx, d)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Join(outputDir, renderedRel), 0o755); err != nil {
			return bserrors.IO(d, err)
		}
	}
	return nil
}

func materializeFiles(rnd *render.Renderer, ctx *bsctx.Context, bl *Blacklist, parametrizable []*regexp.Regexp, contentFS billy.Filesystem, outputDir string, files []string) error {
	for _, f := range files {
		if bl.FileBlacklisted(f) {
			continue
		}
		renderedRel, err := renderRelPath(rnd, ctx, f)
		if err != nil {
			return err
		}
		destPath := filepath.Join(outputDir, renderedRel)
		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return bserrors.IO(f, err)
		}

		raw, err := readFile(contentFS, f)
		if err != nil {
			return bserrors.IO(f, err)
		}
		mode, err := sourceMode(contentFS, f)
		if err != nil {
			return bserrors.IO(f, err)
		}

		basename := path.Base(renderedRel)
		if matchesAny(parametrizable, basename) && utf8.Valid(raw) {
			nodes, err := lang.Parse(string(raw), lang.DefaultDelimiters)
			if err != nil {
				return bserrors.Syntax(f, err)
			}
			rendered, err := rnd.RenderWithContext(nodes, ctx)
			if err != nil {
				return bserrors.Eval(f, err)
			}
			if err := ioutil.WriteFile(destPath, []byte(rendered), mode); err != nil {
				return bserrors.IO(f, err)
			}
			continue
		}

		if err := ioutil.WriteFile(destPath, raw, mode); err != nil {
			return bserrors.IO(f, err)
		}
	}
	return nil
}

// renderRelPath renders each slash-separated segment of rel
// independently, matching the per-component naming used throughout
// §4.F (a directory's own name is a template; so is each file's
// basename and every ancestor directory name above it).
func renderRelPath(rnd *render.Renderer, ctx *bsctx.Context, rel string) (string, error) {
	segments := strings.Split(filepath.ToSlash(rel), "/")
	rendered := make([]string, len(segments))
	for i, seg := range segments {
		nodes, err := lang.Parse(seg, lang.DefaultDelimiters)
		if err != nil {
			return "", bserrors.Syntax(rel, err)
		}
		out, err := rnd.RenderWithContext(nodes, ctx)
		if err != nil {
			return "", bserrors.Eval(rel, err)
		}
		rendered[i] = out
	}
	return filepath.Join(rendered...), nil
}

func prepareOutputDir(outputDir string) error {
	if _, err := os.Stat(outputDir); err == nil {
		if err := os.RemoveAll(outputDir); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	}
	return os.MkdirAll(outputDir, 0o755)
}

func gitInitAndCommit(outputDir string) error {
	repo, err := git.PlainInit(outputDir, false)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := wt.AddWithOptions(&git.AddOptions{All: true}); err != nil {
		return err
	}
	_, err = wt.Commit("Initial commit from template instantiation", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "bootstrapp",
			Email: "bootstrapp@localhost",
			When:  time.Now(),
		},
	})
	return err
}
