// Command bootstrapp instantiates a template bundle into a rendered
// project directory.
//
// Usage:
//
//	bootstrapp [flags] <template-dir-or-git-url>
//
// Flags:
//
//	--param KEY=VALUE       set a spec parameter (repeatable)
//	--exclude-package NAME  exclude a package by name (repeatable)
//	--output-dir DIR        write output to DIR instead of the computed path
//	--git-ref REF           when the source is a git URL, clone this ref
//	--git-init              git init and commit the rendered output
//	--verbose               log engine diagnostics to stderr
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"

	"github.com/bootstrapp/bootstrapp/instantiate"
	"github.com/bootstrapp/bootstrapp/internal/bserrors"
	"github.com/bootstrapp/bootstrapp/internal/bslog"
)

func _main(args []string) error {
	if len(args) < 2 {
		return errors.New("bootstrapp: usage: bootstrapp [flags] <template-dir-or-git-url>")
	}

	opts := instantiate.Options{
		Params:          map[string]string{},
		ExcludePackages: map[string]bool{},
	}
	var gitRef string
	var source string
	verbose := false

	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		switch {
		case arg == "--verbose":
			verbose = true
		case arg == "--git-init":
			opts.GitInit = true
		case arg == "--param":
			i++
			if i >= len(rest) {
				return errors.New("bootstrapp: --param requires KEY=VALUE")
			}
			k, v, ok := splitKV(rest[i])
			if !ok {
				return fmt.Errorf("bootstrapp: malformed --param %q, want KEY=VALUE", rest[i])
			}
			opts.Params[k] = v
		case arg == "--exclude-package":
			i++
			if i >= len(rest) {
				return errors.New("bootstrapp: --exclude-package requires a name")
			}
			opts.ExcludePackages[rest[i]] = true
		case arg == "--output-dir":
			i++
			if i >= len(rest) {
				return errors.New("bootstrapp: --output-dir requires a path")
			}
			opts.OutputDir = rest[i]
		case arg == "--git-ref":
			i++
			if i >= len(rest) {
				return errors.New("bootstrapp: --git-ref requires a ref name")
			}
			gitRef = rest[i]
		case strings.HasPrefix(arg, "--"):
			return fmt.Errorf("bootstrapp: unknown flag %q", arg)
		default:
			if source != "" {
				return fmt.Errorf("bootstrapp: unexpected extra argument %q", arg)
			}
			source = arg
		}
	}

	if source == "" {
		return errors.New("bootstrapp: a template directory or git URL is required")
	}
	if verbose {
		if err := bslog.SetLogWriter(os.Stderr); err != nil {
			return err
		}
		defer bslog.FlushLog()
	}

	var src instantiate.Source
	if looksLikeGitURL(source) {
		src = instantiate.NewGitSource(source, gitRef)
	} else {
		src = instantiate.NewLocalSource(source)
	}

	result, err := instantiate.Run(src, opts)
	if err != nil {
		return err
	}

	writer := colorable.NewColorableStdout()
	fmt.Fprintf(writer, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("done:"), result.OutputDir)
	return nil
}

func splitKV(s string) (key, value string, ok bool) {
	idx := strings.IndexByte(s, '=')
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+1:], true
}

func looksLikeGitURL(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "git@") ||
		strings.HasSuffix(s, ".git")
}

func main() {
	if err := _main(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, bserrors.FormatError(err, true, true))
		os.Exit(1)
	}
}
