package instantiate

import (
	"strings"

	"github.com/bootstrapp/bootstrapp/bsctx"
	"github.com/bootstrapp/bootstrapp/cond"
)

// Blacklist is the set of relative paths (forward-slash separated,
// relative to Content/) excluded from traversal because their
// governing "if" condition evaluated false.
type Blacklist struct {
	Directories []string
	Files       map[string]bool
}

// BuildBlacklist evaluates every IncludeRule's condition against ctx:
// a rule whose condition is false contributes its directories/files
// to the blacklist; a true condition contributes nothing ("if this is
// true, include these").
func BuildBlacklist(includeDirectories, includeFiles []IncludeRule, ctx *bsctx.Context) (*Blacklist, error) {
	bl := &Blacklist{Files: map[string]bool{}}

	for _, rule := range includeDirectories {
		included, err := evalRule(rule, ctx)
		if err != nil {
			return nil, err
		}
		if !included {
			bl.Directories = append(bl.Directories, rule.Directories...)
		}
	}
	for _, rule := range includeFiles {
		included, err := evalRule(rule, ctx)
		if err != nil {
			return nil, err
		}
		if !included {
			for _, f := range rule.Files {
				bl.Files[f] = true
			}
		}
	}
	return bl, nil
}

func evalRule(rule IncludeRule, ctx *bsctx.Context) (bool, error) {
	expr, err := cond.Parse(rule.If)
	if err != nil {
		return false, err
	}
	return expr.Eval(ctx), nil
}

// BlacklistsDir reports whether d blacklists p: either they're equal,
// or p starts with d followed by a path separator.
func BlacklistsDir(d, p string) bool {
	return p == d || strings.HasPrefix(p, d+"/")
}

// DirectoryBlacklisted reports whether p falls under any blacklisted
// directory.
func (bl *Blacklist) DirectoryBlacklisted(p string) bool {
	for _, d := range bl.Directories {
		if BlacklistsDir(d, p) {
			return true
		}
	}
	return false
}

// FileBlacklisted reports whether the file at relative path p is
// skipped: its directory prefix is blacklisted, its basename is the
// ignored placeholder, or its exact path is a blacklisted file entry.
func (bl *Blacklist) FileBlacklisted(p string) bool {
	if bl.DirectoryBlacklisted(parentDir(p)) {
		return true
	}
	if baseName(p) == IgnoredPlaceholderName {
		return true
	}
	return bl.Files[p]
}

// IgnoredPlaceholderName marks an otherwise-empty directory that
// should exist in Content/ for version control but never be copied
// to rendered output.
const IgnoredPlaceholderName = ".ignored-placeholder"

func parentDir(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return ""
	}
	return p[:idx]
}

func baseName(p string) string {
	idx := strings.LastIndex(p, "/")
	if idx < 0 {
		return p
	}
	return p[idx+1:]
}
