package instantiate

import (
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// walkContent enumerates every path under fs (a billy.Filesystem
// rooted at Content/), relative to that root, with each list sorted
// lexicographically by relative path. A parent directory's path is a
// prefix of its children's, so it sorts before them, which lets §4.F's
// "process directories first, in lexicographic order" create parents
// before children.
func walkContent(fs billy.Filesystem) (dirs, files []string, err error) {
	var walk func(rel string) error
	walk = func(rel string) error {
		abs := "/"
		if rel != "" {
			abs = path.Join("/", rel)
		}
		entries, err := fs.ReadDir(abs)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
		for _, e := range entries {
			childRel := e.Name()
			if rel != "" {
				childRel = path.Join(rel, e.Name())
			}
			if e.IsDir() {
				dirs = append(dirs, childRel)
				if err := walk(childRel); err != nil {
					return err
				}
			} else {
				files = append(files, childRel)
			}
		}
		return nil
	}
	if err := walk(""); err != nil {
		return nil, nil, err
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return dirs, files, nil
}
