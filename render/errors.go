package render

import "errors"

var (
	errImportTooDeep = errors.New("import depth exceeded")
	errNoFS          = errors.New("no filesystem configured for imports")
)
