package pipeline

import "errors"

// ErrNoResult is returned by RenderDigStep when no dig step ran before it.
var ErrNoResult = errors.New("no dig result to render")
