package orchestrator

import "errors"

// ErrMissingDependency is returned by New when a required service is nil.
var ErrMissingDependency = errors.New("orchestrator: missing dependency")
