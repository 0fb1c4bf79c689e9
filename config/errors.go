package config

import "errors"

// ErrContainerBaseUnsupported is returned by SetContainerBase under Simple
// encoding, which has no tag bit to spare for container-body handles.
var ErrContainerBaseUnsupported = errors.New("config: container-body handles require universal encoding")

// ErrObjectSizeRequiredForMT is returned by SetArena when binding a
// multi-threaded arena to a universal-encoding config with no object size:
// without it, telling an embedded node apart from an arena slot would
// require dereferencing the arena's buffer base while another thread may
// still be racing to publish it (spec.md §4.D's MT constraint).
var ErrObjectSizeRequiredForMT = errors.New("config: multi-threaded arenas require a nonzero object size under universal encoding")
