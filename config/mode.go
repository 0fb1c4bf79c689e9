package config

// Mode selects how many tag bits a handle spends on location encoding
// (spec.md §3).
type Mode int

const (
	// Simple reserves one tag bit: 0 = arena slot, 1 = stack offset.
	// Container-body handles aren't expressible; SetContainerBase returns
	// ErrContainerBaseUnsupported in this mode.
	Simple Mode = iota
	// Universal reserves two tag bits: 00 = arena slot, 10 = stack
	// offset, 01 = container-body offset.
	Universal
)

func (m Mode) String() string {
	if m == Universal {
		return "universal"
	}
	return "simple"
}
