package gfx

import "fmt"

// PowerPreference hints which GPU the context should run on.
type PowerPreference int

const (
	PowerUnspecified PowerPreference = iota
	PowerDefault
	PowerHighPerformance
)

func (p PowerPreference) String() string {
	switch p {
	case PowerDefault:
		return "default"
	case PowerHighPerformance:
		return "high-performance"
	default:
		return "unspecified"
	}
}

// ContextOptions is one capability set tried during context negotiation.
type ContextOptions struct {
	Antialias bool
	Alpha     bool
	Depth     bool
	Stencil   bool
	Power     PowerPreference
}

func (o ContextOptions) String() string {
	return fmt.Sprintf("antialias=%t alpha=%t depth=%t stencil=%t power=%s",
		o.Antialias, o.Alpha, o.Depth, o.Stencil, o.Power)
}

// DefaultContextOptions lists the capability sets in descending preference.
// The first set that yields a context wins.
var DefaultContextOptions = []ContextOptions{
	{Antialias: true},
	{},
	{Alpha: true},
	{Power: PowerDefault},
	{Power: PowerHighPerformance},
}
