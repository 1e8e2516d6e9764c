package result

// Filter reduces a sorted snapshot. Implementations must be pure: the same
// input always yields the same output, and the input is not retained.
type Filter interface {
	Filter(s Snapshot) Snapshot
}

// FilterFunc adapts a plain function to the Filter interface.
type FilterFunc func(Snapshot) Snapshot

// Filter calls f(s).
func (f FilterFunc) Filter(s Snapshot) Snapshot {
	return f(s)
}

type identity struct{}

func (identity) Filter(s Snapshot) Snapshot { return s }

// Identity is the filter every store starts with. It returns its input.
var Identity Filter = identity{}
