package props

import (
	"maps"
	"slices"
)

// Props is a flat property bag.
type Props map[string]any

// Keys returns the bag's keys in sorted order.
func (p Props) Keys() []string {
	return slices.Sorted(maps.Keys(p))
}

// StringOf returns the value at key if it is a string.
func (p Props) StringOf(key string) string {
	s, _ := p[key].(string)
	return s
}

// Func returns the value at key if it is a func().
func (p Props) Func(key string) func() {
	fn, _ := p[key].(func())
	return fn
}

// Clone returns a shallow copy. Cloning a nil bag returns nil.
func (p Props) Clone() Props {
	if p == nil {
		return nil
	}
	return maps.Clone(p)
}

// Combine merges the three property sources into a new bag. On key
// collision dispatch props override state props, which override own props.
func Combine(own, state, dispatch Props) Props {
	merged := make(Props, len(own)+len(state)+len(dispatch))
	maps.Copy(merged, own)
	maps.Copy(merged, state)
	maps.Copy(merged, dispatch)
	return merged
}
