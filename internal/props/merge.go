package props

// Merged is the result of a merge. Version identifies the computation that
// produced Props: two results with the same non-zero Version from the same
// Merger hold the same bag.
type Merged struct {
	Props   Props
	Version uint64
}

// Same reports whether m and other came from the same merge computation.
func (m Merged) Same(other Merged) bool {
	return m.Version != 0 && m.Version == other.Version
}

// IsZero reports whether m was never produced by a Merger.
func (m Merged) IsZero() bool {
	return m.Version == 0
}

// MergeFunc combines state, dispatch and own props into a memoized result.
type MergeFunc func(stateProps, dispatchProps, ownProps Props) Merged

// Merger memoizes Combine for one binding. It must not be shared.
//
// Recomputation is gated on state and own props only. Dispatch props are
// expected to be stable and a change in them alone does not produce a new
// result.
type Merger struct {
	ran bool

	stateProps    Props
	dispatchProps Props
	ownProps      Props

	merged Merged
}

// NewMerger creates an empty merger.
func NewMerger() *Merger {
	return &Merger{}
}

// NewMergeFunc returns the Merge method of a fresh Merger.
func NewMergeFunc() MergeFunc {
	return NewMerger().Merge
}

// Merge returns the cached result when state and own props are shallow-equal
// to the previous call, otherwise a freshly combined result.
func (m *Merger) Merge(stateProps, dispatchProps, ownProps Props) Merged {
	unchanged := m.ran &&
		ShallowEqual(m.stateProps, stateProps) &&
		ShallowEqual(m.ownProps, ownProps)

	m.stateProps = stateProps
	m.dispatchProps = dispatchProps
	m.ownProps = ownProps

	if unchanged {
		return m.merged
	}

	m.ran = true
	m.merged = Merged{
		Props:   Combine(ownProps, stateProps, dispatchProps),
		Version: m.merged.Version + 1,
	}
	return m.merged
}

// Last returns the most recent result without merging.
func (m *Merger) Last() Merged {
	return m.merged
}

// Inputs returns the props passed to the most recent Merge call.
func (m *Merger) Inputs() (stateProps, dispatchProps, ownProps Props) {
	return m.stateProps, m.dispatchProps, m.ownProps
}
