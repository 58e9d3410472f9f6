// Package props provides property bags, the shallow-equality comparator,
// and the memoized merge used by bindings.
//
// Merge results carry a version token. A binding decides whether to
// re-render by comparing tokens with Merged.Same rather than comparing
// bag contents.
package props
