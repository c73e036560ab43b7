// Package aggregate implements the Inferred-Type Aggregator: a
// per-symbol map from contribution site (parse-node id) to type, combined
// into a single cached type that recomputes deterministically regardless of
// the order contributions arrive in — the property the module driver's
// fixed-point iteration depends on.
package aggregate

import "github.com/kbridge/pytype/internal/types"

// Aggregator is one symbol's InferredType.
type Aggregator struct {
	entries map[int]types.Type
	combined types.Type
}

func New() *Aggregator {
	return &Aggregator{entries: make(map[int]types.Type), combined: types.Never}
}

// Add inserts or replaces the contribution from sourceID, recomputes the
// combined type, and reports whether the combined type changed — the
// signal the driver's did_change flag is built from.
func (a *Aggregator) Add(sourceID int, t types.Type) bool {
	if existing, ok := a.entries[sourceID]; ok && types.IsSame(existing, t) {
		return false
	}
	a.entries[sourceID] = t
	return a.recompute()
}

// Remove deletes a contribution and reports whether the combined type
// changed.
func (a *Aggregator) Remove(sourceID int) bool {
	if _, ok := a.entries[sourceID]; !ok {
		return false
	}
	delete(a.entries, sourceID)
	return a.recompute()
}

// Merge adds every entry of other into a.
func (a *Aggregator) Merge(other *Aggregator) bool {
	changed := false
	for id, t := range other.entries {
		if a.Add(id, t) {
			changed = true
		}
	}
	return changed
}

func (a *Aggregator) recompute() bool {
	members := make([]types.Type, 0, len(a.entries))
	for _, t := range a.entries {
		members = append(members, t)
	}
	next := types.Combine(members...)
	if types.IsSame(next, a.combined) {
		a.combined = next
		return false
	}
	a.combined = next
	return true
}

// Get returns the combined type. An empty aggregator combines to Unknown
// rather than Never, since a symbol with no contributions yet is simply
// not known, not impossible.
func (a *Aggregator) Get() types.Type {
	if len(a.entries) == 0 {
		return types.Unknown
	}
	return a.combined
}

// GetWrapped wraps the combined type in a single-argument generic class,
// used to express e.g. "Iterator[<yields>]" for a generator's inferred
// yield aggregator.
func (a *Aggregator) GetWrapped(wrapper *types.Class) types.Type {
	return types.GenericOf(wrapper, a.Get())
}

// Len reports the number of distinct contribution sites, useful for tests
// asserting idempotency of Add.
func (a *Aggregator) Len() int { return len(a.entries) }
