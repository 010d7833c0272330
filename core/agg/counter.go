// Package agg has the run-scoped aggregates of an extraction: change tallies,
// the commit registry and the author registry.
package agg

import "github.com/huangsam/proneness/schema"

// ChangeCounter tallies structural changes per change type.
type ChangeCounter struct {
	counts [schema.NumChangeTypes]int
}

// NewChangeCounter returns an empty counter.
func NewChangeCounter() *ChangeCounter {
	return &ChangeCounter{}
}

// Reset clears all tallies and returns the counter for chaining.
func (c *ChangeCounter) Reset() *ChangeCounter {
	c.counts = [schema.NumChangeTypes]int{}
	return c
}

// Count records one change and returns the new tally for its type.
// Changes with a type outside the enumeration are ignored and yield 0.
func (c *ChangeCounter) Count(change schema.SourceChange) int {
	i := change.Type.Ordinal()
	if i < 0 {
		return 0
	}
	c.counts[i]++
	return c.counts[i]
}

// CountAll records every change of a version and returns the tallies in enumeration order.
func (c *ChangeCounter) CountAll(version schema.MethodVersion) [schema.NumChangeTypes]int {
	for _, change := range version.Changes {
		c.Count(change)
	}
	return c.counts
}

// Add merges the tallies of another counter into this one.
func (c *ChangeCounter) Add(other *ChangeCounter) *ChangeCounter {
	for i, n := range other.counts {
		c.counts[i] += n
	}
	return c
}

// Get returns the tally for one change type.
func (c *ChangeCounter) Get(ct schema.ChangeType) int {
	i := ct.Ordinal()
	if i < 0 {
		return 0
	}
	return c.counts[i]
}

// Counts returns a copy of all tallies in enumeration order.
func (c *ChangeCounter) Counts() [schema.NumChangeTypes]int {
	return c.counts
}

// TotalSum returns the sum of all tallies.
func (c *ChangeCounter) TotalSum() int {
	total := 0
	for _, n := range c.counts {
		total += n
	}
	return total
}
