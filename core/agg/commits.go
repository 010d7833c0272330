package agg

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"github.com/huangsam/proneness/schema"
)

// DefaultFixPattern matches commit messages that describe a bug fix.
const DefaultFixPattern = `bug|fix|issue`

// ErrUnresolvedCommit is returned when a method version references a commit
// that was never registered.
var ErrUnresolvedCommit = errors.New("unresolved commit")

// FixMatcher decides whether a commit message describes a bug fix.
type FixMatcher struct {
	re *regexp.Regexp
}

// NewFixMatcher compiles a case-insensitive keyword pattern.
// An empty pattern falls back to DefaultFixPattern.
func NewFixMatcher(pattern string) (*FixMatcher, error) {
	if pattern == "" {
		pattern = DefaultFixPattern
	}
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid fix pattern %q: %w", pattern, err)
	}
	return &FixMatcher{re: re}, nil
}

// IsFix reports whether the message matches the fix pattern anywhere.
func (m *FixMatcher) IsFix(message string) bool {
	return m.re.MatchString(message)
}

// CommitRegistry maps commit ids to registry entries for one extraction run.
type CommitRegistry struct {
	matcher *FixMatcher
	commits map[string]*schema.Commit
	order   []string
}

// NewCommitRegistry creates an empty registry classifying fixes with matcher.
func NewCommitRegistry(matcher *FixMatcher) *CommitRegistry {
	return &CommitRegistry{
		matcher: matcher,
		commits: make(map[string]*schema.Commit),
	}
}

// Register adds a commit from the commit log. Registering an id twice keeps the first entry.
func (r *CommitRegistry) Register(raw schema.RawCommit) *schema.Commit {
	if c, ok := r.commits[raw.ID]; ok {
		return c
	}
	c := &schema.Commit{
		ID:     raw.ID,
		Author: raw.Author,
		Time:   raw.Time,
		IsFix:  r.matcher.IsFix(raw.Message),
	}
	r.commits[raw.ID] = c
	r.order = append(r.order, raw.ID)
	return c
}

// RegisterAll adds every commit of a log.
func (r *CommitRegistry) RegisterAll(raws []schema.RawCommit) {
	for _, raw := range raws {
		r.Register(raw)
	}
}

// Resolve returns the registry entry for id, or ErrUnresolvedCommit.
func (r *CommitRegistry) Resolve(id string) (*schema.Commit, error) {
	c, ok := r.commits[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedCommit, id)
	}
	return c, nil
}

// Tally adds one method version to the running totals of its commit.
func (r *CommitRegistry) Tally(version schema.MethodVersion) error {
	c, err := r.Resolve(version.CommitID)
	if err != nil {
		return fmt.Errorf("method %s: %w", version.UniqueName, err)
	}
	c.NumChanges += len(version.Changes)
	c.NumEntities++
	return nil
}

// ResetTallies zeroes the running totals of every commit.
func (r *CommitRegistry) ResetTallies() {
	for _, c := range r.commits {
		c.NumChanges = 0
		c.NumEntities = 0
	}
}

// Len returns the number of registered commits.
func (r *CommitRegistry) Len() int {
	return len(r.order)
}

// All returns the registered commits in registration order.
func (r *CommitRegistry) All() []*schema.Commit {
	out := make([]*schema.Commit, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.commits[id])
	}
	return out
}

// EarliestTime returns the smallest commit time, or 0 for an empty registry.
func (r *CommitRegistry) EarliestTime() int64 {
	if len(r.order) == 0 {
		return 0
	}
	earliest := int64(math.MaxInt64)
	for _, c := range r.commits {
		earliest = min(earliest, c.Time)
	}
	return earliest
}
