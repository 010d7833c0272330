package agg

import (
	"sort"

	"github.com/huangsam/proneness/schema"
)

// AuthorRegistry maps author names to their cumulative activity.
type AuthorRegistry struct {
	authors map[string]*schema.Author
}

// NewAuthorRegistry creates an empty registry.
func NewAuthorRegistry() *AuthorRegistry {
	return &AuthorRegistry{authors: make(map[string]*schema.Author)}
}

// DeriveAuthors builds an author registry from a fully tallied commit registry.
func DeriveAuthors(commits *CommitRegistry) *AuthorRegistry {
	r := NewAuthorRegistry()
	for _, c := range commits.All() {
		r.AddCommit(c)
	}
	return r
}

// AddCommit credits a commit and its change total to the commit's author.
func (r *AuthorRegistry) AddCommit(c *schema.Commit) {
	a, ok := r.authors[c.Author]
	if !ok {
		a = &schema.Author{Name: c.Author}
		r.authors[c.Author] = a
	}
	a.NumCommits++
	a.NumChanges += c.NumChanges
}

// Get returns the author entry, or nil if the author never committed.
func (r *AuthorRegistry) Get(name string) *schema.Author {
	return r.authors[name]
}

// Len returns the number of known authors.
func (r *AuthorRegistry) Len() int {
	return len(r.authors)
}

// Names returns all author names in sorted order.
func (r *AuthorRegistry) Names() []string {
	names := make([]string, 0, len(r.authors))
	for name := range r.authors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
