package agg

import (
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *CommitRegistry {
	t.Helper()
	matcher, err := NewFixMatcher("")
	require.NoError(t, err)
	return NewCommitRegistry(matcher)
}

func TestFixMatcher(t *testing.T) {
	matcher, err := NewFixMatcher("")
	require.NoError(t, err)

	tests := []struct {
		message string
		want    bool
	}{
		{"Fix NPE in parser", true},
		{"BUGFIX: off by one", true},
		{"Resolve Issue #3", true},
		{"prefix matches too: hotfixes", true},
		{"Add feature", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.want, matcher.IsFix(tt.message))
		})
	}

	_, err = NewFixMatcher("(")
	assert.Error(t, err)
}

func TestCommitRegistryRegisterAndResolve(t *testing.T) {
	r := newRegistry(t)
	r.RegisterAll([]schema.RawCommit{
		{ID: "c1", Author: "alice", Time: 100, Message: "init"},
		{ID: "c2", Author: "bob", Time: 50, Message: "fix crash"},
		{ID: "c1", Author: "mallory", Time: 1, Message: "duplicate"},
	})

	assert.Equal(t, 2, r.Len())
	c1, err := r.Resolve("c1")
	require.NoError(t, err)
	assert.Equal(t, "alice", c1.Author)
	assert.False(t, c1.IsFix)

	c2, err := r.Resolve("c2")
	require.NoError(t, err)
	assert.True(t, c2.IsFix)

	_, err = r.Resolve("missing")
	assert.ErrorIs(t, err, ErrUnresolvedCommit)

	assert.Equal(t, int64(50), r.EarliestTime())
	assert.Equal(t, []string{"c1", "c2"}, []string{r.All()[0].ID, r.All()[1].ID})
}

func TestCommitRegistryTally(t *testing.T) {
	r := newRegistry(t)
	r.Register(schema.RawCommit{ID: "c1", Author: "alice", Time: 1})

	require.NoError(t, r.Tally(schema.MethodVersion{UniqueName: "A.m()", CommitID: "c1", Changes: changes(schema.StatementInsert, schema.StatementDelete)}))
	require.NoError(t, r.Tally(schema.MethodVersion{UniqueName: "A.n()", CommitID: "c1", Changes: changes(schema.StatementInsert)}))

	c1, _ := r.Resolve("c1")
	assert.Equal(t, 3, c1.NumChanges)
	assert.Equal(t, 2, c1.NumEntities)

	err := r.Tally(schema.MethodVersion{UniqueName: "A.o()", CommitID: "nope"})
	assert.ErrorIs(t, err, ErrUnresolvedCommit)

	r.ResetTallies()
	assert.Equal(t, 0, c1.NumChanges)
	assert.Equal(t, 0, c1.NumEntities)
}

func TestCommitRegistryEmpty(t *testing.T) {
	r := newRegistry(t)
	assert.Equal(t, int64(0), r.EarliestTime())
	assert.Empty(t, r.All())
}
