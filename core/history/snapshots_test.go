package history

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lengthDiffer reports one insert when a snapshot grows and one delete when it shrinks.
type lengthDiffer struct{}

func (lengthDiffer) Distill(before, after, _ string) ([]schema.SourceChange, error) {
	switch {
	case after == "boom":
		return nil, errors.New("cannot parse")
	case len(after) > len(before):
		return []schema.SourceChange{{Type: schema.StatementInsert}}, nil
	case len(after) < len(before):
		return []schema.SourceChange{{Type: schema.StatementDelete}}, nil
	default:
		return nil, nil
	}
}

func TestReadSnapshots(t *testing.T) {
	input := `{"method":"A.m()","commit":"c1","source":"a"}

{"method":"A.m()","commit":"c2","source":"ab"}
`
	snapshots, err := ReadSnapshots(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []Snapshot{
		{Method: "A.m()", Commit: "c1", Source: "a"},
		{Method: "A.m()", Commit: "c2", Source: "ab"},
	}, snapshots)
}

func TestReadSnapshots_Errors(t *testing.T) {
	_, err := ReadSnapshots(strings.NewReader("{not json}\n"))
	assert.Error(t, err)

	_, err = ReadSnapshots(strings.NewReader(`{"method":"A.m()","source":"x"}` + "\n"))
	assert.Error(t, err)
}

func TestDistillSnapshots(t *testing.T) {
	snapshots := []Snapshot{
		{Method: "B.n()", Commit: "c1", Source: "xx"},
		{Method: "A.m()", Commit: "c1", Source: "a"},
		{Method: "A.m()", Commit: "c2", Source: "abc"},
		{Method: "B.n()", Commit: "c3", Source: "x"},
		{Method: "A.m()", Commit: "c3", Source: "abc"},
	}

	for _, workers := range []int{1, 4} {
		forest, err := DistillSnapshots(context.Background(), snapshots, lengthDiffer{}, workers)
		require.NoError(t, err)
		require.Len(t, forest, 2)

		a := forest[0].Methods[0]
		assert.Equal(t, "A.m()", a.UniqueName)
		require.Len(t, a.Versions, 3)
		assert.Equal(t, []schema.SourceChange{{Type: schema.StatementInsert}}, a.Versions[0].Changes)
		assert.Equal(t, []schema.SourceChange{{Type: schema.StatementInsert}}, a.Versions[1].Changes)
		assert.Empty(t, a.Versions[2].Changes)
		assert.Equal(t, "c3", a.Versions[2].CommitID)

		b := forest[1].Methods[0]
		require.Len(t, b.Versions, 2)
		assert.Equal(t, []schema.SourceChange{{Type: schema.StatementDelete}}, b.Versions[1].Changes)
	}
}

func TestDistillSnapshots_Error(t *testing.T) {
	snapshots := []Snapshot{{Method: "A.m()", Commit: "c1", Source: "boom"}}
	_, err := DistillSnapshots(context.Background(), snapshots, lengthDiffer{}, 2)
	assert.ErrorContains(t, err, "A.m() at c1")
}

func TestDistillSnapshots_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	snapshots := []Snapshot{{Method: "A.m()", Commit: "c1", Source: "a"}}
	_, err := DistillSnapshots(ctx, snapshots, lengthDiffer{}, 1)
	assert.ErrorIs(t, err, context.Canceled)
}
