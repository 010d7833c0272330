package iocache

import (
	"strings"
	"testing"

	"github.com/huangsam/proneness/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobRoundTrip(t *testing.T) {
	commits := make([]schema.RawCommit, 200)
	for i := range commits {
		commits[i] = schema.RawCommit{ID: "c", Author: "Ada", Time: int64(i), Message: strings.Repeat("fix ", 10)}
	}

	blob, err := EncodeBlob(commits)
	require.NoError(t, err)
	assert.Equal(t, byte(blobLZ4), blob[0], "repetitive payload should compress")

	var decoded []schema.RawCommit
	require.NoError(t, DecodeBlob(blob, &decoded))
	assert.Equal(t, commits, decoded)
}

func TestBlobRaw(t *testing.T) {
	blob, err := EncodeBlob([]int{1})
	require.NoError(t, err)
	assert.Equal(t, byte(blobRaw), blob[0])

	var decoded []int
	require.NoError(t, DecodeBlob(blob, &decoded))
	assert.Equal(t, []int{1}, decoded)
}

func TestDecodeBlobCorrupt(t *testing.T) {
	var v []int
	assert.ErrorIs(t, DecodeBlob([]byte{1, 2}, &v), ErrCorruptBlob)
	assert.ErrorIs(t, DecodeBlob([]byte{9, 0, 0, 0, 0}, &v), ErrCorruptBlob)
	assert.ErrorIs(t, DecodeBlob([]byte{blobRaw, 10, 0, 0, 0, '[', ']'}, &v), ErrCorruptBlob)
}
