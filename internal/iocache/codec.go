package iocache

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/pierrec/lz4/v4"
)

// Blob header: one flag byte followed by the uncompressed length.
const (
	blobHeaderSize = 5
	blobRaw        = 0
	blobLZ4        = 1
)

// ErrCorruptBlob is returned when a stored blob cannot be decoded.
var ErrCorruptBlob = errors.New("corrupt cache blob")

// EncodeBlob marshals v to JSON and compresses it with LZ4. Payloads that do
// not compress are stored raw.
func EncodeBlob(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	out := make([]byte, blobHeaderSize+lz4.CompressBlockBound(len(data)))
	binary.LittleEndian.PutUint32(out[1:blobHeaderSize], uint32(len(data)))

	written, err := lz4.CompressBlock(data, out[blobHeaderSize:], nil)
	if err != nil || written == 0 || written >= len(data) {
		out[0] = blobRaw
		return append(out[:blobHeaderSize], data...), nil
	}
	out[0] = blobLZ4
	return out[:blobHeaderSize+written], nil
}

// DecodeBlob reverses EncodeBlob into v.
func DecodeBlob(blob []byte, v any) error {
	if len(blob) < blobHeaderSize {
		return fmt.Errorf("%w: %d bytes", ErrCorruptBlob, len(blob))
	}
	size := binary.LittleEndian.Uint32(blob[1:blobHeaderSize])
	payload := blob[blobHeaderSize:]

	switch blob[0] {
	case blobRaw:
	case blobLZ4:
		data := make([]byte, size)
		n, err := lz4.UncompressBlock(payload, data)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCorruptBlob, err)
		}
		payload = data[:n]
	default:
		return fmt.Errorf("%w: unknown flag %d", ErrCorruptBlob, blob[0])
	}
	if uint32(len(payload)) != size {
		return fmt.Errorf("%w: expected %d bytes, got %d", ErrCorruptBlob, size, len(payload))
	}
	return json.Unmarshal(payload, v)
}
