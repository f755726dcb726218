package store

import (
	"bytes"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/klauspost/compress/zstd"

	"HashRevealer/internal/errors"
	"HashRevealer/internal/types"
)

const (
	// defaultCompressThreshold is the value size from which values are compressed.
	defaultCompressThreshold = 256
)

// codec converts slot values to and from SlotRecord bytes.
type codec struct {
	threshold int // threshold is the minimum size to compress; <= 0 disables
	encoder   *zstd.Encoder
	decoder   *zstd.Decoder
}

// newCodec creates a codec. Encoder and decoder are safe for concurrent use
// through EncodeAll and DecodeAll.
func newCodec(threshold int) (*codec, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "create zstd encoder")
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		encoder.Close()
		return nil, errors.Wrap(err, "create zstd decoder")
	}

	return &codec{threshold: threshold, encoder: encoder, decoder: decoder}, nil
}

// encode builds a SlotRecord for value expiring at expiresAt.
func (c *codec) encode(value []byte, expiresAt time.Time) []byte {
	compressed := c.threshold > 0 && len(value) >= c.threshold

	payload := value
	if compressed {
		payload = c.encoder.EncodeAll(value, nil)
	}

	builder := flatbuffers.NewBuilder(len(payload) + 32)
	valueVec := builder.CreateByteVector(payload)

	types.SlotRecordStart(builder)
	types.SlotRecordAddValue(builder, valueVec)
	types.SlotRecordAddExpiresAt(builder, expiresAt.UnixNano())
	types.SlotRecordAddCompressed(builder, compressed)
	types.FinishSlotRecordBuffer(builder, types.SlotRecordEnd(builder))

	return builder.FinishedBytes()
}

// decode returns the value held by a SlotRecord and its expiry.
func (c *codec) decode(data []byte) (value []byte, expiresAt time.Time, retErr error) {
	// FlatBuffers panics on malformed data
	defer func() {
		if r := recover(); r != nil {
			retErr = errors.Newf("malformed slot record: %v", r)
		}
	}()

	if len(data) < flatbuffers.SizeUOffsetT {
		return nil, time.Time{}, errors.New("slot record too short")
	}

	rec := types.GetRootAsSlotRecord(data, 0)
	expiresAt = time.Unix(0, rec.ExpiresAt())

	payload := rec.ValueBytes()
	if !rec.Compressed() {
		return bytes.Clone(payload), expiresAt, nil
	}

	value, err := c.decoder.DecodeAll(payload, nil)
	if err != nil {
		return nil, time.Time{}, errors.Wrap(err, "decompress slot value")
	}

	return value, expiresAt, nil
}

// close releases the zstd resources.
func (c *codec) close() {
	c.encoder.Close()
	c.decoder.Close()
}

// expiry reads only the expiry of a SlotRecord.
func (c *codec) expiry(data []byte) (expiresAt time.Time, retErr error) {
	defer func() {
		if r := recover(); r != nil {
			retErr = errors.Newf("malformed slot record: %v", r)
		}
	}()

	if len(data) < flatbuffers.SizeUOffsetT {
		return time.Time{}, errors.New("slot record too short")
	}

	return time.Unix(0, types.GetRootAsSlotRecord(data, 0).ExpiresAt()), nil
}
