package archive

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"brs/internal/models"
)

// BlobPrefix and the .json.gz suffix fix the archive key layout. Existing
// archives were written with this exact scheme, so it must not change.
const (
	BlobPrefix = "billing-records/"
	blobSuffix = ".json.gz"
)

// BlobName derives the archive key for a record id.
func BlobName(id string) string {
	return BlobPrefix + id + blobSuffix
}

// RecordID reverses BlobName. Returns "" for keys outside the scheme.
func RecordID(blobName string) string {
	rest, ok := strings.CutPrefix(blobName, BlobPrefix)
	if !ok {
		return ""
	}
	id, ok := strings.CutSuffix(rest, blobSuffix)
	if !ok {
		return ""
	}
	return id
}

// Encoded is one serialized, compressed record plus the sizes reported in
// archive metadata and the compression-ratio metric.
type Encoded struct {
	Data           []byte
	OriginalSize   int
	CompressedSize int
}

// Ratio is compressed over original size.
func (e Encoded) Ratio() float64 {
	if e.OriginalSize == 0 {
		return 1
	}
	return float64(e.CompressedSize) / float64(e.OriginalSize)
}

type CodecInterface interface {
	Encode(record models.Record) (Encoded, error)
	Decode(data []byte) (models.Record, error)
}

// GzipCodec serializes records as compact JSON and gzips the result,
// matching the format of the existing archive entries.
type GzipCodec struct{}

func NewGzipCodec() CodecInterface {
	return &GzipCodec{}
}

func (c *GzipCodec) Encode(record models.Record) (Encoded, error) {
	raw, err := json.Marshal(record)
	if err != nil {
		return Encoded{}, fmt.Errorf("serialize record: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return Encoded{}, fmt.Errorf("compress record: %w", err)
	}
	if err := zw.Close(); err != nil {
		return Encoded{}, fmt.Errorf("compress record: %w", err)
	}

	return Encoded{
		Data:           buf.Bytes(),
		OriginalSize:   len(raw),
		CompressedSize: buf.Len(),
	}, nil
}

func (c *GzipCodec) Decode(data []byte) (models.Record, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrCorruptArchive, err)
	}
	raw, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrCorruptArchive, err)
	}
	if err := zr.Close(); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrCorruptArchive, err)
	}

	var record models.Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrCorruptArchive, err)
	}
	return record, nil
}
