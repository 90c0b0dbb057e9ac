// Package catalog defines the persistent record layout shared by catalog
// store backends: key construction and the msgpack codec for product and
// image records. Embeddings are stored as float64 arrays, so vectors
// round-trip losslessly; the similarity engine never sees encoded form.
package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// Key prefixes. IDs are zero-padded hex so lexicographic key order matches
// ascending ID order during iteration.
const (
	ProductPrefix = "product:"
	ImagePrefix   = "image:"
	LogPrefix     = "log:"
)

// ProductRecord is the stored form of a product row.
type ProductRecord struct {
	Name   string  `msgpack:"n"`
	Price  float64 `msgpack:"p"`
	Amount int64   `msgpack:"a"`
}

// ImageRecord is the stored form of an image row.
type ImageRecord struct {
	ProductID uint64    `msgpack:"pid"`
	Path      string    `msgpack:"path"`
	Embedding []float64 `msgpack:"emb"`
}

// ProductKey returns the storage key for a product ID.
func ProductKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", ProductPrefix, id))
}

// ImageKey returns the storage key for an image ID.
func ImageKey(id uint64) []byte {
	return []byte(fmt.Sprintf("%s%016x", ImagePrefix, id))
}

// ParseID extracts the numeric ID from a prefixed key.
func ParseID(key []byte, prefix string) (uint64, error) {
	s := strings.TrimPrefix(string(key), prefix)
	id, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("malformed key %q: %w", key, err)
	}
	return id, nil
}

// EncodeProduct serializes a product record.
func EncodeProduct(r ProductRecord) ([]byte, error) {
	return msgpack.Marshal(r)
}

// DecodeProduct deserializes a product record.
func DecodeProduct(data []byte) (ProductRecord, error) {
	var r ProductRecord
	err := msgpack.Unmarshal(data, &r)
	return r, err
}

// EncodeImage serializes an image record.
func EncodeImage(r ImageRecord) ([]byte, error) {
	return msgpack.Marshal(r)
}

// DecodeImage deserializes an image record.
func DecodeImage(data []byte) (ImageRecord, error) {
	var r ImageRecord
	err := msgpack.Unmarshal(data, &r)
	return r, err
}
