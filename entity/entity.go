// Package entity defines the identifier contract shared by every component
// collection: a value-copyable, totally-ordered integer whose presence in a
// collection is the only observable signal of existence. The package also
// provides the sorted indexes (entity maps) that collections build on.
package entity

import (
	"encoding/base64"
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
)

// ID is the constraint every entity type must satisfy. Entities are plain
// unsigned integers: copyable, ordered by <, usable as map keys. The zero
// value is the scan origin of the join engine; a bound zero entity is joined
// like any other.
type ID interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

// ID32 is the 32-bit entity instantiation.
type ID32 = uint32

// ID64 is the 64-bit entity instantiation.
type ID64 = uint64

// MaxValue returns the largest representable entity of type E.
func MaxValue[E ID]() E {
	var zero E
	return ^zero
}

// FromUUID folds a 128-bit external identifier down to an ID64. Callers that
// key their entities by UUID use this at the boundary; collisions are as
// likely as any other 64-bit hash collision.
func FromUUID(u uuid.UUID) ID64 {
	return xxhash.Sum64(u[:])
}

// Format renders an entity as base64 over its little-endian bytes, the
// compact form used in logs and debug output.
func Format[E ID](e E) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(e))
	return base64.StdEncoding.EncodeToString(buf[:])
}
