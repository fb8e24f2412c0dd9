// Package ids provides the identifier types shared by every battle entity.
package ids

import (
	"strconv"
	"sync/atomic"
)

// EntityID identifies a unit for the lifetime of the process.
// The zero value is reserved as "none".
type EntityID uint32

// nextID holds the last allocated id. Battles may allocate concurrently,
// so the counter is atomic even though gameplay itself is single-threaded.
var nextID atomic.Uint32

// New returns the next unused EntityID. It never returns the same value twice.
func New() EntityID {
	return EntityID(nextID.Add(1))
}

// Null returns the reserved "none" id.
func Null() EntityID {
	return 0
}

// IsNull reports whether id is the reserved "none" value.
func (id EntityID) IsNull() bool {
	return id == 0
}

// String returns the decimal form of the id.
func (id EntityID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// GridIndex is a cell on the battle line.
type GridIndex int64

// Distance returns the number of cells between a and b.
func Distance(a, b GridIndex) int64 {
	d := int64(a) - int64(b)
	if d < 0 {
		return -d
	}
	return d
}
