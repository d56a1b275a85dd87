package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

const (
	// ErrRecordExists is thrown by Allocate when the key is already taken.
	ErrRecordExists = "record already exists"
	// ErrRecordSpaceExceeded is thrown by Allocate when the record does not
	// fit into the space reserved for it.
	ErrRecordSpaceExceeded = "record exceeds allocated space"
)

// Allocate stores a new record under the key. Every record kind has a fixed
// space reserved for it, footprint is the size the given value takes in that
// layout. It panics if the key is occupied or if the footprint is larger than
// the reserved space.
func Allocate(ctx storage.Context, key any, footprint, space int, value any) {
	if footprint > space {
		panic(ErrRecordSpaceExceeded)
	}
	if storage.Get(ctx, key) != nil {
		panic(ErrRecordExists)
	}

	SetSerialized(ctx, key, value)
}

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}
