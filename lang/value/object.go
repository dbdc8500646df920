// Package value implements warp's runtime value representation: the tagged
// Value union and the heap object kinds (strings, maps, functions,
// natives) it can point to.
//
// Heap objects share a common Obj header carrying a kind tag and an
// intrusive Next pointer. The VM links every allocated object into a single
// all-objects list through that pointer; Go's garbage collector reclaims
// the backing memory once the VM drops its last reference, but the list
// itself is still walked at VM teardown so that the object lifecycle
// remains observable the way it is in a manually managed implementation.
package value

import "unsafe"

// ObjKind identifies the concrete type of a heap object.
type ObjKind uint8

const (
	KindObjString ObjKind = iota
	KindObjMap
	KindObjFunction
	KindObjNative
)

func (k ObjKind) String() string {
	switch k {
	case KindObjString:
		return "string"
	case KindObjMap:
		return "map"
	case KindObjFunction:
		return "function"
	case KindObjNative:
		return "native"
	default:
		return "unknown"
	}
}

// Obj is the header embedded at the start of every heap object.
type Obj struct {
	Kind ObjKind
	Next *Obj
}

// fromObj recovers the concrete heap object behind an *Obj header. It relies
// on Obj always being embedded as the first field of T, which every
// concrete object type in this package guarantees, the same way a tagged
// union recovers its payload from a common header in a non-GC'd runtime.
func fromObj[T any](o *Obj) *T {
	return (*T)(unsafe.Pointer(o))
}
