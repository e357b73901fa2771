package engine

import (
	"slices"
)

// ObjectTable maps trace addresses to the live objects created by earlier
// calls.
//
// Registration is last-write-wins: traces legitimately reuse addresses once
// the driver freed the previous object. The table never shrinks; Unregister
// is advisory because backend resource lifetime is not tied to it.
//
// Not safe for concurrent use. The dispatcher owns it.
type ObjectTable struct {
	objects map[uint64]any
}

// NewObjectTable creates an empty table.
func NewObjectTable() *ObjectTable {
	return &ObjectTable{objects: make(map[uint64]any)}
}

// Register stores obj under addr, replacing any previous entry.
// obj may be nil (a call that returned NULL).
func (t *ObjectTable) Register(addr uint64, obj any) {
	t.objects[addr] = obj
}

// Lookup returns the object registered at addr.
// Fails with ErrCodeUnknownObject if addr was never registered.
func (t *ObjectTable) Lookup(addr uint64) (any, error) {
	obj, ok := t.objects[addr]
	if !ok {
		return nil, NewUnknownObjectError(addr)
	}
	return obj, nil
}

// Unregister is a no-op. Stale entries are kept until their address is
// registered again.
func (t *ObjectTable) Unregister(obj any) {}

// Len returns the number of registered addresses.
func (t *ObjectTable) Len() int {
	return len(t.objects)
}

// Addresses returns the registered addresses in ascending order.
func (t *ObjectTable) Addresses() []uint64 {
	addrs := make([]uint64, 0, len(t.objects))
	for a := range t.objects {
		addrs = append(addrs, a)
	}
	slices.Sort(addrs)
	return addrs
}
