package value

import "math"

// ObjMap is warp's builtin associative collection: open addressing with
// linear probing and tombstones, load factor capped at 0.75, capacity
// doubling from an 8-slot minimum. Keys are numbers, booleans, or strings;
// nil is never a valid key, which is what lets an empty slot be represented
// by a nil key.
type ObjMap struct {
	Obj
	entries []mapEntry
	count   int // live entries + tombstones
	live    int
}

type mapEntry struct {
	key   Value
	value Value
}

const mapMaxLoad = 0.75

func NewMap() *ObjMap {
	return &ObjMap{Obj: Obj{Kind: KindObjMap}}
}

func AsMap(v Value) *ObjMap { return fromObj[ObjMap](v.obj) }

// Len returns the number of live (non-tombstone) entries.
func (m *ObjMap) Len() int { return m.live }

// IsValidKey reports whether v may be used as a map key.
func IsValidKey(v Value) bool {
	switch {
	case v.IsNumber(), v.IsBool():
		return true
	case v.IsObjKind(KindObjString):
		return true
	default:
		return false
	}
}

func hashKey(v Value) uint32 {
	switch {
	case v.IsObjKind(KindObjString):
		return AsString(v).Hash
	case v.IsNumber():
		bits := math.Float64bits(v.AsNumber())
		return FNV1a([]byte{
			byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24),
			byte(bits >> 32), byte(bits >> 40), byte(bits >> 48), byte(bits >> 56),
		})
	case v.IsBool():
		if v.AsBool() {
			return FNV1a([]byte{1})
		}
		return FNV1a([]byte{0})
	default:
		return 0
	}
}

// findEntry locates the slot for key within entries: probe past tombstones
// (key is nil, value is true) until either the key is found or a true
// empty slot (key nil, value nil) is reached. The first tombstone seen is
// remembered so insertion can reuse it.
func findEntry(entries []mapEntry, key Value) int {
	capacity := len(entries)
	idx := int(hashKey(key)) % capacity
	if idx < 0 {
		idx += capacity
	}
	tombstone := -1
	for {
		e := &entries[idx]
		if e.key.IsNil() {
			if e.value.IsNil() {
				// empty slot
				if tombstone != -1 {
					return tombstone
				}
				return idx
			}
			// tombstone
			if tombstone == -1 {
				tombstone = idx
			}
		} else if e.key.Equal(key) {
			return idx
		}
		idx = (idx + 1) % capacity
	}
}

func growCapacity(old int) int {
	if old < 8 {
		return 8
	}
	return old * 2
}

func (m *ObjMap) adjustCapacity(newCap int) {
	fresh := make([]mapEntry, newCap)
	for i := range fresh {
		fresh[i] = mapEntry{key: Nil(), value: Nil()}
	}
	m.live = 0
	for _, e := range m.entries {
		if e.key.IsNil() {
			continue
		}
		idx := findEntry(fresh, e.key)
		fresh[idx] = e
		m.live++
	}
	m.entries = fresh
	m.count = m.live
}

// Get returns the value stored under key, if any.
func (m *ObjMap) Get(key Value) (Value, bool) {
	if m.count == 0 {
		return Nil(), false
	}
	idx := findEntry(m.entries, key)
	e := &m.entries[idx]
	if e.key.IsNil() {
		return Nil(), false
	}
	return e.value, true
}

// Set stores value under key, returning true if this inserted a brand new
// key (as opposed to overwriting an existing one).
func (m *ObjMap) Set(key, value Value) bool {
	if float64(m.count+1) > float64(len(m.entries))*mapMaxLoad {
		m.adjustCapacity(growCapacity(len(m.entries)))
	}
	idx := findEntry(m.entries, key)
	e := &m.entries[idx]
	isNew := e.key.IsNil()
	if isNew && e.value.IsNil() {
		// a fresh slot, not a tombstone reuse, grows the bookkeeping count
		m.count++
	}
	m.entries[idx] = mapEntry{key: key, value: value}
	if isNew {
		m.live++
	}
	return isNew
}

// Delete removes key, leaving a tombstone (key=nil, value=true) behind so
// that later probes past this slot still find keys that were inserted
// after a collision.
func (m *ObjMap) Delete(key Value) bool {
	if m.count == 0 {
		return false
	}
	idx := findEntry(m.entries, key)
	e := &m.entries[idx]
	if e.key.IsNil() {
		return false
	}
	*e = mapEntry{key: Nil(), value: Bool(true)}
	m.live--
	return true
}
