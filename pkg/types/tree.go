package types

// Tree is the in-memory resource set of one container. Keys are unique by
// construction; Set on an existing key replaces the entry.
type Tree struct {
	entries map[Key]*Entry
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{entries: make(map[Key]*Entry)}
}

// Len returns the number of resources.
func (t *Tree) Len() int { return len(t.entries) }

// Get returns the entry stored under k.
func (t *Tree) Get(k Key) (*Entry, bool) {
	e, ok := t.entries[k]
	return e, ok
}

// Set stores e under k. The tree takes ownership of e.
func (t *Tree) Set(k Key, e *Entry) {
	t.entries[k] = e
}

// Delete removes k and reports whether it was present.
func (t *Tree) Delete(k Key) bool {
	if _, ok := t.entries[k]; !ok {
		return false
	}
	delete(t.entries, k)
	return true
}

// Keys returns all keys in directory order.
func (t *Tree) Keys() []Key {
	keys := make([]Key, 0, len(t.entries))
	for k := range t.entries {
		keys = append(keys, k)
	}
	SortKeys(keys)
	return keys
}

// Walk visits entries in directory order until fn returns false.
func (t *Tree) Walk(fn func(Key, *Entry) bool) {
	for _, k := range t.Keys() {
		if !fn(k, t.entries[k]) {
			return
		}
	}
}
