package domain

// EmbeddingMap is an ordered mapping from element key to embedding vector.
// Iteration order is insertion order. A map is built once per analysis run
// and is read-only afterwards: Vector and Keys return copies.
type EmbeddingMap struct {
	keys    []ElementKey
	vectors map[ElementKey][]float32
}

// NewEmbeddingMap creates an empty embedding map.
func NewEmbeddingMap() *EmbeddingMap {
	return &EmbeddingMap{vectors: make(map[ElementKey][]float32)}
}

// Set adds or replaces the vector for key. Replacing keeps the original position.
// Set is meant for construction only.
func (m *EmbeddingMap) Set(key ElementKey, vector []float32) {
	if _, ok := m.vectors[key]; !ok {
		m.keys = append(m.keys, key)
	}
	v := make([]float32, len(vector))
	copy(v, vector)
	m.vectors[key] = v
}

// Has reports whether key has a vector.
func (m *EmbeddingMap) Has(key ElementKey) bool {
	if m == nil {
		return false
	}
	_, ok := m.vectors[key]
	return ok
}

// Vector returns a copy of the vector for key.
func (m *EmbeddingMap) Vector(key ElementKey) ([]float32, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.vectors[key]
	if !ok {
		return nil, false
	}
	out := make([]float32, len(v))
	copy(out, v)
	return out, true
}

// view returns the stored vector without copying, for read-only use
// inside the package's iteration helpers.
func (m *EmbeddingMap) view(key ElementKey) []float32 {
	return m.vectors[key]
}

// Keys returns the keys in insertion order.
func (m *EmbeddingMap) Keys() []ElementKey {
	if m == nil {
		return nil
	}
	out := make([]ElementKey, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *EmbeddingMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every entry in insertion order. The vector passed to fn
// must not be modified.
func (m *EmbeddingMap) Each(fn func(key ElementKey, vector []float32)) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.view(k))
	}
}

// Dimensions returns the vector size of the first entry, or 0 when empty.
func (m *EmbeddingMap) Dimensions() int {
	if m.Len() == 0 {
		return 0
	}
	return len(m.view(m.keys[0]))
}

// EmbeddingEntry is the serialised form of one map entry.
type EmbeddingEntry struct {
	Key    ElementKey `json:"key"`
	Vector []float32  `json:"vector"`
}

// Entries returns the map as an ordered slice of entries.
func (m *EmbeddingMap) Entries() []EmbeddingEntry {
	entries := make([]EmbeddingEntry, 0, m.Len())
	m.Each(func(key ElementKey, vector []float32) {
		v := make([]float32, len(vector))
		copy(v, vector)
		entries = append(entries, EmbeddingEntry{Key: key, Vector: v})
	})
	return entries
}

// EmbeddingMapFromEntries rebuilds a map from serialised entries.
func EmbeddingMapFromEntries(entries []EmbeddingEntry) *EmbeddingMap {
	m := NewEmbeddingMap()
	for _, e := range entries {
		m.Set(e.Key, e.Vector)
	}
	return m
}
