package jar

// orderedMap is a string-keyed map that remembers insertion order.
// Overwriting an existing key keeps its original position.
type orderedMap[V any] struct {
	keys  []string
	items map[string]V
}

func newOrderedMap[V any]() *orderedMap[V] {
	return &orderedMap[V]{items: make(map[string]V)}
}

func (m *orderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.items[key]
	return v, ok
}

func (m *orderedMap[V]) Set(key string, v V) {
	if _, ok := m.items[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.items[key] = v
}

func (m *orderedMap[V]) Delete(key string) {
	if _, ok := m.items[key]; !ok {
		return
	}
	delete(m.items, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

func (m *orderedMap[V]) Len() int {
	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order, so callers may delete
// while iterating.
func (m *orderedMap[V]) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

func (m *orderedMap[V]) Clear() {
	m.keys = nil
	m.items = make(map[string]V)
}
