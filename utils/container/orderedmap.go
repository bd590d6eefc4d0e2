// Package container provides the generic collections the simulation
// components share.
package container

// OrderedMap is a map that iterates in insertion order. The simulation
// replays identically for a fixed seed, so every collection whose
// iteration order feeds back into the dynamics must be deterministic.
type OrderedMap[K comparable, V any] struct {
	values map[K]V
	order  []K
}

func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{values: make(map[K]V)}
}

// Set inserts or overwrites. An overwritten key keeps its original
// position.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if _, ok := m.values[key]; !ok {
		m.order = append(m.order, key)
	}
	m.values[key] = value
}

func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

func (m *OrderedMap[K, V]) Delete(key K) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.order {
		if k == key {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *OrderedMap[K, V]) Len() int {
	return len(m.values)
}

// Keys returns the keys in insertion order. The slice is a copy and
// stays valid across mutation.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.order...)
}

// Values returns the values in insertion order.
func (m *OrderedMap[K, V]) Values() []V {
	values := make([]V, 0, len(m.order))
	for _, key := range m.order {
		values = append(values, m.values[key])
	}
	return values
}
