package kv

import (
	"errors"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
)

// sortedMap is a thin ordered-map facade over the red-black tree.
// Put is an upsert, the tree's duplicate rejection is folded into an
// in-place value update.
type sortedMap[K infra.OrderedKey, V any] struct {
	rbtree tree.RBTree[K, V]
}

func (m *sortedMap[K, V]) Len() int64 {
	return m.rbtree.Len()
}

func (m *sortedMap[K, V]) Put(key K, val V) error {
	err := m.rbtree.Insert(key, val)
	if err == nil {
		return nil
	}
	if errors.Is(err, tree.ErrRBTreeDuplicateValue) {
		return m.rbtree.Update(key, val)
	}
	return infra.WrapErrorStack(err)
}

func (m *sortedMap[K, V]) Get(key K) (item V, exists bool) {
	node := m.rbtree.Search(key)
	if node == nil {
		return *new(V), false
	}
	return node.Val(), true
}

func (m *sortedMap[K, V]) Delete(key K) (item V, exists bool) {
	node, err := m.rbtree.Remove(key)
	if err != nil || node == nil {
		return *new(V), false
	}
	return node.Val(), true
}

func (m *sortedMap[K, V]) Min() (key K, val V, exists bool) {
	node := m.rbtree.Minimum()
	if node == nil {
		return *new(K), *new(V), false
	}
	return node.Key(), node.Val(), true
}

func (m *sortedMap[K, V]) Max() (key K, val V, exists bool) {
	node := m.rbtree.Maximum()
	if node == nil {
		return *new(K), *new(V), false
	}
	return node.Key(), node.Val(), true
}

func (m *sortedMap[K, V]) Keys() []K {
	return m.rbtree.Ascend()
}

func (m *sortedMap[K, V]) Range(fn func(key K, val V) bool) {
	if fn == nil {
		return
	}
	m.rbtree.Foreach(func(idx int64, color tree.RBColor, key K, val V) bool {
		return fn(key, val)
	})
}

func (m *sortedMap[K, V]) Purge() {
	m.rbtree.Release()
}

func (m *sortedMap[K, V]) String() string {
	return m.rbtree.String()
}

func NewSortedMap[K infra.OrderedKey, V any]() SortedMap[K, V] {
	return &sortedMap[K, V]{rbtree: tree.NewRBTree[K, V]()}
}
