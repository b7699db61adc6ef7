package kv

import (
	"fmt"
	"io"

	"github.com/benz9527/xtree/lib/infra"
)

type SafeStoreKeyFilterFunc[K comparable] func(key K) bool

func defaultAllKeysFilter[K comparable](key K) bool {
	return true
}

type Closable interface {
	io.Closer
}

type ThreadSafeStorer[K comparable, V any] interface {
	Purge() error
	AddOrUpdate(key K, obj V)
	Replace(items map[K]V)
	Delete(key K)
	Get(key K) (item V, exists bool)
	ListKeys(filters ...SafeStoreKeyFilterFunc[K]) []K
	ListValues(keys ...K) (items []V)
}

// SortedMap is an ordered map: lookups by key plus cheap access to the
// smallest and largest entries and an ascending walk. Not thread safe,
// callers serialize access the same way they do for the backing rbtree.
type SortedMap[K infra.OrderedKey, V any] interface {
	fmt.Stringer
	Len() int64
	Put(key K, val V) error
	Get(key K) (item V, exists bool)
	Delete(key K) (item V, exists bool)
	Min() (key K, val V, exists bool)
	Max() (key K, val V, exists bool)
	Keys() []K
	Range(fn func(key K, val V) bool)
	Purge()
}
