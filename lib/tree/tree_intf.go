package tree

import (
	"errors"
	"fmt"

	"github.com/benz9527/xtree/lib/infra"
)

type RBColor uint8

const (
	Black RBColor = iota
	Red
)

func (color RBColor) String() string {
	if color == Red {
		return "red"
	}
	return "black"
}

type RBDirection int8

const (
	Left RBDirection = -1 + iota
	Root
	Right
)

var (
	// ErrRBTreeNilValue rejects the insertion of an absent value. The
	// tree never stores nil references.
	ErrRBTreeNilValue = errors.New("[rbtree] nil value insertion")
	// ErrRBTreeDuplicateValue rejects the insertion of a key that is
	// already stored. Detected during the descent, before any mutation.
	ErrRBTreeDuplicateValue = errors.New("[rbtree] duplicate value insertion")
	// ErrRBTreeRotateNotRelated reports a rotation request on two nodes
	// that are not an immediate parent and child pair. Rotation is the
	// only restructuring primitive, so this error means the rebalance
	// state machines lost track of the tree shape. Not user-facing.
	ErrRBTreeRotateNotRelated = errors.New("[rbtree] rotation nodes are not parent and child")
	// ErrRBTreeKeyNotFound is returned by operations that require the
	// key to be present (Update). Remove treats an absent key as a
	// normal miss, not an error.
	ErrRBTreeKeyNotFound = errors.New("[rbtree] key not found")
	ErrRBTreeEmpty       = errors.New("[rbtree] no element to remove")
)

type RBNode[K infra.OrderedKey, V any] interface {
	Key() K
	Val() V
	HasKeyVal() bool
	Color() RBColor
	Left() RBNode[K, V]
	Right() RBNode[K, V]
	Parent() RBNode[K, V]
}

type RBTree[K infra.OrderedKey, V any] interface {
	fmt.Stringer
	Len() int64
	Root() RBNode[K, V]
	Insert(key K, val V) error
	Update(key K, val V) error
	Remove(key K) (RBNode[K, V], error)
	RemoveMin() (RBNode[K, V], error)
	Search(key K) RBNode[K, V]
	Minimum() RBNode[K, V]
	Maximum() RBNode[K, V]
	Foreach(action func(idx int64, color RBColor, key K, val V) bool)
	Ascend() []K
	AscendValues() []V
	Release()
}
