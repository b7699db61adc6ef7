package queue

import (
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"github.com/benz9527/xtree/lib/id"
	"github.com/benz9527/xtree/lib/tree"
)

type pqItem[E comparable] struct {
	priority int64
	index    int64
	value    E
}

func (item *pqItem[E]) Index() int64 {
	if item == nil {
		return -1
	}
	return atomic.LoadInt64(&item.index)
}

func (item *pqItem[E]) Value() (val E) {
	if item == nil {
		// return empty value by default
		return
	}
	return item.value
}

func (item *pqItem[E]) Priority() int64 {
	if item == nil {
		return -1
	}
	return atomic.LoadInt64(&item.priority)
}

func (item *pqItem[E]) SetIndex(idx int64) {
	if item == nil {
		return
	}
	atomic.SwapInt64(&item.index, idx)
}

func (item *pqItem[E]) SetPriority(pri int64) {
	if item == nil {
		return
	}
	atomic.SwapInt64(&item.priority, pri)
}

func NewPriorityQueueItem[E comparable](val E, pri int64) PQItem[E] {
	return &pqItem[E]{
		priority: pri,
		value:    val,
		index:    0,
	}
}

// TreePriorityQueue keeps items ordered by priority in a red-black
// tree. Each tree entry buckets the items that share one priority, so
// equal priorities pop in FIFO order. Pop and Peek take the smallest
// priority first.
type TreePriorityQueue[E comparable] struct {
	index tree.RBTree[int64, []PQItem[E]]
	seq   id.UUIDGen
	lock  *sync.Mutex
	count int64
}

func (pq *TreePriorityQueue[E]) Len() int64 {
	if pq.lock != nil {
		pq.lock.Lock()
		defer pq.lock.Unlock()
	}
	return atomic.LoadInt64(&pq.count)
}

func (pq *TreePriorityQueue[E]) Push(item PQItem[E]) {
	if item == nil {
		return
	}
	if pq.lock != nil {
		pq.lock.Lock()
		defer pq.lock.Unlock()
	}

	item.SetIndex(int64(pq.seq.Number()))
	pri := item.Priority()
	if node := pq.index.Search(pri); node != nil {
		// Existing bucket, append keeps arrival order.
		lo.Must0(pq.index.Update(pri, append(node.Val(), item)))
	} else {
		lo.Must0(pq.index.Insert(pri, []PQItem[E]{item}))
	}
	atomic.AddInt64(&pq.count, 1)
}

func (pq *TreePriorityQueue[E]) Pop() ReadOnlyPQItem[E] {
	if pq.lock != nil {
		pq.lock.Lock()
		defer pq.lock.Unlock()
	}

	node := pq.index.Minimum()
	if node == nil {
		return nil
	}

	bucket := node.Val()
	item := bucket[0]
	if len(bucket) > 1 {
		lo.Must0(pq.index.Update(node.Key(), bucket[1:]))
	} else {
		lo.Must(pq.index.RemoveMin())
	}
	atomic.AddInt64(&pq.count, -1)
	item.SetIndex(-1)
	return item
}

func (pq *TreePriorityQueue[E]) Peek() ReadOnlyPQItem[E] {
	if pq.lock != nil {
		pq.lock.Lock()
		defer pq.lock.Unlock()
	}

	node := pq.index.Minimum()
	if node == nil {
		return nil
	}
	return node.Val()[0]
}

type TreePriorityQueueOption[E comparable] func(*TreePriorityQueue[E])

func WithTreePriorityQueueEnableThreadSafe[E comparable]() TreePriorityQueueOption[E] {
	return func(pq *TreePriorityQueue[E]) {
		pq.lock = &sync.Mutex{}
	}
}

func NewTreePriorityQueue[E comparable](opts ...TreePriorityQueueOption[E]) PriorityQueue[E] {
	pq := &TreePriorityQueue[E]{
		index: tree.NewRBTree[int64, []PQItem[E]](),
		seq:   lo.Must(id.MonotonicNonZeroID()),
	}
	for _, o := range opts {
		if o != nil {
			o(pq)
		}
	}
	return pq
}
