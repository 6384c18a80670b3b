package broadcast

import (
	"sync"

	"github.com/google/btree"
	"github.com/sjy-dv/scconn/scconn/netcore"
)

// Replies collects per-node replies for a command fanned out to multiple
// nodes. Replies are expected to differ even in the ideal situation (per
// node server info and the like); nothing here reconciles them. Nodes are
// kept in address order so Range walks them deterministically.
type Replies[T any] struct {
	tree *btree.BTree
	lock *sync.RWMutex
}

type entry[T any] struct {
	node  netcore.Address
	reply T
}

func (e *entry[T]) Less(bi btree.Item) bool {
	other := bi.(*entry[T])
	if e.node.Host != other.node.Host {
		return e.node.Host < other.node.Host
	}
	return e.node.Port < other.node.Port
}

func New[T any]() *Replies[T] {
	return &Replies[T]{
		tree: btree.New(32),
		lock: new(sync.RWMutex),
	}
}

// AddReply records the reply from node, replacing any earlier one.
func (r *Replies[T]) AddReply(node netcore.Address, reply T) {
	r.lock.Lock()
	defer r.lock.Unlock()
	r.tree.ReplaceOrInsert(&entry[T]{node: node, reply: reply})
}

func (r *Replies[T]) Reply(node netcore.Address) (T, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	val := r.tree.Get(&entry[T]{node: node})
	if val == nil {
		var zero T
		return zero, false
	}
	return val.(*entry[T]).reply, true
}

// Replies returns a copy of every recorded reply keyed by node.
func (r *Replies[T]) Replies() map[netcore.Address]T {
	r.lock.RLock()
	defer r.lock.RUnlock()
	out := make(map[netcore.Address]T, r.tree.Len())
	r.tree.Ascend(func(i btree.Item) bool {
		e := i.(*entry[T])
		out[e.node] = e.reply
		return true
	})
	return out
}

// Range walks replies in ascending node-address order until fn returns
// false.
func (r *Replies[T]) Range(fn func(node netcore.Address, reply T) bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	r.tree.Ascend(func(i btree.Item) bool {
		e := i.(*entry[T])
		return fn(e.node, e.reply)
	})
}

func (r *Replies[T]) Len() int {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.tree.Len()
}
