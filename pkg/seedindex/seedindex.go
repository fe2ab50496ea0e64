// Package seedindex maintains an in-memory ordered index from strand seeds
// to the archive ids carrying them. Seeds are not unique: a seed maps to
// every id archived under it.
package seedindex

import (
	"sync"

	"github.com/segmentio/ksuid"
)

// DefaultOrder is the fallback branching factor if a caller-supplied order
// is too small.
const DefaultOrder = 32

// Index is a B+ tree keyed by seed. Leaves hold id lists; a tree-level
// RWMutex serializes mutation, so lookups can run concurrently.
type Index struct {
	root   *node
	order  int
	height int
	mu     sync.RWMutex
}

// node represents both internal and leaf nodes in the tree.
type node struct {
	isLeaf   bool
	keys     []uint64
	children []*node         // used if !isLeaf
	ids      [][]ksuid.KSUID // used if isLeaf; ids[i] lists the ids under keys[i]
	parent   *node
	next     *node // leaf-link pointer, for ordered scans
}

// New creates an empty index with the given order. Orders below 3 fall back
// to DefaultOrder.
func New(order int) *Index {
	if order < 3 {
		order = DefaultOrder
	}
	root := &node{
		isLeaf: true,
		keys:   make([]uint64, 0, order),
		ids:    make([][]ksuid.KSUID, 0, order),
	}
	return &Index{
		root:   root,
		order:  order,
		height: 1,
	}
}

// Height reports the current tree height.
func (idx *Index) Height() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.height
}

// Insert records id under seed.
func (idx *Index) Insert(seed uint64, id ksuid.KSUID) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	leaf := idx.leafFor(seed)
	insertIntoLeaf(leaf, seed, id)

	if len(leaf.keys) > idx.order {
		idx.splitLeaf(leaf)
	}
}

// Remove forgets one occurrence of id under seed. It reports whether the
// pair was present. A seed whose last id is removed stays in the leaf with
// an empty list; lookups treat it as absent.
func (idx *Index) Remove(seed uint64, id ksuid.KSUID) bool {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	leaf := idx.leafFor(seed)
	for i, k := range leaf.keys {
		if k != seed {
			continue
		}
		for j, existing := range leaf.ids[i] {
			if existing == id {
				leaf.ids[i] = append(leaf.ids[i][:j], leaf.ids[i][j+1:]...)
				return true
			}
		}
		return false
	}
	return false
}

// Find returns a copy of the ids recorded under seed, in insertion order.
func (idx *Index) Find(seed uint64) []ksuid.KSUID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	leaf := idx.leafFor(seed)
	for i, k := range leaf.keys {
		if k == seed {
			if len(leaf.ids[i]) == 0 {
				return nil
			}
			out := make([]ksuid.KSUID, len(leaf.ids[i]))
			copy(out, leaf.ids[i])
			return out
		}
	}
	return nil
}

// Seeds returns every seed with at least one id, ascending.
func (idx *Index) Seeds() []uint64 {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seeds := make([]uint64, 0)
	for leaf := idx.firstLeaf(); leaf != nil; leaf = leaf.next {
		for i, k := range leaf.keys {
			if len(leaf.ids[i]) > 0 {
				seeds = append(seeds, k)
			}
		}
	}
	return seeds
}

// Len reports how many distinct seeds currently hold ids.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	count := 0
	for leaf := idx.firstLeaf(); leaf != nil; leaf = leaf.next {
		for i := range leaf.keys {
			if len(leaf.ids[i]) > 0 {
				count++
			}
		}
	}
	return count
}

// leafFor descends to the leaf that holds (or would hold) seed. Callers
// hold the tree lock.
func (idx *Index) leafFor(seed uint64) *node {
	current := idx.root
	for !current.isLeaf {
		current = current.children[findChildIndex(current.keys, seed)]
	}
	return current
}

// firstLeaf returns the leftmost leaf. Callers hold the tree lock.
func (idx *Index) firstLeaf() *node {
	current := idx.root
	for !current.isLeaf {
		current = current.children[0]
	}
	return current
}

// findChildIndex determines which child pointer to follow (or where to
// insert a new key) in an internal node.
func findChildIndex(keys []uint64, seed uint64) int {
	for i, k := range keys {
		if seed < k {
			return i
		}
	}
	return len(keys)
}

// insertIntoLeaf places id under seed in sorted key order, appending to the
// id list when the seed is already present.
func insertIntoLeaf(leaf *node, seed uint64, id ksuid.KSUID) {
	i := 0
	for i < len(leaf.keys) && leaf.keys[i] < seed {
		i++
	}
	if i < len(leaf.keys) && leaf.keys[i] == seed {
		leaf.ids[i] = append(leaf.ids[i], id)
		return
	}

	leaf.keys = append(leaf.keys, 0)
	copy(leaf.keys[i+1:], leaf.keys[i:])
	leaf.keys[i] = seed

	leaf.ids = append(leaf.ids, nil)
	copy(leaf.ids[i+1:], leaf.ids[i:])
	leaf.ids[i] = []ksuid.KSUID{id}
}

// splitLeaf handles a leaf that has overflowed.
func (idx *Index) splitLeaf(leaf *node) {
	mid := len(leaf.keys) / 2

	newLeaf := &node{
		isLeaf: true,
		keys:   append([]uint64{}, leaf.keys[mid:]...),
		ids:    append([][]ksuid.KSUID{}, leaf.ids[mid:]...),
		next:   leaf.next,
		parent: leaf.parent,
	}

	leaf.keys = leaf.keys[:mid]
	leaf.ids = leaf.ids[:mid]
	leaf.next = newLeaf

	if leaf.parent == nil {
		idx.root = &node{
			isLeaf:   false,
			keys:     []uint64{newLeaf.keys[0]},
			children: []*node{leaf, newLeaf},
		}
		leaf.parent = idx.root
		newLeaf.parent = idx.root
		idx.height++
		return
	}

	idx.insertKeyInParent(leaf.parent, newLeaf.keys[0], newLeaf)
}

// insertKeyInParent links rightChild under parent at key.
func (idx *Index) insertKeyInParent(parent *node, key uint64, rightChild *node) {
	i := 0
	for i < len(parent.keys) && parent.keys[i] < key {
		i++
	}

	parent.keys = append(parent.keys, 0)
	copy(parent.keys[i+1:], parent.keys[i:])
	parent.keys[i] = key

	parent.children = append(parent.children, nil)
	copy(parent.children[i+2:], parent.children[i+1:])
	parent.children[i+1] = rightChild

	rightChild.parent = parent

	if len(parent.keys) > idx.order {
		idx.splitInternal(parent)
	}
}

// splitInternal handles an internal node that has overflowed.
func (idx *Index) splitInternal(internal *node) {
	mid := len(internal.keys) / 2
	splitKey := internal.keys[mid]

	newInternal := &node{
		isLeaf:   false,
		keys:     append([]uint64{}, internal.keys[mid+1:]...),
		children: append([]*node{}, internal.children[mid+1:]...),
		parent:   internal.parent,
	}
	for _, child := range newInternal.children {
		child.parent = newInternal
	}

	internal.keys = internal.keys[:mid]
	internal.children = internal.children[:mid+1]

	if internal.parent == nil {
		idx.root = &node{
			isLeaf:   false,
			keys:     []uint64{splitKey},
			children: []*node{internal, newInternal},
		}
		internal.parent = idx.root
		newInternal.parent = idx.root
		idx.height++
		return
	}

	idx.insertKeyInParent(internal.parent, splitKey, newInternal)
}
