/*
Package omap implements the ordered indexed map: a container keyed by
string (triplex identifiers, in practice) that supports both O(log n)
keyed lookup and O(log n) positional indexing over the same sorted order.

# Architecture

The container is a treap (a randomized binary search tree ordered by key,
heap-ordered by an independently random priority). Every node additionally
carries its subtree size, so rank queries (indexOf) and order-statistic
queries (at/keyAt/valueAt) both descend the tree in expected O(log n)
without a secondary array — insert and delete never have to shift or
reindex anything else.

	          key order (BST)              priority order (heap)
	        ┌──────────────┐              ┌──────────────┐
	        │   in-order    │   ═══════▶  │  random, no  │
	        │   traversal   │              │  key pattern │
	        │  == sorted    │              │  can degrade │
	        │     keys      │              │    depth     │
	        └──────────────┘              └──────────────┘

Insert descends by key and restores heap order with single rotations on
the way back up. Delete replaces the removed node with the merge of its two
subtrees; merge recombines two trees known to be entirely ordered with
respect to each other. There is no split operation.

# Iteration

Iter and Retro return range-over-func iterators (the standard iter.Seq2
shape), so callers range directly:

	for key, value := range m.Iter() { ... }

SliceValues/SliceKeys/SliceItems and their Retro counterparts bound that
same traversal to a [start, stop) window; negative bounds index from the
end, matching the positional-indexing convention used throughout this
package.
*/
package omap
