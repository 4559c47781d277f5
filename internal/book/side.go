package book

import (
	"github.com/google/btree"

	"github.com/openvenue/matchbook/internal/domain"
)

const degree = 32

// sideBook is one price-time-ordered side of the book. Every write
// clones the underlying B-tree, so a sideBook is immutable once built:
// btree.Clone is copy-on-write and shares nodes between snapshots,
// keeping a small change far cheaper than a full copy.
type sideBook struct {
	side domain.Side
	tree *btree.BTreeG[Entry]
}

func newSideBook(side domain.Side) *sideBook {
	return &sideBook{
		side: side,
		tree: btree.NewG(degree, lessFor(side)),
	}
}

func (s *sideBook) insert(e Entry) *sideBook {
	t := s.tree.Clone()
	t.ReplaceOrInsert(e)
	return &sideBook{side: s.side, tree: t}
}

// update replaces the entry at e's key with e, or removes it when no
// available size remains.
func (s *sideBook) update(e Entry) *sideBook {
	t := s.tree.Clone()
	if e.Sizes.Available <= 0 {
		t.Delete(e)
	} else {
		t.ReplaceOrInsert(e)
	}
	return &sideBook{side: s.side, tree: t}
}

func (s *sideBook) removeAll(entries []Entry) *sideBook {
	t := s.tree.Clone()
	for _, e := range entries {
		t.Delete(e)
	}
	return &sideBook{side: s.side, tree: t}
}

func (s *sideBook) best() (Entry, bool) {
	return s.tree.Min()
}

func (s *sideBook) walk(fn func(Entry) bool) {
	s.tree.Ascend(fn)
}

func (s *sideBook) len() int {
	return s.tree.Len()
}
