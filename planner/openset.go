package planner

import "container/heap"

// openSet is the key-ordered open set spec.md §3/§9 describes: "a sorted
// vector scanned/re-sorted each iteration is correct but O(N log N) per
// replan; a priority queue supporting decrease-key... is a faithful
// optimization as long as the key recomputation on heuristic change is
// still performed." This is that optimization: an indexed binary heap over
// container/heap, holding the same *Cell pointers the working grid owns (so
// mutating a cell's key and fixing its heap position are the same
// operation, with no copy-then-resync step needed).
type openSet struct {
	cells []*Cell
	index map[int]int // cell id -> index into cells
}

func newOpenSet() *openSet {
	return &openSet{index: make(map[int]int)}
}

func (s *openSet) Len() int { return len(s.cells) }

func (s *openSet) Less(i, j int) bool { return s.cells[i].K.Less(s.cells[j].K) }

func (s *openSet) Swap(i, j int) {
	s.cells[i], s.cells[j] = s.cells[j], s.cells[i]
	s.cells[i].heapIndex = i
	s.cells[j].heapIndex = j
	s.index[s.cells[i].ID] = i
	s.index[s.cells[j].ID] = j
}

func (s *openSet) Push(x any) {
	c := x.(*Cell)
	c.heapIndex = len(s.cells)
	s.index[c.ID] = c.heapIndex
	s.cells = append(s.cells, c)
}

func (s *openSet) Pop() any {
	old := s.cells
	n := len(old)
	c := old[n-1]
	old[n-1] = nil
	s.cells = old[:n-1]
	delete(s.index, c.ID)
	c.heapIndex = -1
	return c
}

// contains reports whether id is currently in the open set.
func (s *openSet) contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// insert adds c to the open set, or fixes its position if it is already
// present (decrease/increase-key), matching updateCell's "remove if
// present, then (re)insert" sequencing in spec.md §4.7 — callers are
// expected to have already called remove before insert when re-adding a
// cell whose key changed, but insert tolerates being called directly too.
func (s *openSet) insert(c *Cell) {
	if idx, ok := s.index[c.ID]; ok {
		s.cells[idx] = c
		heap.Fix(s, idx)
		return
	}
	heap.Push(s, c)
}

// remove deletes id from the open set if present; a no-op otherwise.
func (s *openSet) remove(id int) {
	idx, ok := s.index[id]
	if !ok {
		return
	}
	heap.Remove(s, idx)
}

// popMin removes and returns the minimum-key cell.
func (s *openSet) popMin() *Cell {
	return heap.Pop(s).(*Cell)
}

// peekMin returns the minimum-key cell without removing it, or nil if
// empty.
func (s *openSet) peekMin() *Cell {
	if len(s.cells) == 0 {
		return nil
	}
	return s.cells[0]
}

// fix restores the heap invariant for id after its key was mutated in
// place.
func (s *openSet) fix(id int) {
	if idx, ok := s.index[id]; ok {
		heap.Fix(s, idx)
	}
}

// all returns the open set's cells, for pathTraversal's "recompute h and
// key for every cell currently in the open list" pass. The caller must call
// reheapify after mutating keys of the returned cells.
func (s *openSet) all() []*Cell {
	return s.cells
}

// reheapify restores the heap invariant after external callers mutate
// multiple cells' keys directly (see all).
func (s *openSet) reheapify() {
	heap.Init(s)
}
