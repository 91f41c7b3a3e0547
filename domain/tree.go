package domain

// Tree indexes a deadline collection by id and by parent id. It is built once per snapshot.
// Parent links are not checked for cycles; callers supply consistent data.
type Tree struct {
	nodes    []Deadline
	byID     map[string]int
	children map[string][]int
	roots    []int
}

// NewTree builds the index in a single pass. Deadlines are copied, so later changes to the
// input slice are not observed.
func NewTree(deadlines []Deadline) *Tree {
	t := &Tree{
		nodes:    append([]Deadline(nil), deadlines...),
		byID:     make(map[string]int, len(deadlines)),
		children: make(map[string][]int),
	}
	for i, d := range t.nodes {
		t.byID[d.ID] = i
		if d.ParentID == nil || *d.ParentID == "" {
			t.roots = append(t.roots, i)
			continue
		}
		t.children[*d.ParentID] = append(t.children[*d.ParentID], i)
	}
	return t
}

func (t *Tree) Get(id string) (Deadline, bool) {
	i, ok := t.byID[id]
	if !ok {
		return Deadline{}, false
	}
	return t.nodes[i], true
}

// Children returns the direct children of id.
func (t *Tree) Children(id string) []Deadline {
	return t.collect(t.children[id])
}

// Parent returns the parent of id, if it has one present in the tree.
func (t *Tree) Parent(id string) (Deadline, bool) {
	d, ok := t.Get(id)
	if !ok || d.ParentID == nil {
		return Deadline{}, false
	}
	return t.Get(*d.ParentID)
}

// Roots returns the deadlines without a parent.
func (t *Tree) Roots() []Deadline {
	return t.collect(t.roots)
}

// CanComplete reports whether every direct child of id is completed.
func (t *Tree) CanComplete(id string) bool {
	for _, i := range t.children[id] {
		if t.nodes[i].CompletedAt == nil {
			return false
		}
	}
	return true
}

func (t *Tree) collect(idx []int) []Deadline {
	out := make([]Deadline, 0, len(idx))
	for _, i := range idx {
		out = append(out, t.nodes[i])
	}
	return out
}
