package categories

// BuildTree partitions a flat category list into roots with their direct
// children attached. A record is a root iff it has no parent reference; a
// record is a child of root R iff its parent reference equals R's id. Parent
// chains deeper than two levels are not followed: a record whose parent is
// not a root simply does not attach anywhere. The function never mutates its
// input and is idempotent over the same flat list.
func BuildTree(flat []Category) []Category {
	rootIndex := make(map[int64]int)
	roots := make([]Category, 0, len(flat))
	for _, c := range flat {
		if !c.Root() {
			continue
		}
		root := c
		root.Subcategories = []Category{}
		rootIndex[root.ID] = len(roots)
		roots = append(roots, root)
	}

	for _, c := range flat {
		if c.Root() {
			continue
		}
		idx, ok := rootIndex[*c.ParentID]
		if !ok {
			continue
		}
		child := c
		child.Subcategories = nil
		roots[idx].Subcategories = append(roots[idx].Subcategories, child)
	}

	return roots
}
