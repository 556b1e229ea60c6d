package categories

import "time"

// Category is a catalog grouping. The tree is two levels deep: a category
// with a nil ParentID is a root, anything else is a subcategory.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	ParentID      *int64     `json:"parentId"`
	CreatedAt     time.Time  `json:"createdAt"`
	Subcategories []Category `json:"subcategories,omitempty"`
}

// Root reports whether the category sits at the top level.
func (c Category) Root() bool {
	return c.ParentID == nil
}
