package categories

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func ptr(v int64) *int64 { return &v }

func TestBuildTreeExample(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Sofas", ParentID: ptr(1)},
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 1)
	require.Equal(t, "Furniture", tree[0].Name)
	require.Len(t, tree[0].Subcategories, 1)
	require.Equal(t, "Sofas", tree[0].Subcategories[0].Name)
	require.Equal(t, int64(1), *tree[0].Subcategories[0].ParentID)
}

func TestBuildTreeIdempotent(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Sofas", ParentID: ptr(1)},
		{ID: 3, Name: "Decor"},
		{ID: 4, Name: "Lamps", ParentID: ptr(3)},
		{ID: 5, Name: "Rugs", ParentID: ptr(3)},
	}

	first := BuildTree(flat)
	second := BuildTree(flat)
	require.Equal(t, first, second)
}

func TestBuildTreeIgnoresDeepChains(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Sofas", ParentID: ptr(1)},
		// Parent is a subcategory, not a root: does not attach anywhere.
		{ID: 3, Name: "Loveseats", ParentID: ptr(2)},
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Subcategories, 1)
	require.Equal(t, "Sofas", tree[0].Subcategories[0].Name)
}

func TestBuildTreeOrphanParent(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Ghost", ParentID: ptr(99)},
	}

	tree := BuildTree(flat)
	require.Len(t, tree, 1)
	require.Empty(t, tree[0].Subcategories)
}

func TestBuildTreeDoesNotMutateInput(t *testing.T) {
	flat := []Category{
		{ID: 1, Name: "Furniture"},
		{ID: 2, Name: "Sofas", ParentID: ptr(1)},
	}

	_ = BuildTree(flat)
	require.Nil(t, flat[0].Subcategories)
}

func TestBuildTreeEmpty(t *testing.T) {
	require.Empty(t, BuildTree(nil))
}
