package category

import (
	"slices"
	"strings"

	"github.com/Iceblockp/mini-shop-pos/internal/model"
)

const PathSeparator = " > "

// ResolvePath returns the root-first names of id and its ancestors joined by PathSeparator.
// Parent links are followed until a root, a dangling parent or an already visited id,
// so a corrupted cycle terminates. Unknown ids resolve to "".
func ResolvePath(categories []model.Category, id int64) string {
	byID := indexByID(categories)
	return resolvePath(byID, id)
}

func resolvePath(byID map[int64]*model.Category, id int64) string {
	var names []string
	visited := make(map[int64]bool)
	for cur, ok := byID[id]; ok; {
		if visited[cur.ID] {
			break
		}
		visited[cur.ID] = true
		names = append(names, cur.Name)
		if cur.ParentID == nil {
			break
		}
		cur, ok = byID[*cur.ParentID]
	}
	slices.Reverse(names)
	return strings.Join(names, PathSeparator)
}

// IsAncestorOrSelf reports whether candidate is id itself or one of its ancestors.
// Setting id's parent to a category for which IsAncestorOrSelf(categories, candidate, id)
// holds would close a cycle.
func IsAncestorOrSelf(categories []model.Category, id, candidate int64) bool {
	byID := indexByID(categories)
	visited := make(map[int64]bool)
	for cur := id; ; {
		if cur == candidate {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		c, ok := byID[cur]
		if !ok || c.ParentID == nil {
			return false
		}
		cur = *c.ParentID
	}
}

// BuildTree nests categories under their parents. Categories whose parent is missing,
// and categories only reachable through a cycle, are returned as roots.
func BuildTree(categories []model.Category, productCounts map[int64]int) []*model.CategoryNode {
	byID := indexByID(categories)
	children := make(map[int64][]int64)
	for _, c := range categories {
		if c.ParentID != nil {
			if _, ok := byID[*c.ParentID]; ok {
				children[*c.ParentID] = append(children[*c.ParentID], c.ID)
			}
		}
	}

	visited := make(map[int64]bool)
	var build func(id int64) *model.CategoryNode
	build = func(id int64) *model.CategoryNode {
		visited[id] = true
		node := &model.CategoryNode{
			Category:     *byID[id],
			Path:         resolvePath(byID, id),
			ProductCount: productCounts[id],
		}
		for _, childID := range children[id] {
			if visited[childID] {
				continue
			}
			node.Subcategories = append(node.Subcategories, build(childID))
		}
		return node
	}

	var roots []*model.CategoryNode
	for _, c := range categories {
		isRoot := c.ParentID == nil
		if !isRoot {
			_, parentKnown := byID[*c.ParentID]
			isRoot = !parentKnown
		}
		if isRoot && !visited[c.ID] {
			roots = append(roots, build(c.ID))
		}
	}
	// Whatever is left hangs off a cycle.
	for _, c := range categories {
		if !visited[c.ID] {
			roots = append(roots, build(c.ID))
		}
	}
	return roots
}

// WithPaths pairs every category with its resolved path, sorted by path.
func WithPaths(categories []model.Category, productCounts map[int64]int) []model.CategoryNode {
	byID := indexByID(categories)
	out := make([]model.CategoryNode, 0, len(categories))
	for _, c := range categories {
		out = append(out, model.CategoryNode{
			Category:     c,
			Path:         resolvePath(byID, c.ID),
			ProductCount: productCounts[c.ID],
		})
	}
	slices.SortStableFunc(out, func(a, b model.CategoryNode) int {
		return strings.Compare(a.Path, b.Path)
	})
	return out
}

func indexByID(categories []model.Category) map[int64]*model.Category {
	byID := make(map[int64]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID
}
