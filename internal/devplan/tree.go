package devplan

import "github.com/shalomhq/shalom/internal/types"

// BuildSkillTree assembles a rooted tree from a flat list of skill rows.
// The root is the row whose ParentID is nil; sibling order follows input
// order. Returns nil when no root row exists (callers substitute a
// placeholder). A parent→children index is built once so reconstruction is
// O(n) in the number of rows.
func BuildSkillTree(rows []types.Skill) *types.SkillNode {
	var root *types.Skill
	children := make(map[string][]*types.Skill, len(rows))

	for i := range rows {
		row := &rows[i]
		if row.ParentID == nil {
			if root == nil {
				root = row
			}
			continue
		}
		children[*row.ParentID] = append(children[*row.ParentID], row)
	}

	if root == nil {
		return nil
	}
	return buildNode(root, children)
}

func buildNode(row *types.Skill, children map[string][]*types.Skill) *types.SkillNode {
	node := &types.SkillNode{Skill: *row, Children: []*types.SkillNode{}}
	for _, child := range children[row.ID] {
		node.Children = append(node.Children, buildNode(child, children))
	}
	return node
}

// CountNodes returns the total number of nodes in a tree. Nil trees count 0.
func CountNodes(node *types.SkillNode) int {
	if node == nil {
		return 0
	}
	total := 1
	for _, child := range node.Children {
		total += CountNodes(child)
	}
	return total
}

// EmptyTree is the placeholder served when a plan has no skill rows. It keeps
// the response shape stable for clients expecting a root node.
func EmptyTree(planID string) *types.SkillNode {
	return &types.SkillNode{
		Skill:    types.Skill{PlanID: planID, Name: "Habilidades", Level: 1},
		Children: []*types.SkillNode{},
	}
}
