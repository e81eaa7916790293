package filter

import (
	"github.com/brianlovin/hn-cli-sub000/internal/config"
	"github.com/brianlovin/hn-cli-sub000/internal/model"
)

// TrimComments returns a display copy of a comment forest. Nodes deeper
// than cfg.MaxCommentLevel are dropped with their replies; each sibling
// list keeps its first MaxRootComments (level 0) or MaxChildComments
// (deeper) entries in original order.
//
// The result never shares slices with nodes: the full tree is still used
// for generation context.
func TrimComments(nodes []model.CommentNode, cfg config.FilterConfig) []model.CommentNode {
	return trimLevel(nodes, 0, cfg)
}

func trimLevel(nodes []model.CommentNode, level int, cfg config.FilterConfig) []model.CommentNode {
	if level > cfg.MaxCommentLevel {
		return nil
	}
	limit := cfg.MaxChildComments
	if level == 0 {
		limit = cfg.MaxRootComments
	}

	out := make([]model.CommentNode, 0, min(len(nodes), max(limit, 0)))
	for _, n := range nodes {
		if len(out) >= limit {
			break
		}
		if n.Level > cfg.MaxCommentLevel {
			continue
		}
		out = append(out, model.CommentNode{
			ID:       n.ID,
			Author:   n.Author,
			Text:     n.Text,
			Level:    n.Level,
			Children: trimLevel(n.Children, level+1, cfg),
		})
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
