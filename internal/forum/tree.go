package forum

import (
	"time"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// CommentNode is one comment in an assembled thread.
type CommentNode struct {
	ID                uint           `json:"id"`
	PostID            uint           `json:"post_id"`
	UserID            uint           `json:"user_id"`
	ParentID          *uint          `json:"parent_id"`
	Text              string         `json:"text"`
	HTML              string         `json:"html,omitempty"`
	ContainsProfanity bool           `json:"contains_profanity"`
	CreatedOn         time.Time      `json:"created_on"`
	Upvotes           int64          `json:"upvotes"`
	Replies           []*CommentNode `json:"replies"`
}

// Anomaly reasons reported for comments left out of a tree.
const (
	ReasonMissingParent    = "missing_parent"
	ReasonForeignParent    = "parent_in_other_post"
	ReasonOrphanedAncestor = "orphaned_ancestor"
	ReasonCycle            = "parent_cycle"
	ReasonDuplicate        = "duplicate_id"
	ReasonForeignComment   = "comment_in_other_post"
)

// Anomaly describes a comment that could not be placed in its post's tree.
type Anomaly struct {
	CommentID uint
	ParentID  uint
	Reason    string
}

// Assembler builds comment forests. The zero value is ready to use.
type Assembler struct {
	// Render, when set, fills CommentNode.HTML at construction time.
	Render func(text string) string
}

// Build turns the flat comment set of one post into a forest.
//
// Every comment is indexed by id before any attachment, so the result does not
// depend on input order. Siblings keep their relative input order. Comments
// that cannot be reached from a root are returned as anomalies and left out;
// they are never promoted to roots.
func (a Assembler) Build(postID uint, comments []models.Comment, upvotes map[uint]int64) ([]*CommentNode, []Anomaly) {
	var anomalies []Anomaly

	index := make(map[uint]*CommentNode, len(comments))
	ordered := make([]*CommentNode, 0, len(comments))
	for _, c := range comments {
		if c.PostID != postID {
			anomalies = append(anomalies, Anomaly{CommentID: c.ID, ParentID: deref(c.ParentID), Reason: ReasonForeignComment})
			continue
		}
		if _, seen := index[c.ID]; seen {
			anomalies = append(anomalies, Anomaly{CommentID: c.ID, ParentID: deref(c.ParentID), Reason: ReasonDuplicate})
			continue
		}
		node := a.newNode(c, upvotes[c.ID])
		index[c.ID] = node
		ordered = append(ordered, node)
	}

	roots := make([]*CommentNode, 0)
	attached := make(map[uint]bool, len(ordered))
	for _, node := range ordered {
		if node.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := index[*node.ParentID]
		if !ok {
			anomalies = append(anomalies, Anomaly{CommentID: node.ID, ParentID: *node.ParentID, Reason: missingReason(*node.ParentID, comments)})
			continue
		}
		parent.Replies = append(parent.Replies, node)
		attached[node.ID] = true
	}

	// Attached nodes that no root can reach hang under a dropped comment or sit in a cycle.
	reached := reachable(roots)
	for _, node := range ordered {
		if !attached[node.ID] || reached[node.ID] {
			continue
		}
		reason := ReasonOrphanedAncestor
		if inCycle(node, index) {
			reason = ReasonCycle
		}
		anomalies = append(anomalies, Anomaly{CommentID: node.ID, ParentID: *node.ParentID, Reason: reason})
	}

	return roots, anomalies
}

func (a Assembler) newNode(c models.Comment, upvotes int64) *CommentNode {
	node := &CommentNode{
		ID:                c.ID,
		PostID:            c.PostID,
		UserID:            c.UserID,
		ParentID:          c.ParentID,
		Text:              c.Text,
		ContainsProfanity: c.ContainsProfanity,
		CreatedOn:         c.CreatedOn,
		Upvotes:           upvotes,
		Replies:           []*CommentNode{},
	}
	if a.Render != nil {
		node.HTML = a.Render(c.Text)
	}
	return node
}

// missingReason distinguishes a parent that exists in another post from one that does not exist at all.
func missingReason(parentID uint, comments []models.Comment) string {
	for _, c := range comments {
		if c.ID == parentID {
			return ReasonForeignParent
		}
	}
	return ReasonMissingParent
}

// reachable walks the forest iteratively; thread depth is unbounded.
func reachable(roots []*CommentNode) map[uint]bool {
	seen := make(map[uint]bool)
	stack := append([]*CommentNode(nil), roots...)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[node.ID] {
			continue
		}
		seen[node.ID] = true
		stack = append(stack, node.Replies...)
	}
	return seen
}

// inCycle reports whether following parent links from node leads back to node.
func inCycle(node *CommentNode, index map[uint]*CommentNode) bool {
	visited := map[uint]bool{node.ID: true}
	cur := node
	for cur.ParentID != nil {
		next, ok := index[*cur.ParentID]
		if !ok {
			return false
		}
		if next == node {
			return true
		}
		if visited[next.ID] {
			return false
		}
		visited[next.ID] = true
		cur = next
	}
	return false
}

// CountNodes returns the number of nodes in a forest, nested replies included.
func CountNodes(roots []*CommentNode) int {
	return len(reachable(roots))
}

func deref(id *uint) uint {
	if id == nil {
		return 0
	}
	return *id
}
