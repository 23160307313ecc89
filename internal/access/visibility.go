package access

import (
	"iter"

	"studyboard/internal/model"
)

// Viewer is a resolved identity plus the groups it belongs to at the time of
// the request. A nil *Viewer is anonymous.
type Viewer struct {
	UserID uint
	groups map[uint]struct{}
}

func NewViewer(userID uint, groupIDs []uint) *Viewer {
	groups := make(map[uint]struct{}, len(groupIDs))
	for _, id := range groupIDs {
		groups[id] = struct{}{}
	}
	return &Viewer{UserID: userID, groups: groups}
}

func (v *Viewer) IsMember(groupID uint) bool {
	if v == nil {
		return false
	}
	_, ok := v.groups[groupID]
	return ok
}

// CanSee reports whether viewer may read post.
func CanSee(post *model.Post, viewer *Viewer) bool {
	if post.GroupID == nil {
		return true
	}
	return viewer.IsMember(*post.GroupID)
}

// FilterVisiblePosts yields the posts viewer may see, in input order. The
// sequence is lazy and can be ranged over again as long as posts can.
func FilterVisiblePosts(posts iter.Seq[model.Post], viewer *Viewer) iter.Seq[model.Post] {
	return func(yield func(model.Post) bool) {
		for post := range posts {
			if !CanSee(&post, viewer) {
				continue
			}
			if !yield(post) {
				return
			}
		}
	}
}
