package access

import (
	"context"
	"fmt"

	"studyboard/internal/model"
)

// MembershipStore answers membership questions against live store state.
type MembershipStore interface {
	IsMember(ctx context.Context, groupID, userID uint) (bool, error)
	CountMembers(ctx context.Context, groupID uint) (int64, error)
}

// Policy evaluates per-resource rules. A nil requester is anonymous.
type Policy struct {
	members MembershipStore
}

func NewPolicy(members MembershipStore) *Policy {
	return &Policy{members: members}
}

func (p *Policy) CanDeletePost(requester *model.User, post *model.Post) Decision {
	if requester == nil {
		return loginRequired()
	}
	if post.UserID != requester.ID {
		return forbid("unauthorized to delete this post")
	}
	return permit()
}

// CanCreatePost permits public posts for any authenticated user; a group
// post additionally requires current membership of group.
func (p *Policy) CanCreatePost(ctx context.Context, requester *model.User, group *model.Group) (Decision, error) {
	if requester == nil {
		return loginRequired(), nil
	}
	if group == nil {
		return permit(), nil
	}
	ok, err := p.isMember(ctx, group.ID, requester.ID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return forbid("you must be a member of the group to post in it"), nil
	}
	return permit(), nil
}

func (p *Policy) CanViewPost(ctx context.Context, requester *model.User, post *model.Post) (Decision, error) {
	if post.IsPublic() {
		return permit(), nil
	}
	if requester == nil {
		return loginRequired(), nil
	}
	ok, err := p.isMember(ctx, *post.GroupID, requester.ID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return forbid("you must be a member of this group to view this post"), nil
	}
	return permit(), nil
}

// CanComment requires an identity that can also see the post, so comments on
// group posts stay inside the group.
func (p *Policy) CanComment(ctx context.Context, requester *model.User, post *model.Post) (Decision, error) {
	if requester == nil {
		return loginRequired(), nil
	}
	return p.CanViewPost(ctx, requester, post)
}

func (p *Policy) CanListComments(ctx context.Context, requester *model.User, post *model.Post) (Decision, error) {
	return p.CanViewPost(ctx, requester, post)
}

// CanCreateCourse has no ownership check: courses are a shared vocabulary.
func (p *Policy) CanCreateCourse(requester *model.User) Decision {
	if requester == nil {
		return loginRequired()
	}
	return permit()
}

// CanDeleteCourse lets any authenticated user delete any course.
func (p *Policy) CanDeleteCourse(requester *model.User) Decision {
	if requester == nil {
		return loginRequired()
	}
	return permit()
}

// CanManageGroup covers update and delete. Only the creator of record
// qualifies, whether or not they are still in the member set.
func (p *Policy) CanManageGroup(requester *model.User, group *model.Group) Decision {
	if requester == nil {
		return loginRequired()
	}
	if group.CreatorID != requester.ID {
		return forbid("only the group creator can modify the group")
	}
	return permit()
}

func (p *Policy) CanAddMember(requester *model.User, group *model.Group, targetID uint) Decision {
	if requester == nil {
		return loginRequired()
	}
	if targetID == requester.ID {
		return permit()
	}
	if group.CreatorID != requester.ID {
		return forbid("only the group creator can add other members")
	}
	return permit()
}

// CanRemoveMember lets the creator remove anyone and a member remove
// themselves. The creator cannot be removed while other members remain.
func (p *Policy) CanRemoveMember(ctx context.Context, requester *model.User, group *model.Group, targetID uint) (Decision, error) {
	if requester == nil {
		return loginRequired(), nil
	}
	if requester.ID != group.CreatorID && requester.ID != targetID {
		return forbid("you can only remove yourself or you must be the group creator"), nil
	}
	if targetID != group.CreatorID {
		return permit(), nil
	}

	others, err := p.othersThanCreator(ctx, group)
	if err != nil {
		return Decision{}, err
	}
	if others > 0 {
		return conflict("group creator cannot leave while other members exist; remove them or delete the group"), nil
	}
	return permit(), nil
}

func (p *Policy) CanReadGroupPosts(ctx context.Context, requester *model.User, group *model.Group) (Decision, error) {
	if requester == nil {
		return loginRequired(), nil
	}
	ok, err := p.isMember(ctx, group.ID, requester.ID)
	if err != nil {
		return Decision{}, err
	}
	if !ok {
		return forbid("you must be a member of this group to view its posts"), nil
	}
	return permit(), nil
}

func (p *Policy) isMember(ctx context.Context, groupID, userID uint) (bool, error) {
	ok, err := p.members.IsMember(ctx, groupID, userID)
	if err != nil {
		return false, fmt.Errorf("check membership failed: %w", err)
	}
	return ok, nil
}

func (p *Policy) othersThanCreator(ctx context.Context, group *model.Group) (int64, error) {
	total, err := p.members.CountMembers(ctx, group.ID)
	if err != nil {
		return 0, fmt.Errorf("count members failed: %w", err)
	}
	creatorIn, err := p.isMember(ctx, group.ID, group.CreatorID)
	if err != nil {
		return 0, err
	}
	if creatorIn {
		total--
	}
	return total, nil
}
