package app

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"studyboard/internal/access"
	"studyboard/internal/model"
	"studyboard/internal/pkg/validation"
	"studyboard/internal/repository"
)

type GroupService struct {
	groupRepo *repository.GroupRepository
	userRepo  *repository.UserRepository
	policy    *access.Policy
	audit     *Auditor
	logger    *slog.Logger
}

type CreateGroupInput struct {
	Name        string
	Description string
}

// UpdateGroupInput leaves nil fields unchanged.
type UpdateGroupInput struct {
	Name        *string
	Description *string
}

// AddMemberInput adds the requester when UserID is nil.
type AddMemberInput struct {
	UserID *uint
}

// GroupDetail is a group with its current members.
type GroupDetail struct {
	Group   *model.Group
	Members []model.User
}

func NewGroupService(groupRepo *repository.GroupRepository, userRepo *repository.UserRepository, policy *access.Policy, audit *Auditor, logger *slog.Logger) *GroupService {
	return &GroupService{
		groupRepo: groupRepo,
		userRepo:  userRepo,
		policy:    policy,
		audit:     audit,
		logger:    logger,
	}
}

func (s *GroupService) List(ctx context.Context) ([]model.Group, error) {
	return s.groupRepo.List(ctx)
}

func (s *GroupService) Get(ctx context.Context, id uint) (*GroupDetail, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	return s.detail(ctx, group)
}

// ListForUser returns the groups userID belongs to.
func (s *GroupService) ListForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.groupRepo.ListForUser(ctx, user.ID)
}

func (s *GroupService) Create(ctx context.Context, creator *model.User, input CreateGroupInput) (*GroupDetail, error) {
	if creator == nil {
		return nil, ErrAuthRequired
	}
	name := strings.TrimSpace(input.Name)
	if err := validation.Length("group name", name, 1, 100); err != nil {
		return nil, invalidInput(err)
	}
	description := strings.TrimSpace(input.Description)
	if err := validation.Length("description", description, 0, 1000); err != nil {
		return nil, invalidInput(err)
	}

	group := &model.Group{
		Name:        name,
		Description: description,
		CreatorID:   creator.ID,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return nil, err
	}

	s.logger.Info("group created", "group_id", group.ID, "user_id", creator.ID)
	s.audit.Record(ctx, model.AuditGroupCreated, creator, "group", group.ID, "")
	return s.detail(ctx, group)
}

func (s *GroupService) Update(ctx context.Context, requester *model.User, id uint, input UpdateGroupInput) (*GroupDetail, error) {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	if d := s.policy.CanManageGroup(requester, group); !d.Allowed() {
		return nil, s.audit.Deny(ctx, requester, "group", group.ID, d)
	}

	fields := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if err := validation.Length("group name", name, 1, 100); err != nil {
			return nil, invalidInput(err)
		}
		fields["name"] = name
		group.Name = name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if err := validation.Length("description", description, 0, 1000); err != nil {
			return nil, invalidInput(err)
		}
		fields["description"] = description
		group.Description = description
	}
	if err := s.groupRepo.Update(ctx, group.ID, fields); err != nil {
		return nil, err
	}

	s.logger.Info("group updated", "group_id", group.ID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditGroupUpdated, requester, "group", group.ID, "")
	return s.detail(ctx, group)
}

// Delete removes the group together with its memberships, posts and their
// comments.
func (s *GroupService) Delete(ctx context.Context, requester *model.User, id uint) error {
	group, err := s.groupRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if group == nil {
		return ErrGroupNotFound
	}
	if d := s.policy.CanManageGroup(requester, group); !d.Allowed() {
		return s.audit.Deny(ctx, requester, "group", group.ID, d)
	}

	if err := s.groupRepo.DeleteCascade(ctx, group.ID); err != nil {
		return err
	}
	s.logger.Info("group deleted", "group_id", group.ID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditGroupDeleted, requester, "group", group.ID, "")
	return nil
}

func (s *GroupService) AddMember(ctx context.Context, requester *model.User, groupID uint, input AddMemberInput) (*GroupDetail, error) {
	if requester == nil {
		return nil, ErrAuthRequired
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}

	targetID := requester.ID
	if input.UserID != nil {
		targetID = *input.UserID
	}
	if d := s.policy.CanAddMember(requester, group, targetID); !d.Allowed() {
		return nil, s.audit.Deny(ctx, requester, "group", group.ID, d)
	}

	if targetID != requester.ID {
		target, err := s.userRepo.GetByID(ctx, targetID)
		if err != nil {
			return nil, err
		}
		if target == nil {
			return nil, ErrUserNotFound
		}
	}

	member, err := s.groupRepo.IsMember(ctx, group.ID, targetID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}
	if err := s.groupRepo.AddMember(ctx, group.ID, targetID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}

	s.logger.Info("member added", "group_id", group.ID, "member_id", targetID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditMemberAdded, requester, "group", group.ID, memberDetail(targetID))
	return s.detail(ctx, group)
}

// RemoveMember checks, in order: group and user exist, requester may remove
// the target, the creator is not leaving others behind, the target is a
// member.
func (s *GroupService) RemoveMember(ctx context.Context, requester *model.User, groupID, targetID uint) (*GroupDetail, error) {
	if requester == nil {
		return nil, ErrAuthRequired
	}
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, ErrGroupNotFound
	}
	target, err := s.userRepo.GetByID(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	d, err := s.policy.CanRemoveMember(ctx, requester, group, target.ID)
	if err != nil {
		return nil, err
	}
	if !d.Allowed() {
		return nil, s.audit.Deny(ctx, requester, "group", group.ID, d)
	}

	member, err := s.groupRepo.IsMember(ctx, group.ID, target.ID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, ErrNotMember
	}
	if err := s.groupRepo.RemoveMember(ctx, group.ID, target.ID); err != nil {
		return nil, err
	}

	s.logger.Info("member removed", "group_id", group.ID, "member_id", target.ID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditMemberRemoved, requester, "group", group.ID, memberDetail(target.ID))
	return s.detail(ctx, group)
}

func (s *GroupService) detail(ctx context.Context, group *model.Group) (*GroupDetail, error) {
	members, err := s.groupRepo.ListMembers(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	return &GroupDetail{Group: group, Members: members}, nil
}

func memberDetail(userID uint) string {
	return "member=" + strconv.FormatUint(uint64(userID), 10)
}
