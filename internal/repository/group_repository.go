package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studyboard/internal/model"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create inserts the group and its creator's membership row together.
func (r *GroupRepository) Create(ctx context.Context, group *model.Group) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		return tx.Create(&model.GroupMember{GroupID: group.ID, UserID: group.CreatorID}).Error
	})
	if err != nil {
		return fmt.Errorf("create group failed: %w", err)
	}
	return nil
}

func (r *GroupRepository) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query group by id failed: %w", err)
	}
	return &group, nil
}

func (r *GroupRepository) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&groups).Error; err != nil {
		return nil, fmt.Errorf("list groups failed: %w", err)
	}
	return groups, nil
}

func (r *GroupRepository) ListForUser(ctx context.Context, userID uint) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.group_id = study_groups.id").
		Where("group_members.user_id = ?", userID).
		Order("study_groups.id ASC").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("list groups for user failed: %w", err)
	}
	return groups, nil
}

func (r *GroupRepository) Update(ctx context.Context, id uint, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Group{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update group failed: %w", err)
	}
	return nil
}

// DeleteCascade removes the group, its memberships, its posts and their
// comments in one transaction.
func (r *GroupRepository) DeleteCascade(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		postIDs := tx.Model(&model.Post{}).Select("id").Where("group_id = ?", id)
		if err := tx.Where("post_id IN (?)", postIDs).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("group_id = ?", id).Delete(&model.GroupMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Group{}, id).Error
	})
	if err != nil {
		return fmt.Errorf("delete group failed: %w", err)
	}
	return nil
}

func (r *GroupRepository) IsMember(ctx context.Context, groupID, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("group_id = ? AND user_id = ?", groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("query membership failed: %w", err)
	}
	return count > 0, nil
}

func (r *GroupRepository) CountMembers(ctx context.Context, groupID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.GroupMember{}).Where("group_id = ?", groupID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("count members failed: %w", err)
	}
	return count, nil
}

// AddMember returns ErrDuplicate when the user is already in the group.
func (r *GroupRepository) AddMember(ctx context.Context, groupID, userID uint) error {
	err := r.db.WithContext(ctx).Create(&model.GroupMember{GroupID: groupID, UserID: userID}).Error
	if err != nil {
		return fmt.Errorf("add member failed: %w", translate(err))
	}
	return nil
}

func (r *GroupRepository) RemoveMember(ctx context.Context, groupID, userID uint) error {
	err := r.db.WithContext(ctx).Where("group_id = ? AND user_id = ?", groupID, userID).Delete(&model.GroupMember{}).Error
	if err != nil {
		return fmt.Errorf("remove member failed: %w", err)
	}
	return nil
}

func (r *GroupRepository) ListMembers(ctx context.Context, groupID uint) ([]model.User, error) {
	var users []model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("group_members.id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list members failed: %w", err)
	}
	return users, nil
}

// GroupIDsForUser is the membership set used for post visibility.
func (r *GroupRepository) GroupIDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&model.GroupMember{}).
		Where("user_id = ?", userID).
		Pluck("group_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query user groups failed: %w", err)
	}
	return ids, nil
}
