package model

import "time"

type Group struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName avoids GROUPS, which is reserved in MySQL 8.
func (Group) TableName() string {
	return "study_groups"
}

// GroupMember is the membership join row. The creator is inserted as the
// first member when the group is created.
type GroupMember struct {
	ID        uint      `gorm:"primaryKey"`
	GroupID   uint      `gorm:"not null;uniqueIndex:uk_group_user"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:uk_group_user"`
	CreatedAt time.Time
}

func (GroupMember) TableName() string {
	return "group_members"
}
