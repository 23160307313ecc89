package model

import "time"

// Post is public when GroupID is nil; otherwise only members of the group
// may see it.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:200;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tags      []string  `gorm:"serializer:json;type:text" json:"tags"`
	Course    string    `gorm:"size:20;index" json:"course,omitempty"`
	Code      string    `gorm:"type:text" json:"code,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	GroupID   *uint     `gorm:"index" json:"group_id"`
	Author    User      `gorm:"foreignKey:UserID" json:"-"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Post) IsPublic() bool {
	return p.GroupID == nil
}
