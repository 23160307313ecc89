package model

import "time"

const (
	AuditUserRegistered  = "user.registered"
	AuditLoginSucceeded  = "auth.login"
	AuditLoginFailed     = "auth.login_failed"
	AuditPasswordChanged = "auth.password_changed"
	AuditPostCreated     = "post.created"
	AuditPostDeleted     = "post.deleted"
	AuditCommentCreated  = "comment.created"
	AuditCourseCreated   = "course.created"
	AuditCourseDeleted   = "course.deleted"
	AuditGroupCreated    = "group.created"
	AuditGroupUpdated    = "group.updated"
	AuditGroupDeleted    = "group.deleted"
	AuditMemberAdded     = "group.member_added"
	AuditMemberRemoved   = "group.member_removed"
	AuditAccessDenied    = "access.denied"
)

type AuditEvent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Type       string    `gorm:"size:64;not null;index" json:"type"`
	ActorID    *uint     `gorm:"index" json:"actor_id,omitempty"`
	Resource   string    `gorm:"size:32" json:"resource,omitempty"`
	ResourceID uint      `json:"resource_id,omitempty"`
	Detail     string    `gorm:"size:255" json:"detail,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
