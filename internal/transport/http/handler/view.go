package handler

import (
	"time"

	"studyboard/internal/app"
	"studyboard/internal/model"
)

type userView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// profileView is only ever shown to the account owner.
type profileView struct {
	ID        uint       `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type postView struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Course    string    `json:"course,omitempty"`
	Code      string    `json:"code,omitempty"`
	AuthorID  uint      `json:"author_id"`
	Author    string    `json:"author"`
	GroupID   *uint     `json:"group_id"`
	GroupName *string   `json:"group_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type commentView struct {
	ID        uint      `json:"id"`
	Content   string    `json:"content"`
	PostID    uint      `json:"post_id"`
	UserID    uint      `json:"user_id"`
	User      string    `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

type groupView struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatorID   uint       `json:"creator_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Members     []userView `json:"members,omitempty"`
	MemberCount *int       `json:"member_count,omitempty"`
}

func newUserView(u *model.User) userView {
	return userView{ID: u.ID, Username: u.Username, CreatedAt: u.CreatedAt}
}

func newUserViews(users []model.User) []userView {
	out := make([]userView, 0, len(users))
	for i := range users {
		out = append(out, newUserView(&users[i]))
	}
	return out
}

func newProfileView(u *model.User) profileView {
	return profileView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

func newPostView(p *model.Post) postView {
	v := postView{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Tags:      p.Tags,
		Course:    p.Course,
		Code:      p.Code,
		AuthorID:  p.UserID,
		Author:    p.Author.Username,
		GroupID:   p.GroupID,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if v.Tags == nil {
		v.Tags = []string{}
	}
	if p.Group != nil {
		name := p.Group.Name
		v.GroupName = &name
	}
	return v
}

func newPostViews(posts []model.Post) []postView {
	out := make([]postView, 0, len(posts))
	for i := range posts {
		out = append(out, newPostView(&posts[i]))
	}
	return out
}

func newCommentView(c *model.Comment) commentView {
	return commentView{
		ID:        c.ID,
		Content:   c.Content,
		PostID:    c.PostID,
		UserID:    c.UserID,
		User:      c.Author.Username,
		CreatedAt: c.CreatedAt,
	}
}

func newGroupView(g *model.Group) groupView {
	return groupView{
		ID:          g.ID,
		Name:        g.Name,
		Description: g.Description,
		CreatorID:   g.CreatorID,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

func newGroupDetailView(d *app.GroupDetail) groupView {
	v := newGroupView(d.Group)
	v.Members = newUserViews(d.Members)
	n := len(d.Members)
	v.MemberCount = &n
	return v
}

func newGroupViews(groups []model.Group) []groupView {
	out := make([]groupView, 0, len(groups))
	for i := range groups {
		out = append(out, newGroupView(&groups[i]))
	}
	return out
}
