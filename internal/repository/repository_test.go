package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studyboard/internal/model"
	"studyboard/internal/testutil"
)

func uintPtr(v uint) *uint { return &v }

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x", IsActive: true}
	require.NoError(t, repo.Create(ctx, u))
	require.NotZero(t, u.ID)

	err := repo.Create(ctx, &model.User{Username: "alice", Email: "other@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, ErrDuplicate)

	got, err := repo.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.UpdateEmail(ctx, u.ID, "a@example.com"))
	at := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, repo.TouchLastLogin(ctx, u.ID, at))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", got.Email)
	require.NotNil(t, got.LastLogin)
	assert.True(t, at.Equal(got.LastLogin.UTC()))
}

func TestPostRepository_OrderAndCascade(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	author := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, author))

	first := &model.Post{Title: "one", Content: "c", Tags: []string{"go"}, UserID: author.ID}
	second := &model.Post{Title: "two", Content: "c", UserID: author.ID}
	require.NoError(t, posts.Create(ctx, first))
	require.NoError(t, posts.Create(ctx, second))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "hi", UserID: author.ID, PostID: first.ID}))

	all, err := posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, []string{"go"}, all[0].Tags)
	assert.Equal(t, "alice", all[0].Author.Username)

	require.NoError(t, posts.DeleteWithComments(ctx, first.ID))

	gone, err := posts.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	left, err := comments.ListByPost(ctx, first.ID)
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestCourseRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Course{Code: "MATH200"}))
	cs := &model.Course{Code: "CS101"}
	require.NoError(t, repo.Create(ctx, cs))
	assert.ErrorIs(t, repo.Create(ctx, &model.Course{Code: "CS101"}), ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "CS101", list[0].Code)

	got, err := repo.GetByCode(ctx, "CS101")
	require.NoError(t, err)
	require.NotNil(t, got)

	require.NoError(t, repo.Delete(ctx, cs.ID))
	got, err = repo.GetByID(ctx, cs.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGroupRepository_Membership(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)
	ctx := context.Background()

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	bob := &model.User{Username: "bob", Email: "bob@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, alice))
	require.NoError(t, users.Create(ctx, bob))

	g := &model.Group{Name: "study", CreatorID: alice.ID}
	require.NoError(t, groups.Create(ctx, g))

	ok, err := groups.IsMember(ctx, g.ID, alice.ID)
	require.NoError(t, err)
	assert.True(t, ok, "creator joins on create")

	require.NoError(t, groups.AddMember(ctx, g.ID, bob.ID))
	assert.ErrorIs(t, groups.AddMember(ctx, g.ID, bob.ID), ErrDuplicate)

	n, err := groups.CountMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	members, err := groups.ListMembers(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "alice", members[0].Username)

	ids, err := groups.GroupIDsForUser(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{g.ID}, ids)

	mine, err := groups.ListForUser(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "study", mine[0].Name)

	require.NoError(t, groups.RemoveMember(ctx, g.ID, bob.ID))
	ok, err = groups.IsMember(ctx, g.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGroupRepository_DeleteCascade(t *testing.T) {
	db := testutil.NewDB(t)
	users := NewUserRepository(db)
	groups := NewGroupRepository(db)
	posts := NewPostRepository(db)
	comments := NewCommentRepository(db)
	ctx := context.Background()

	alice := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(ctx, alice))
	g := &model.Group{Name: "study", CreatorID: alice.ID}
	require.NoError(t, groups.Create(ctx, g))

	inGroup := &model.Post{Title: "g", Content: "c", UserID: alice.ID, GroupID: uintPtr(g.ID)}
	public := &model.Post{Title: "p", Content: "c", UserID: alice.ID}
	require.NoError(t, posts.Create(ctx, inGroup))
	require.NoError(t, posts.Create(ctx, public))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "x", UserID: alice.ID, PostID: inGroup.ID}))
	require.NoError(t, comments.Create(ctx, &model.Comment{Content: "y", UserID: alice.ID, PostID: public.ID}))

	require.NoError(t, groups.DeleteCascade(ctx, g.ID))

	got, err := groups.GetByID(ctx, g.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	all, err := posts.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, public.ID, all[0].ID)

	kept, err := comments.ListByPost(ctx, public.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)

	dropped, err := comments.ListByPost(ctx, inGroup.ID)
	require.NoError(t, err)
	assert.Empty(t, dropped)

	n, err := groups.CountMembers(ctx, g.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAuditEventRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewAuditEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.AuditEvent{Type: model.AuditLoginSucceeded}))
	require.NoError(t, repo.Create(ctx, &model.AuditEvent{Type: model.AuditPostCreated}))

	events, err := repo.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, model.AuditPostCreated, events[0].Type)
}
