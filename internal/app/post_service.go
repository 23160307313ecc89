package app

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"studyboard/internal/access"
	"studyboard/internal/model"
	"studyboard/internal/pkg/validation"
	"studyboard/internal/repository"
)

type PostService struct {
	postRepo  *repository.PostRepository
	groupRepo *repository.GroupRepository
	policy    *access.Policy
	audit     *Auditor
	logger    *slog.Logger
}

type CreatePostInput struct {
	Title   string
	Content string
	Tags    []string
	Course  string
	Code    string
	GroupID *uint
}

func NewPostService(postRepo *repository.PostRepository, groupRepo *repository.GroupRepository, policy *access.Policy, audit *Auditor, logger *slog.Logger) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		policy:    policy,
		audit:     audit,
		logger:    logger,
	}
}

// ListVisible returns every post the viewer may see, oldest first.
// viewer may be nil.
func (s *PostService) ListVisible(ctx context.Context, viewer *model.User) ([]model.Post, error) {
	posts, err := s.postRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.filter(ctx, posts, viewer)
}

// ListVisibleByUser is the author's posts as seen by viewer.
func (s *PostService) ListVisibleByUser(ctx context.Context, authorID uint, viewer *model.User) ([]model.Post, error) {
	posts, err := s.postRepo.ListByUser(ctx, authorID)
	if err != nil {
		return nil, err
	}
	return s.filter(ctx, posts, viewer)
}

func (s *PostService) Get(ctx context.Context, id uint, viewer *model.User) (*model.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	d, err := s.policy.CanViewPost(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !d.Allowed() {
		return nil, s.audit.Deny(ctx, viewer, "post", post.ID, d)
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, author *model.User, input CreatePostInput) (*model.Post, error) {
	if author == nil {
		return nil, ErrAuthRequired
	}
	title := strings.TrimSpace(input.Title)
	if err := validation.Length("title", title, 1, 200); err != nil {
		return nil, invalidInput(err)
	}
	if err := validation.Length("content", input.Content, 1, 50000); err != nil {
		return nil, invalidInput(err)
	}
	course := strings.ToUpper(strings.TrimSpace(input.Course))
	if err := validation.Length("course", course, 0, 20); err != nil {
		return nil, invalidInput(err)
	}

	var group *model.Group
	var groupID uint
	if input.GroupID != nil && *input.GroupID != 0 {
		groupID = *input.GroupID
		g, err := s.groupRepo.GetByID(ctx, groupID)
		if err != nil {
			return nil, err
		}
		if g == nil {
			return nil, ErrGroupNotFound
		}
		group = g
	}

	d, err := s.policy.CanCreatePost(ctx, author, group)
	if err != nil {
		return nil, err
	}
	if !d.Allowed() {
		return nil, s.audit.Deny(ctx, author, "group", groupID, d)
	}

	post := &model.Post{
		Title:   title,
		Content: input.Content,
		Tags:    cleanTags(input.Tags),
		Course:  course,
		Code:    input.Code,
		UserID:  author.ID,
	}
	if group != nil {
		post.GroupID = &group.ID
		post.Group = group
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	post.Author = *author

	s.logger.Info("post created", "post_id", post.ID, "user_id", author.ID, "group_id", post.GroupID)
	s.audit.Record(ctx, model.AuditPostCreated, author, "post", post.ID, "")
	return post, nil
}

func (s *PostService) Delete(ctx context.Context, requester *model.User, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	if d := s.policy.CanDeletePost(requester, post); !d.Allowed() {
		return s.audit.Deny(ctx, requester, "post", post.ID, d)
	}
	if err := s.postRepo.DeleteWithComments(ctx, post.ID); err != nil {
		return err
	}

	s.logger.Info("post deleted", "post_id", post.ID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditPostDeleted, requester, "post", post.ID, "")
	return nil
}

// ListByGroup returns the group's posts newest first, for members only.
func (s *PostService) ListByGroup(ctx context.Context, requester *model.User, groupID uint) (*model.Group, []model.Post, error) {
	group, err := s.groupRepo.GetByID(ctx, groupID)
	if err != nil {
		return nil, nil, err
	}
	if group == nil {
		return nil, nil, ErrGroupNotFound
	}

	d, err := s.policy.CanReadGroupPosts(ctx, requester, group)
	if err != nil {
		return nil, nil, err
	}
	if !d.Allowed() {
		return nil, nil, s.audit.Deny(ctx, requester, "group", group.ID, d)
	}

	posts, err := s.postRepo.ListByGroup(ctx, group.ID)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("group posts fetched", "group_id", group.ID, "user_id", requester.ID, "count", len(posts))
	return group, posts, nil
}

// filter builds the viewer's membership set fresh and applies it.
func (s *PostService) filter(ctx context.Context, posts []model.Post, user *model.User) ([]model.Post, error) {
	var viewer *access.Viewer
	if user != nil {
		ids, err := s.groupRepo.GroupIDsForUser(ctx, user.ID)
		if err != nil {
			return nil, err
		}
		viewer = access.NewViewer(user.ID, ids)
	}
	visible := slices.Collect(access.FilterVisiblePosts(slices.Values(posts), viewer))
	if visible == nil {
		visible = []model.Post{}
	}
	return visible, nil
}

func cleanTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
