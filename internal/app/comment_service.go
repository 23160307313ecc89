package app

import (
	"context"
	"log/slog"

	"studyboard/internal/access"
	"studyboard/internal/model"
	"studyboard/internal/pkg/validation"
	"studyboard/internal/repository"
)

type CommentService struct {
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	policy      *access.Policy
	audit       *Auditor
	logger      *slog.Logger
}

type CreateCommentInput struct {
	PostID  uint
	Content string
}

func NewCommentService(commentRepo *repository.CommentRepository, postRepo *repository.PostRepository, policy *access.Policy, audit *Auditor, logger *slog.Logger) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		policy:      policy,
		audit:       audit,
		logger:      logger,
	}
}

func (s *CommentService) Create(ctx context.Context, author *model.User, input CreateCommentInput) (*model.Comment, error) {
	if author == nil {
		return nil, ErrAuthRequired
	}
	if input.PostID == 0 {
		return nil, newError(ErrInvalidInput, "content and post_id are required")
	}
	post, err := s.postRepo.GetByID(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if err := validation.Length("comment", input.Content, 1, 5000); err != nil {
		return nil, invalidInput(err)
	}

	d, err := s.policy.CanComment(ctx, author, post)
	if err != nil {
		return nil, err
	}
	if !d.Allowed() {
		return nil, s.audit.Deny(ctx, author, "post", post.ID, d)
	}

	comment := &model.Comment{
		Content: input.Content,
		UserID:  author.ID,
		PostID:  post.ID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *author

	s.logger.Info("comment added", "comment_id", comment.ID, "post_id", post.ID, "user_id", author.ID)
	s.audit.Record(ctx, model.AuditCommentCreated, author, "comment", comment.ID, "")
	return comment, nil
}

// ListByPost returns the post's comments oldest first. Comments on a group
// post are only listed for members of that group.
func (s *CommentService) ListByPost(ctx context.Context, viewer *model.User, postID uint) ([]model.Comment, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	d, err := s.policy.CanListComments(ctx, viewer, post)
	if err != nil {
		return nil, err
	}
	if !d.Allowed() {
		return nil, s.audit.Deny(ctx, viewer, "post", post.ID, d)
	}
	return s.commentRepo.ListByPost(ctx, post.ID)
}
