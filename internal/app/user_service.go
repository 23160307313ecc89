package app

import (
	"context"

	"studyboard/internal/model"
	"studyboard/internal/repository"
)

type UserService struct {
	userRepo *repository.UserRepository
	posts    *PostService
}

// UserProfile is a public user view with the posts the viewer may see.
type UserProfile struct {
	User  *model.User
	Posts []model.Post
}

func NewUserService(userRepo *repository.UserRepository, posts *PostService) *UserService {
	return &UserService{userRepo: userRepo, posts: posts}
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

func (s *UserService) Get(ctx context.Context, id uint, viewer *model.User) (*UserProfile, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	posts, err := s.posts.ListVisibleByUser(ctx, user.ID, viewer)
	if err != nil {
		return nil, err
	}
	return &UserProfile{User: user, Posts: posts}, nil
}

func (s *UserService) ListPosts(ctx context.Context, id uint, viewer *model.User) ([]model.Post, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return s.posts.ListVisibleByUser(ctx, user.ID, viewer)
}
