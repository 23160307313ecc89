package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"studyboard/internal/access"
	"studyboard/internal/logging"
	"studyboard/internal/model"
	"studyboard/internal/pkg/credential"
	"studyboard/internal/pkg/jwtutil"
	"studyboard/internal/repository"
	"studyboard/internal/testutil"
)

const testPassword = "Passw0rdX"

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.AuditEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e model.AuditEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) snapshot() []model.AuditEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.AuditEvent(nil), p.events...)
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	users     *repository.UserRepository
	groupRepo *repository.GroupRepository
	tokens    *jwtutil.Service
	events    *recordingPublisher

	auth     *AuthService
	gate     *Authenticator
	posts    *PostService
	comments *CommentService
	courses  *CourseService
	groups   *GroupService
	people   *UserService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	logger := logging.Discard()

	users := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	groupRepo := repository.NewGroupRepository(db)

	events := &recordingPublisher{}
	audit := NewAuditor(events, logger)
	policy := access.NewPolicy(groupRepo)
	tokens := jwtutil.NewService("test-secret", time.Hour)
	hasher := credential.NewHasher(4)

	posts := NewPostService(postRepo, groupRepo, policy, audit, logger)
	return &fixture{
		users:     users,
		groupRepo: groupRepo,
		tokens:    tokens,
		events:    events,
		auth:      NewAuthService(users, hasher, tokens, audit, logger),
		gate:      NewAuthenticator(tokens, users, logger),
		posts:     posts,
		comments:  NewCommentService(commentRepo, postRepo, policy, audit, logger),
		courses:   NewCourseService(courseRepo, nil, policy, audit, logger),
		groups:    NewGroupService(groupRepo, users, policy, audit, logger),
		people:    NewUserService(users, posts),
	}
}

func (f *fixture) register(t *testing.T, username string) (*model.User, string) {
	t.Helper()
	res, err := f.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	return res.User, res.Token
}

func (f *fixture) group(t *testing.T, creator *model.User, name string) *model.Group {
	t.Helper()
	detail, err := f.groups.Create(context.Background(), creator, CreateGroupInput{Name: name})
	require.NoError(t, err)
	return detail.Group
}

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }
