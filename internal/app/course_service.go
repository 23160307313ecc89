package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"studyboard/internal/access"
	"studyboard/internal/model"
	"studyboard/internal/pkg/validation"
	"studyboard/internal/repository"
)

// CourseCache is the shared course list cache. Errors are logged and the
// store is used instead.
type CourseCache interface {
	GetCourses(ctx context.Context) ([]model.Course, bool, error)
	SetCourses(ctx context.Context, courses []model.Course) error
	Invalidate(ctx context.Context) error
}

type CourseService struct {
	courseRepo *repository.CourseRepository
	cache      CourseCache
	policy     *access.Policy
	audit      *Auditor
	logger     *slog.Logger
}

type CreateCourseInput struct {
	Code string
	Name string
}

func NewCourseService(courseRepo *repository.CourseRepository, cache CourseCache, policy *access.Policy, audit *Auditor, logger *slog.Logger) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		cache:      cache,
		policy:     policy,
		audit:      audit,
		logger:     logger,
	}
}

func (s *CourseService) List(ctx context.Context) ([]model.Course, error) {
	if s.cache != nil {
		courses, ok, err := s.cache.GetCourses(ctx)
		if err != nil {
			s.logger.Warn("course cache read failed", "error", err)
		} else if ok {
			return courses, nil
		}
	}

	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCourses(ctx, courses); err != nil {
			s.logger.Warn("course cache write failed", "error", err)
		}
	}
	return courses, nil
}

// Create returns the existing course when the code is already known, so it
// doubles as "make sure this course exists". created reports which happened.
func (s *CourseService) Create(ctx context.Context, requester *model.User, input CreateCourseInput) (course *model.Course, created bool, err error) {
	if d := s.policy.CanCreateCourse(requester); !d.Allowed() {
		return nil, false, decisionError(d)
	}

	code := strings.TrimSpace(input.Code)
	if err := validation.CourseCode(code); err != nil {
		return nil, false, invalidInput(err)
	}
	code = strings.ToUpper(code)
	name := strings.TrimSpace(input.Name)
	if err := validation.Length("course name", name, 1, 100); err != nil {
		return nil, false, invalidInput(err)
	}

	existing, err := s.courseRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	course = &model.Course{Code: code, Name: name}
	if err := s.courseRepo.Create(ctx, course); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, false, ErrCourseExists
		}
		return nil, false, err
	}
	s.invalidate(ctx)

	s.logger.Info("course created", "code", course.Code, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditCourseCreated, requester, "course", course.ID, course.Code)
	return course, true, nil
}

func (s *CourseService) Delete(ctx context.Context, requester *model.User, id uint) error {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if course == nil {
		return ErrCourseNotFound
	}
	if d := s.policy.CanDeleteCourse(requester); !d.Allowed() {
		return decisionError(d)
	}

	if err := s.courseRepo.Delete(ctx, course.ID); err != nil {
		return err
	}
	s.invalidate(ctx)

	s.logger.Info("course deleted", "course_id", course.ID, "user_id", requester.ID)
	s.audit.Record(ctx, model.AuditCourseDeleted, requester, "course", course.ID, course.Code)
	return nil
}

func (s *CourseService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("course cache invalidate failed", "error", err)
	}
}
