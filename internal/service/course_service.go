package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

type courseRepository interface {
	Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error)
	Enroll(ctx context.Context, courseID int64) (*models.Course, error)
	Detail(ctx context.Context, courseID int64) (*models.CourseDetail, error)
	Structure(ctx context.Context, courseID int64) (*models.CourseStructure, error)
}

type courseProgressReader interface {
	ByCourse(ctx context.Context, courseID int64) (*models.ProgressSnapshot, error)
}

type courseTestLister interface {
	ListByCourse(ctx context.Context, courseID int64) ([]models.TestSummary, error)
}

// CourseService loads course pages and enrolls the caller.
type CourseService struct {
	courses   courseRepository
	progress  courseProgressReader
	tests     courseTestLister
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs the service.
func NewCourseService(courses courseRepository, progress courseProgressReader, tests courseTestLister, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, progress: progress, tests: tests, validator: validate, logger: logger}
}

// Load fetches detail, structure, progress and tests in parallel.
func (s *CourseService) Load(ctx context.Context, courseID int64) (*dto.CoursePage, error) {
	var (
		detail    *models.CourseDetail
		structure *models.CourseStructure
		progress  *models.ProgressSnapshot
		tests     []models.TestSummary
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) {
			detail, err = s.courses.Detail(ctx, courseID)
			return err
		},
		func(ctx context.Context) (err error) {
			structure, err = s.courses.Structure(ctx, courseID)
			return err
		},
		func(ctx context.Context) (err error) {
			progress, err = s.progress.ByCourse(ctx, courseID)
			return err
		},
		func(ctx context.Context) (err error) {
			tests, err = s.tests.ListByCourse(ctx, courseID)
			return err
		},
	)
	if err != nil {
		s.logger.Warn("course load failed", zap.Int64("course_id", courseID), zap.Error(err))
		return nil, pageError("the course", err)
	}

	return &dto.CoursePage{
		Course:    *detail,
		Structure: *structure,
		Progress:  *progress,
		Percent:   view.Percent(progress.CompletedLessonsCount, progress.TotalLessonsCount),
		Tests:     nonNil(tests),
	}, nil
}

// Enroll signs the caller up for a course.
func (s *CourseService) Enroll(ctx context.Context, courseID int64) (*models.Course, error) {
	course, err := s.courses.Enroll(ctx, courseID)
	if err != nil {
		return nil, withMessage(err, "Could not enroll in the course.")
	}
	return course, nil
}

// Create publishes a course on behalf of a teacher.
func (s *CourseService) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course")
	}
	course, err := s.courses.Create(ctx, req)
	if err != nil {
		return nil, withMessage(err, "Could not create the course.")
	}
	return course, nil
}
