package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

type lessonReader interface {
	Get(ctx context.Context, lessonID int64) (*models.LessonWithAssignment, error)
}

type structureReader interface {
	Structure(ctx context.Context, courseID int64) (*models.CourseStructure, error)
}

// LessonService loads lesson pages.
type LessonService struct {
	lessons    lessonReader
	structures structureReader
	logger     *zap.Logger
}

// NewLessonService constructs the service.
func NewLessonService(lessons lessonReader, structures structureReader, logger *zap.Logger) *LessonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LessonService{lessons: lessons, structures: structures, logger: logger}
}

// Load fetches the lesson. With a non-zero courseID the course structure is
// fetched alongside to find the previous and next lessons.
func (s *LessonService) Load(ctx context.Context, lessonID, courseID int64) (*dto.LessonPage, error) {
	var (
		lesson    *models.LessonWithAssignment
		structure *models.CourseStructure
	)
	loaders := []func(context.Context) error{
		func(ctx context.Context) (err error) {
			lesson, err = s.lessons.Get(ctx, lessonID)
			return err
		},
	}
	if courseID > 0 {
		loaders = append(loaders, func(ctx context.Context) (err error) {
			structure, err = s.structures.Structure(ctx, courseID)
			return err
		})
	}
	if err := loadAll(ctx, loaders...); err != nil {
		s.logger.Warn("lesson load failed", zap.Int64("lesson_id", lessonID), zap.Error(err))
		return nil, pageError("the lesson", err)
	}

	page := &dto.LessonPage{
		Lesson:     lesson.Lesson,
		Assignment: lesson.Assignment,
		Text:       view.HTMLToText(lesson.Lesson.ContentHTML),
	}
	if structure != nil {
		page.Previous, page.Next = structure.Neighbours(lessonID)
	}
	return page, nil
}
