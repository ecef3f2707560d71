package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
	"github.com/noah-isme/lms-student-client/pkg/export"
)

type gradeLister interface {
	ListMine(ctx context.Context) ([]models.GradeItem, error)
}

type reportStorage interface {
	Save(name string, data []byte) (string, error)
}

// GradeService loads the grades page.
type GradeService struct {
	grades gradeLister
	logger *zap.Logger
}

// NewGradeService constructs the service.
func NewGradeService(grades gradeLister, logger *zap.Logger) *GradeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, logger: logger}
}

// Load returns the latest grade per assignment.
func (s *GradeService) Load(ctx context.Context) (*dto.GradesPage, error) {
	items, err := s.grades.ListMine(ctx)
	if err != nil {
		s.logger.Warn("grades load failed", zap.Error(err))
		return nil, pageError("your grades", err)
	}
	return &dto.GradesPage{Items: nonNil(items)}, nil
}

// ReportService renders grades and deadlines to CSV or PDF files.
type ReportService struct {
	grades    gradeLister
	deadlines deadlineLister
	storage   reportStorage
	logger    *zap.Logger
	now       func() time.Time
}

// NewReportService constructs the service.
func NewReportService(grades gradeLister, deadlines deadlineLister, storage reportStorage, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{grades: grades, deadlines: deadlines, storage: storage, logger: logger, now: time.Now}
}

// ExportGrades writes the grade report.
func (s *ReportService) ExportGrades(ctx context.Context, format export.Format) (*dto.ReportFile, error) {
	items, err := s.grades.ListMine(ctx)
	if err != nil {
		return nil, pageError("your grades", err)
	}

	table := export.NewTable("Grades", "Course", "Assignment", "Status", "Attempt", "Score", "Submitted", "Checked", "Teacher comment")
	for _, item := range items {
		attempt := ""
		if item.AttemptNumber != nil {
			attempt = strconv.Itoa(*item.AttemptNumber)
		}
		comment := ""
		if item.TeacherComment != nil {
			comment = *item.TeacherComment
		}
		table.AddRow(
			item.CourseTitle,
			item.AssignmentTitle,
			view.SubmissionStatus(item.Status),
			attempt,
			view.Score(item.Score, item.MaxScore),
			view.DateTime(item.SubmittedAt),
			view.DateTime(item.CheckedAt),
			comment,
		)
	}
	return s.write("grades", format, table)
}

// ExportDeadlines writes the deadline report for the optional window.
func (s *ReportService) ExportDeadlines(ctx context.Context, filter models.DeadlineFilter, format export.Format) (*dto.ReportFile, error) {
	items, err := s.deadlines.ListMine(ctx, filter)
	if err != nil {
		return nil, pageError("the deadline calendar", err)
	}

	table := export.NewTable("Deadlines", "Course", "Lesson", "Assignment", "Due", "Status", "Severity", "Days left")
	for _, row := range deadlineRows(items) {
		lesson := ""
		if row.Item.LessonTitle != nil {
			lesson = *row.Item.LessonTitle
		}
		table.AddRow(
			row.Item.CourseTitle,
			lesson,
			row.Item.AssignmentTitle,
			row.DueText,
			row.StatusLabel,
			row.SeverityLabel,
			row.DaysLeftText,
		)
	}
	return s.write("deadlines", format, table)
}

func (s *ReportService) write(kind string, format export.Format, table *export.Table) (*dto.ReportFile, error) {
	renderer, err := export.RendererFor(format)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render %s report: %w", kind, err)
	}

	filename := fmt.Sprintf("%s_%s.%s", kind, s.now().Format("20060102_150405"), format)
	path, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, fmt.Errorf("store %s report: %w", kind, err)
	}
	s.logger.Info("report exported", zap.String("kind", kind), zap.String("format", string(format)), zap.String("path", path), zap.Int("rows", len(table.Rows)))
	return &dto.ReportFile{Path: path, Format: string(format), Rows: len(table.Rows)}, nil
}
