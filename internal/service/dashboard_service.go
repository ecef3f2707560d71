package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

const recentSubmissionsLimit = 5

type studentCourseLister interface {
	ListForStudent(ctx context.Context) (*models.StudentCourses, error)
}

type submissionLister interface {
	ListMine(ctx context.Context) ([]models.Submission, error)
}

type progressLister interface {
	ListMine(ctx context.Context) ([]models.ProgressSnapshot, error)
}

type feedLister interface {
	ListMine(ctx context.Context, limit int) ([]models.FeedItem, error)
}

// DashboardServiceParams bundles the dashboard dependencies.
type DashboardServiceParams struct {
	Courses     studentCourseLister
	Submissions submissionLister
	Progress    progressLister
	Feed        feedLister
	FeedLimit   int
	Logger      *zap.Logger
}

// DashboardService loads the student home page.
type DashboardService struct {
	courses     studentCourseLister
	submissions submissionLister
	progress    progressLister
	feed        feedLister
	feedLimit   int
	logger      *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		courses:     params.Courses,
		submissions: params.Submissions,
		progress:    params.Progress,
		feed:        params.Feed,
		feedLimit:   params.FeedLimit,
		logger:      logger,
	}
}

// Load fetches courses, submissions, progress and feed in parallel.
func (s *DashboardService) Load(ctx context.Context) (*dto.DashboardPage, error) {
	var (
		courses     *models.StudentCourses
		submissions []models.Submission
		progress    []models.ProgressSnapshot
		feed        []models.FeedItem
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) {
			courses, err = s.courses.ListForStudent(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			submissions, err = s.submissions.ListMine(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			progress, err = s.progress.ListMine(ctx)
			return err
		},
		func(ctx context.Context) (err error) {
			feed, err = s.feed.ListMine(ctx, s.feedLimit)
			return err
		},
	)
	if err != nil {
		s.logger.Warn("dashboard load failed", zap.Error(err))
		return nil, pageError("your courses", err)
	}

	byCourse := make(map[int64]models.ProgressSnapshot, len(progress))
	for _, p := range progress {
		byCourse[p.CourseID] = p
	}

	page := &dto.DashboardPage{
		Enrolled:          make([]dto.CourseCard, 0, len(courses.Enrolled)),
		Available:         nonNil(courses.Available),
		RecentSubmissions: nonNil(submissions),
		Feed:              nonNil(feed),
	}
	for _, course := range courses.Enrolled {
		p := byCourse[course.ID]
		page.Enrolled = append(page.Enrolled, dto.CourseCard{
			Course:    course,
			Completed: p.CompletedLessonsCount,
			Total:     p.TotalLessonsCount,
			Percent:   view.Percent(p.CompletedLessonsCount, p.TotalLessonsCount),
		})
	}
	if len(page.RecentSubmissions) > recentSubmissionsLimit {
		page.RecentSubmissions = page.RecentSubmissions[:recentSubmissionsLimit]
	}
	return page, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
