package cli

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/repository"
	"github.com/noah-isme/lms-student-client/internal/service"
	"github.com/noah-isme/lms-student-client/internal/session"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

// Services are the page loaders and flows the shell dispatches to.
type Services struct {
	Auth        *service.AuthService
	Dashboard   *service.DashboardService
	Courses     *service.CourseService
	Lessons     *service.LessonService
	Assignments *service.AssignmentService
	Submissions *service.SubmissionService
	Progress    *service.ProgressService
	Grades      *service.GradeService
	Calendar    *service.CalendarService
	Reports     *service.ReportService
	Tests       *service.TestService
	Chat        *service.ChatService
	Profile     *service.ProfileService
	Metrics     *service.MetricsService
}

// ServicesParams carries everything BuildServices wires together.
type ServicesParams struct {
	Client    *httpclient.Client
	Session   *session.Store
	Downloads *storage.LocalStorage
	Exports   *storage.LocalStorage
	Metrics   *service.MetricsService
	Logger    *zap.Logger

	FeedLimit        int
	ChatLimit        int
	ChatPollInterval time.Duration
}

// BuildServices creates one repository per resource over the shared client
// and the services on top of them.
func BuildServices(p ServicesParams) Services {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()

	authRepo := repository.NewAuthRepository(p.Client)
	profileRepo := repository.NewProfileRepository(p.Client)
	courseRepo := repository.NewCourseRepository(p.Client)
	lessonRepo := repository.NewLessonRepository(p.Client)
	assignmentRepo := repository.NewAssignmentRepository(p.Client)
	submissionRepo := repository.NewSubmissionRepository(p.Client)
	testRepo := repository.NewTestRepository(p.Client)
	progressRepo := repository.NewProgressRepository(p.Client)
	gradeRepo := repository.NewGradeRepository(p.Client)
	deadlineRepo := repository.NewDeadlineRepository(p.Client)
	feedRepo := repository.NewFeedRepository(p.Client)
	chatRepo := repository.NewChatRepository(p.Client)

	var pollObserver service.PollObserver
	if p.Metrics != nil {
		pollObserver = p.Metrics
	}

	return Services{
		Auth: service.NewAuthService(authRepo, p.Session, validate, logger),
		Dashboard: service.NewDashboardService(service.DashboardServiceParams{
			Courses:     courseRepo,
			Submissions: submissionRepo,
			Progress:    progressRepo,
			Feed:        feedRepo,
			FeedLimit:   p.FeedLimit,
			Logger:      logger,
		}),
		Courses:     service.NewCourseService(courseRepo, progressRepo, testRepo, validate, logger),
		Lessons:     service.NewLessonService(lessonRepo, courseRepo, logger),
		Assignments: service.NewAssignmentService(assignmentRepo, submissionRepo, logger),
		Submissions: service.NewSubmissionService(submissionRepo, assignmentRepo, p.Downloads, logger),
		Progress:    service.NewProgressService(progressRepo, logger),
		Grades:      service.NewGradeService(gradeRepo, logger),
		Calendar:    service.NewCalendarService(deadlineRepo, logger),
		Reports:     service.NewReportService(gradeRepo, deadlineRepo, p.Exports, logger),
		Tests:       service.NewTestService(testRepo, logger),
		Chat: service.NewChatService(chatRepo, service.ChatConfig{
			Limit:        p.ChatLimit,
			PollInterval: p.ChatPollInterval,
		}, pollObserver, validate, logger),
		Profile: service.NewProfileService(profileRepo, p.Session, validate, logger),
		Metrics: p.Metrics,
	}
}
