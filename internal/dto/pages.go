package dto

import (
	"time"

	"github.com/noah-isme/lms-student-client/internal/models"
)

// CourseCard is an enrolled course with its completion.
type CourseCard struct {
	Course    models.Course `json:"course"`
	Completed int           `json:"completed"`
	Total     int           `json:"total"`
	Percent   int           `json:"percent"`
}

// DashboardPage is the student's home page.
type DashboardPage struct {
	Enrolled          []CourseCard        `json:"enrolled"`
	Available         []models.Course     `json:"available"`
	RecentSubmissions []models.Submission `json:"recent_submissions"`
	Feed              []models.FeedItem   `json:"feed"`
}

// CoursePage shows a course with its lesson tree, progress and tests.
type CoursePage struct {
	Course    models.CourseDetail     `json:"course"`
	Structure models.CourseStructure  `json:"structure"`
	Progress  models.ProgressSnapshot `json:"progress"`
	Percent   int                     `json:"percent"`
	Tests     []models.TestSummary    `json:"tests"`
}

// LessonPage shows one lesson with its neighbours in the course.
type LessonPage struct {
	Lesson     models.Lesson         `json:"lesson"`
	Assignment *models.Assignment    `json:"assignment,omitempty"`
	Text       string                `json:"text"`
	Previous   *models.LessonNavItem `json:"previous,omitempty"`
	Next       *models.LessonNavItem `json:"next,omitempty"`
}

// AssignmentPage shows an assignment and the caller's attempts.
type AssignmentPage struct {
	Assignment models.Assignment   `json:"assignment"`
	Latest     *models.Submission  `json:"latest,omitempty"`
	History    []models.Submission `json:"history"`
}

// SubmissionPage shows one submission in the context of its assignment.
type SubmissionPage struct {
	Submission    models.Submission `json:"submission"`
	Assignment    models.Assignment `json:"assignment"`
	AttemptsTotal int               `json:"attempts_total"`
	FileLink      string            `json:"file_link,omitempty"`
}

// ProgressRow is one course on the progress page.
type ProgressRow struct {
	Snapshot models.ProgressSnapshot `json:"snapshot"`
	Percent  int                     `json:"percent"`
}

// ProgressPage aggregates progress over all courses. AverageScore is nil
// when no course has a score yet.
type ProgressPage struct {
	Courses          []ProgressRow `json:"courses"`
	CompletedLessons int           `json:"completed_lessons"`
	TotalLessons     int           `json:"total_lessons"`
	Percent          int           `json:"percent"`
	AverageScore     *float64      `json:"average_score,omitempty"`
}

// GradesPage lists the latest grade per assignment.
type GradesPage struct {
	Items []models.GradeItem `json:"items"`
}

// DeadlineRow is a deadline with its display labels.
type DeadlineRow struct {
	Item          models.DeadlineItem `json:"item"`
	StatusLabel   string              `json:"status_label"`
	SeverityLabel string              `json:"severity_label"`
	DueText       string              `json:"due_text"`
	DaysLeftText  string              `json:"days_left_text"`
}

// CalendarPage lists deadlines.
type CalendarPage struct {
	Items []DeadlineRow `json:"items"`
}

// TestPage is a test with the caller's attempts and the last result.
type TestPage struct {
	Test     models.TestDetails         `json:"test"`
	Attempts []models.TestAttemptResult `json:"attempts"`
	Answers  []models.TestAnswer        `json:"answers"`
	Result   *models.TestSubmitResult   `json:"result,omitempty"`
}

// ChatPage is a snapshot of a course chat.
type ChatPage struct {
	CourseID int64                `json:"course_id"`
	Messages []models.ChatMessage `json:"messages"`
}

// ProfilePage shows the current account.
type ProfilePage struct {
	User models.User `json:"user"`
}

// ReportFile describes a written export.
type ReportFile struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

// DownloadedFile describes a saved attachment.
type DownloadedFile struct {
	Path        string `json:"path"`
	ContentType string `json:"content_type,omitempty"`
	Bytes       int64  `json:"bytes"`
}

// ClientMetrics aggregates request and polling counters of this process.
type ClientMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	RequestFailures          uint64    `json:"request_failures"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ChatPolls                uint64    `json:"chat_polls"`
	ChatPollFailures         uint64    `json:"chat_poll_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
