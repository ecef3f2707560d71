package models

// ProgressSnapshot is the caller's progress in one course.
type ProgressSnapshot struct {
	ID                    int64    `json:"id"`
	StudentID             int64    `json:"student_id"`
	CourseID              int64    `json:"course_id"`
	CompletedLessonsCount int      `json:"completed_lessons_count"`
	TotalLessonsCount     int      `json:"total_lessons_count"`
	AvgScore              *float64 `json:"avg_score,omitempty"`
	UpdatedAt             Time     `json:"updated_at"`
}

// GradeItem is the latest grade per assignment.
type GradeItem struct {
	AssignmentID    int64            `json:"assignment_id"`
	AssignmentTitle string           `json:"assignment_title"`
	CourseID        int64            `json:"course_id"`
	CourseTitle     string           `json:"course_title"`
	Status          SubmissionStatus `json:"status"`
	AttemptNumber   *int             `json:"attempt_number,omitempty"`
	MaxScore        int              `json:"max_score"`
	Score           *float64         `json:"score,omitempty"`
	TeacherComment  *string          `json:"teacher_comment,omitempty"`
	SubmittedAt     Time             `json:"submitted_at"`
	CheckedAt       Time             `json:"checked_at"`
}

// DeadlineSeverity is computed by the server from the due date.
type DeadlineSeverity string

const (
	SeverityNormal  DeadlineSeverity = "normal"
	SeverityDueSoon DeadlineSeverity = "due_soon"
	SeverityOverdue DeadlineSeverity = "overdue"
)

// DeadlineStatus reports whether work was handed in.
type DeadlineStatus string

const (
	DeadlineNotSubmitted DeadlineStatus = "not_submitted"
	DeadlineSubmitted    DeadlineStatus = "submitted"
	DeadlineChecked      DeadlineStatus = "checked"
)

// DeadlineItem is one upcoming or past due date.
type DeadlineItem struct {
	AssignmentID    int64            `json:"assignment_id"`
	AssignmentTitle string           `json:"assignment_title"`
	CourseID        int64            `json:"course_id"`
	CourseTitle     string           `json:"course_title"`
	LessonID        *int64           `json:"lesson_id,omitempty"`
	LessonTitle     *string          `json:"lesson_title,omitempty"`
	DueDate         Time             `json:"due_date"`
	Status          DeadlineStatus   `json:"status"`
	Severity        DeadlineSeverity `json:"severity"`
	DaysLeft        *int             `json:"days_left,omitempty"`
}

// DeadlineFilter bounds the deadline query. Empty values are not sent.
type DeadlineFilter struct {
	FromDate string
	ToDate   string
}

// FeedItemType distinguishes feed events.
type FeedItemType string

const (
	FeedNewAssignment FeedItemType = "new_assignment"
	FeedGradeUpdated  FeedItemType = "grade_updated"
)

// FeedItem is one entry in the activity feed.
type FeedItem struct {
	ID              string       `json:"id"`
	Type            FeedItemType `json:"type"`
	CreatedAt       Time         `json:"created_at"`
	CourseID        int64        `json:"course_id"`
	CourseTitle     string       `json:"course_title"`
	AssignmentID    *int64       `json:"assignment_id,omitempty"`
	AssignmentTitle *string      `json:"assignment_title,omitempty"`
	Score           *float64     `json:"score,omitempty"`
	MaxScore        *int         `json:"max_score,omitempty"`
	ShortText       string       `json:"short_text"`
}

// ChatMessage is a message in a course chat.
type ChatMessage struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"courseId"`
	AuthorID   int64  `json:"authorId"`
	AuthorName string `json:"authorName"`
	IsTeacher  bool   `json:"isTeacher"`
	Text       string `json:"text"`
	CreatedAt  Time   `json:"createdAt"`
}
