package models

// Lesson is a single lesson page.
type Lesson struct {
	ID               int64  `json:"id"`
	ModuleID         int64  `json:"module_id"`
	Title            string `json:"title"`
	ShortDescription string `json:"short_description"`
	ContentHTML      string `json:"content_html"`
	OrderIndex       int    `json:"order_index"`
}

// LessonWithAssignment is the lesson endpoint payload.
type LessonWithAssignment struct {
	Lesson     Lesson      `json:"lesson"`
	Assignment *Assignment `json:"assignment,omitempty"`
}

// Assignment is the homework attached to a lesson.
type Assignment struct {
	ID          int64  `json:"id"`
	LessonID    int64  `json:"lesson_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	MaxScore    int    `json:"max_score"`
	DueDate     Time   `json:"due_date"`
	CreatedAt   Time   `json:"created_at"`
}

// AssignmentWithSubmission is an assignment with the caller's latest
// submission, when there is one.
type AssignmentWithSubmission struct {
	Assignment Assignment  `json:"assignment"`
	Submission *Submission `json:"submission,omitempty"`
}
