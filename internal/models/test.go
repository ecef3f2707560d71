package models

// QuestionType decides how many options may be selected.
type QuestionType string

const (
	QuestionSingle   QuestionType = "single"
	QuestionMultiple QuestionType = "multiple"
)

// TestSummary is a test listed on a course page.
type TestSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description,omitempty"`
	TimeLimitMinutes *int    `json:"timeLimitMinutes,omitempty"`
}

// TestOption is one answer choice.
type TestOption struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// TestQuestion is one question of a test.
type TestQuestion struct {
	ID         int64        `json:"id"`
	Text       string       `json:"text"`
	Type       QuestionType `json:"type"`
	OrderIndex int          `json:"orderIndex"`
	Options    []TestOption `json:"options"`
}

// TestDetails is a test with its questions.
type TestDetails struct {
	ID               int64          `json:"id"`
	CourseID         int64          `json:"courseId"`
	Title            string         `json:"title"`
	Description      *string        `json:"description,omitempty"`
	TimeLimitMinutes *int           `json:"timeLimitMinutes,omitempty"`
	Questions        []TestQuestion `json:"questions"`
}

// TestAttemptResult is a past attempt by the caller.
type TestAttemptResult struct {
	ID         int64    `json:"id"`
	TestID     int64    `json:"testId"`
	StudentID  int64    `json:"studentId"`
	StartedAt  Time     `json:"startedAt"`
	FinishedAt Time     `json:"finishedAt"`
	Score      *float64 `json:"score,omitempty"`
	MaxScore   *int     `json:"maxScore,omitempty"`
}

// TestAnswer holds the options chosen for one question.
type TestAnswer struct {
	QuestionID        int64   `json:"questionId"`
	SelectedOptionIDs []int64 `json:"selectedOptionIds"`
}

// TestSubmitResult is the graded outcome of a submission.
type TestSubmitResult struct {
	AttemptID int64   `json:"attemptId"`
	Score     float64 `json:"score"`
	MaxScore  int     `json:"maxScore"`
}
