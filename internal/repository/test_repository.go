package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

type testSummaryWire struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Description      *string `json:"description"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
}

type testOptionWire struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type testQuestionWire struct {
	ID         int64            `json:"id"`
	Text       string           `json:"text"`
	Type       string           `json:"type"`
	OrderIndex int              `json:"order_index"`
	Options    []testOptionWire `json:"options"`
}

type testDetailsWire struct {
	ID               int64              `json:"id"`
	CourseID         int64              `json:"course_id"`
	Title            string             `json:"title"`
	Description      *string            `json:"description"`
	TimeLimitMinutes *int               `json:"time_limit_minutes"`
	Questions        []testQuestionWire `json:"questions"`
}

type testAttemptWire struct {
	ID         int64       `json:"id"`
	TestID     int64       `json:"test_id"`
	StudentID  int64       `json:"student_id"`
	StartedAt  models.Time `json:"started_at"`
	FinishedAt models.Time `json:"finished_at"`
	Score      *float64    `json:"score"`
	MaxScore   *int        `json:"max_score"`
}

type testAnswerWire struct {
	QuestionID        int64   `json:"question_id"`
	SelectedOptionIDs []int64 `json:"selected_option_ids"`
}

type testSubmitWire struct {
	Answers []testAnswerWire `json:"answers"`
}

type testSubmitResultWire struct {
	AttemptID int64   `json:"attempt_id"`
	Score     float64 `json:"score"`
	MaxScore  int     `json:"max_score"`
}

// TestRepository covers course tests. Payloads are mapped between the
// snake_case wire form and the client models.
type TestRepository struct {
	api API
}

// NewTestRepository constructs the repository.
func NewTestRepository(api API) *TestRepository {
	return &TestRepository{api: api}
}

// ListByCourse returns the tests of a course.
func (r *TestRepository) ListByCourse(ctx context.Context, courseID int64) ([]models.TestSummary, error) {
	var wire response.Items[testSummaryWire]
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/courses/%d/tests", courseID)}, &wire); err != nil {
		return nil, err
	}
	items := wire.List()
	out := make([]models.TestSummary, 0, len(items))
	for _, item := range items {
		out = append(out, models.TestSummary{
			ID:               item.ID,
			Title:            item.Title,
			Description:      item.Description,
			TimeLimitMinutes: item.TimeLimitMinutes,
		})
	}
	return out, nil
}

// Details returns a test with its questions.
func (r *TestRepository) Details(ctx context.Context, testID int64) (*models.TestDetails, error) {
	var wire testDetailsWire
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/tests/%d", testID)}, &wire); err != nil {
		return nil, err
	}
	out := &models.TestDetails{
		ID:               wire.ID,
		CourseID:         wire.CourseID,
		Title:            wire.Title,
		Description:      wire.Description,
		TimeLimitMinutes: wire.TimeLimitMinutes,
		Questions:        make([]models.TestQuestion, 0, len(wire.Questions)),
	}
	for _, q := range wire.Questions {
		question := models.TestQuestion{
			ID:         q.ID,
			Text:       q.Text,
			Type:       models.QuestionType(q.Type),
			OrderIndex: q.OrderIndex,
			Options:    make([]models.TestOption, 0, len(q.Options)),
		}
		for _, o := range q.Options {
			question.Options = append(question.Options, models.TestOption{ID: o.ID, Text: o.Text})
		}
		out.Questions = append(out.Questions, question)
	}
	return out, nil
}

// MyAttempts lists the caller's attempts at a test.
func (r *TestRepository) MyAttempts(ctx context.Context, testID int64) ([]models.TestAttemptResult, error) {
	var wire response.Items[testAttemptWire]
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/tests/%d/attempts/my", testID)}, &wire); err != nil {
		return nil, err
	}
	items := wire.List()
	out := make([]models.TestAttemptResult, 0, len(items))
	for _, item := range items {
		out = append(out, models.TestAttemptResult{
			ID:         item.ID,
			TestID:     item.TestID,
			StudentID:  item.StudentID,
			StartedAt:  item.StartedAt,
			FinishedAt: item.FinishedAt,
			Score:      item.Score,
			MaxScore:   item.MaxScore,
		})
	}
	return out, nil
}

// Submit sends the answer sheet and returns the graded result.
func (r *TestRepository) Submit(ctx context.Context, testID int64, answers []models.TestAnswer) (*models.TestSubmitResult, error) {
	body := testSubmitWire{Answers: make([]testAnswerWire, 0, len(answers))}
	for _, a := range answers {
		selected := a.SelectedOptionIDs
		if selected == nil {
			selected = []int64{}
		}
		body.Answers = append(body.Answers, testAnswerWire{QuestionID: a.QuestionID, SelectedOptionIDs: selected})
	}

	var wire testSubmitResultWire
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: fmt.Sprintf("/tests/%d/submit", testID), Body: body}, &wire); err != nil {
		return nil, err
	}
	return &models.TestSubmitResult{AttemptID: wire.AttemptID, Score: wire.Score, MaxScore: wire.MaxScore}, nil
}
