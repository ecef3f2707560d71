package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

type testRepository interface {
	Details(ctx context.Context, testID int64) (*models.TestDetails, error)
	MyAttempts(ctx context.Context, testID int64) ([]models.TestAttemptResult, error)
	Submit(ctx context.Context, testID int64, answers []models.TestAnswer) (*models.TestSubmitResult, error)
}

// TestService opens tests for answering.
type TestService struct {
	tests  testRepository
	logger *zap.Logger
}

// NewTestService constructs the service.
func NewTestService(tests testRepository, logger *zap.Logger) *TestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TestService{tests: tests, logger: logger}
}

// Open loads a test and the caller's attempts in parallel and returns an
// empty answer sheet for it.
func (s *TestService) Open(ctx context.Context, testID int64) (*TestSession, error) {
	var (
		details  *models.TestDetails
		attempts []models.TestAttemptResult
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) {
			details, err = s.tests.Details(ctx, testID)
			return err
		},
		func(ctx context.Context) (err error) {
			attempts, err = s.tests.MyAttempts(ctx, testID)
			return err
		},
	)
	if err != nil {
		s.logger.Warn("test load failed", zap.Int64("test_id", testID), zap.Error(err))
		return nil, pageError("the test", err)
	}
	return &TestSession{
		repo:     s.tests,
		logger:   s.logger,
		test:     *details,
		attempts: nonNil(attempts),
		answers:  make(map[int64][]int64),
	}, nil
}

// TestSession is an answer sheet for one test.
type TestSession struct {
	repo   testRepository
	logger *zap.Logger

	mu       sync.Mutex
	test     models.TestDetails
	attempts []models.TestAttemptResult
	answers  map[int64][]int64
	result   *models.TestSubmitResult
}

// Select picks an option. Single-choice questions replace the previous
// choice; multiple-choice questions toggle the option.
func (t *TestSession) Select(questionID, optionID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	question, ok := t.question(questionID)
	if !ok {
		return appErrors.Wrap(fmt.Errorf("question %d", questionID), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown question")
	}
	if !hasOption(question, optionID) {
		return appErrors.Wrap(fmt.Errorf("option %d of question %d", optionID, questionID), appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unknown option")
	}

	if question.Type != models.QuestionMultiple {
		t.answers[questionID] = []int64{optionID}
		return nil
	}

	current := t.answers[questionID]
	next := make([]int64, 0, len(current)+1)
	removed := false
	for _, id := range current {
		if id == optionID {
			removed = true
			continue
		}
		next = append(next, id)
	}
	if !removed {
		next = append(next, optionID)
	}
	t.answers[questionID] = next
	return nil
}

// Answers returns the sheet ordered by question id. Questions never touched
// are absent; a multiple-choice question toggled back to nothing is present
// with no options.
func (t *TestSession) Answers() []models.TestAnswer {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.answerList()
}

func (t *TestSession) answerList() []models.TestAnswer {
	out := make([]models.TestAnswer, 0, len(t.answers))
	for qid, options := range t.answers {
		out = append(out, models.TestAnswer{QuestionID: qid, SelectedOptionIDs: append([]int64{}, options...)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].QuestionID < out[j].QuestionID })
	return out
}

// Submit sends the sheet. The result is kept as soon as the server grades
// it; the attempts are then refetched. A failed refetch is returned together
// with the result.
func (t *TestSession) Submit(ctx context.Context) (*models.TestSubmitResult, error) {
	t.mu.Lock()
	testID := t.test.ID
	answers := t.answerList()
	t.mu.Unlock()

	result, err := t.repo.Submit(ctx, testID, answers)
	if err != nil {
		return nil, withMessage(err, "Could not submit the test.")
	}
	t.mu.Lock()
	t.result = result
	t.mu.Unlock()

	attempts, err := t.repo.MyAttempts(ctx, testID)
	if err != nil {
		t.logger.Warn("refresh attempts failed", zap.Int64("test_id", testID), zap.Error(err))
		return result, withMessage(err, "Could not refresh your attempts.")
	}
	t.mu.Lock()
	t.attempts = nonNil(attempts)
	t.mu.Unlock()
	return result, nil
}

// Page returns the current view of the session.
func (t *TestSession) Page() *dto.TestPage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return &dto.TestPage{
		Test:     t.test,
		Attempts: append([]models.TestAttemptResult{}, t.attempts...),
		Answers:  t.answerList(),
		Result:   t.result,
	}
}

func (t *TestSession) question(id int64) (models.TestQuestion, bool) {
	for _, q := range t.test.Questions {
		if q.ID == id {
			return q, true
		}
	}
	return models.TestQuestion{}, false
}

func hasOption(q models.TestQuestion, optionID int64) bool {
	for _, o := range q.Options {
		if o.ID == optionID {
			return true
		}
	}
	return false
}
