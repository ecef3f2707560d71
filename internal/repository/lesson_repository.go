package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// LessonRepository reads lessons.
type LessonRepository struct {
	api API
}

// NewLessonRepository constructs the repository.
func NewLessonRepository(api API) *LessonRepository {
	return &LessonRepository{api: api}
}

// Get returns a lesson with its assignment, if any.
func (r *LessonRepository) Get(ctx context.Context, lessonID int64) (*models.LessonWithAssignment, error) {
	var out models.LessonWithAssignment
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/lessons/%d", lessonID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
