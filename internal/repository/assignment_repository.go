package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

// AssignmentRepository reads assignments and the caller's submission history.
type AssignmentRepository struct {
	api API
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(api API) *AssignmentRepository {
	return &AssignmentRepository{api: api}
}

// ByLesson returns the assignment attached to a lesson.
func (r *AssignmentRepository) ByLesson(ctx context.Context, lessonID int64) (*models.Assignment, error) {
	var out models.Assignment
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/assignments/by-lesson/%d", lessonID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns the assignment with the caller's latest submission.
func (r *AssignmentRepository) Get(ctx context.Context, assignmentID int64) (*models.AssignmentWithSubmission, error) {
	var out models.AssignmentWithSubmission
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/assignments/%d", assignmentID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MySubmissions lists every attempt the caller made on the assignment.
func (r *AssignmentRepository) MySubmissions(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	var out response.Items[models.Submission]
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/assignments/%d/my-submissions", assignmentID)}, &out); err != nil {
		return nil, err
	}
	return out.List(), nil
}
