package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// ProgressRepository reads progress snapshots.
type ProgressRepository struct {
	api API
}

// NewProgressRepository constructs the repository.
func NewProgressRepository(api API) *ProgressRepository {
	return &ProgressRepository{api: api}
}

// ListMine returns one snapshot per enrolled course.
func (r *ProgressRepository) ListMine(ctx context.Context) ([]models.ProgressSnapshot, error) {
	out := []models.ProgressSnapshot{}
	if err := r.api.Do(ctx, httpclient.Request{Path: "/progress/my"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ByCourse returns the snapshot for a single course.
func (r *ProgressRepository) ByCourse(ctx context.Context, courseID int64) (*models.ProgressSnapshot, error) {
	var out models.ProgressSnapshot
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/progress/my/%d", courseID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
