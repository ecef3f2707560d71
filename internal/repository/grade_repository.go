package repository

import (
	"context"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

// GradeRepository reads the latest grade per assignment.
type GradeRepository struct {
	api API
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(api API) *GradeRepository {
	return &GradeRepository{api: api}
}

// ListMine returns the caller's grades.
func (r *GradeRepository) ListMine(ctx context.Context) ([]models.GradeItem, error) {
	var out response.Items[models.GradeItem]
	if err := r.api.Do(ctx, httpclient.Request{Path: "/grades/my"}, &out); err != nil {
		return nil, err
	}
	return out.List(), nil
}
