package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

// DeadlineRepository reads due dates.
type DeadlineRepository struct {
	api API
}

// NewDeadlineRepository constructs the repository.
func NewDeadlineRepository(api API) *DeadlineRepository {
	return &DeadlineRepository{api: api}
}

// ListMine returns deadlines inside the optional date window.
func (r *DeadlineRepository) ListMine(ctx context.Context, filter models.DeadlineFilter) ([]models.DeadlineItem, error) {
	query := url.Values{}
	httpclient.SetString(query, "from_date", filter.FromDate)
	httpclient.SetString(query, "to_date", filter.ToDate)

	var out response.Items[models.DeadlineItem]
	if err := r.api.Do(ctx, httpclient.Request{Path: "/deadlines/my", Query: query}, &out); err != nil {
		return nil, err
	}
	return out.List(), nil
}
