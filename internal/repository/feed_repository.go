package repository

import (
	"context"
	"net/url"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/response"
)

// FeedRepository reads the activity feed.
type FeedRepository struct {
	api API
}

// NewFeedRepository constructs the repository.
func NewFeedRepository(api API) *FeedRepository {
	return &FeedRepository{api: api}
}

// ListMine returns recent feed items. A zero limit leaves the size to the
// server.
func (r *FeedRepository) ListMine(ctx context.Context, limit int) ([]models.FeedItem, error) {
	query := url.Values{}
	httpclient.SetInt(query, "limit", limit)

	var out response.Items[models.FeedItem]
	if err := r.api.Do(ctx, httpclient.Request{Path: "/feed/my", Query: query}, &out); err != nil {
		return nil, err
	}
	return out.List(), nil
}
