package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// SubmissionRepository handles hand-ins and their attachments.
type SubmissionRepository struct {
	api API
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(api API) *SubmissionRepository {
	return &SubmissionRepository{api: api}
}

// ListMine returns every submission of the caller.
func (r *SubmissionRepository) ListMine(ctx context.Context) ([]models.Submission, error) {
	out := []models.Submission{}
	if err := r.api.Do(ctx, httpclient.Request{Path: "/submissions/my"}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Submit uploads work as multipart form data.
func (r *SubmissionRepository) Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error) {
	form := &httpclient.Form{
		Fields: []httpclient.Field{
			{Name: "assignment_id", Value: strconv.FormatInt(req.AssignmentID, 10)},
			{Name: "student_comment", Value: req.Comment},
		},
	}
	for _, f := range req.Files {
		form.Files = append(form.Files, httpclient.File{
			Field:       "files",
			Name:        f.Name,
			ContentType: f.ContentType,
			Reader:      f.Reader,
		})
	}

	var out models.Submission
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/submissions", Form: form}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Get returns one submission.
func (r *SubmissionRepository) Get(ctx context.Context, submissionID int64) (*models.Submission, error) {
	var out models.Submission
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/submissions/%d", submissionID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DownloadFile streams an attachment. The caller closes the body.
func (r *SubmissionRepository) DownloadFile(ctx context.Context, fileID int64) (*httpclient.Download, error) {
	return r.api.Download(ctx, fmt.Sprintf("/submissions/files/%d/download", fileID))
}
