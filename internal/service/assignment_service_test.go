package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-student-client/internal/models"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

type fakeAssignmentReader struct {
	byLesson   map[int64]int64
	requested  []int64
	assignment *models.AssignmentWithSubmission
	history    []models.Submission
	err        error
	historyErr error
}

func (f *fakeAssignmentReader) ByLesson(ctx context.Context, lessonID int64) (*models.Assignment, error) {
	id, ok := f.byLesson[lessonID]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return &models.Assignment{ID: id, LessonID: lessonID}, nil
}

func (f *fakeAssignmentReader) Get(ctx context.Context, assignmentID int64) (*models.AssignmentWithSubmission, error) {
	f.requested = append(f.requested, assignmentID)
	return f.assignment, f.err
}

func (f *fakeAssignmentReader) MySubmissions(ctx context.Context, assignmentID int64) ([]models.Submission, error) {
	return f.history, f.historyErr
}

type fakeSubmissionRepo struct {
	submitted  []models.SubmitRequest
	submitErr  error
	submission *models.Submission
	download   *httpclient.Download
}

func (f *fakeSubmissionRepo) Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error) {
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	f.submitted = append(f.submitted, req)
	return &models.Submission{ID: 99, AssignmentID: req.AssignmentID}, nil
}

func (f *fakeSubmissionRepo) Get(ctx context.Context, submissionID int64) (*models.Submission, error) {
	if f.submission == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "")
	}
	return f.submission, nil
}

func (f *fakeSubmissionRepo) DownloadFile(ctx context.Context, fileID int64) (*httpclient.Download, error) {
	return f.download, nil
}

func TestAssignmentServiceLoadOrdersHistory(t *testing.T) {
	reader := &fakeAssignmentReader{
		assignment: &models.AssignmentWithSubmission{Assignment: models.Assignment{ID: 5, Title: "Loops"}},
		history:    []models.Submission{{ID: 1, AttemptNumber: 1}, {ID: 3, AttemptNumber: 3}, {ID: 2, AttemptNumber: 2}},
	}
	svc := NewAssignmentService(reader, &fakeSubmissionRepo{}, nil)

	page, err := svc.Load(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "Loops", page.Assignment.Title)
	assert.Nil(t, page.Latest)
	require.Len(t, page.History, 3)
	assert.Equal(t, []int{3, 2, 1}, []int{page.History[0].AttemptNumber, page.History[1].AttemptNumber, page.History[2].AttemptNumber})
}

func TestAssignmentServiceLoadForLesson(t *testing.T) {
	reader := &fakeAssignmentReader{
		byLesson:   map[int64]int64{12: 5},
		assignment: &models.AssignmentWithSubmission{Assignment: models.Assignment{ID: 5, Title: "Loops"}},
	}
	svc := NewAssignmentService(reader, &fakeSubmissionRepo{}, nil)

	page, err := svc.LoadForLesson(context.Background(), 12)
	require.NoError(t, err)
	assert.Equal(t, "Loops", page.Assignment.Title)
	assert.Equal(t, []int64{5}, reader.requested)

	_, err = svc.LoadForLesson(context.Background(), 13)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPageLoad))
	assert.Equal(t, 404, appErrors.StatusOf(err))
}

func TestAssignmentServiceSubmitReloads(t *testing.T) {
	reader := &fakeAssignmentReader{
		assignment: &models.AssignmentWithSubmission{Assignment: models.Assignment{ID: 5}},
		history:    []models.Submission{{ID: 99, AttemptNumber: 1}},
	}
	repo := &fakeSubmissionRepo{}
	svc := NewAssignmentService(reader, repo, nil)

	files := []models.Upload{{Name: "a.txt", Reader: strings.NewReader("hello")}}
	page, err := svc.Submit(context.Background(), 5, "done", files)
	require.NoError(t, err)
	require.Len(t, repo.submitted, 1)
	assert.Equal(t, int64(5), repo.submitted[0].AssignmentID)
	assert.Equal(t, "done", repo.submitted[0].Comment)
	assert.Len(t, page.History, 1)

	repo.submitErr = appErrors.Clone(appErrors.ErrForbidden, "")
	_, err = svc.Submit(context.Background(), 5, "", nil)
	require.Error(t, err)
	assert.Equal(t, "Could not submit your work.", appErrors.FromError(err).Message)
	assert.Equal(t, 403, appErrors.StatusOf(err))
}

func TestSubmissionServiceLoad(t *testing.T) {
	url := "https://files.example.com/work.zip"
	repo := &fakeSubmissionRepo{submission: &models.Submission{ID: 8, AssignmentID: 5, FileURL: &url}}
	reader := &fakeAssignmentReader{
		assignment: &models.AssignmentWithSubmission{Assignment: models.Assignment{ID: 5, Title: "Loops"}},
		history:    []models.Submission{{ID: 7}, {ID: 8}},
	}
	svc := NewSubmissionService(repo, reader, nil, nil)

	page, err := svc.Load(context.Background(), 8)
	require.NoError(t, err)
	assert.Equal(t, "Loops", page.Assignment.Title)
	assert.Equal(t, 2, page.AttemptsTotal)
	assert.Equal(t, url, page.FileLink)

	_, err = NewSubmissionService(&fakeSubmissionRepo{}, reader, nil, nil).Load(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, 404, appErrors.StatusOf(err))
}

func TestSubmissionServiceDownload(t *testing.T) {
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	repo := &fakeSubmissionRepo{download: &httpclient.Download{
		Body:        io.NopCloser(strings.NewReader("report body")),
		ContentType: "text/plain",
		Filename:    "report.txt",
	}}
	svc := NewSubmissionService(repo, &fakeAssignmentReader{}, files, nil)

	got, err := svc.Download(context.Background(), 3, "ignored.txt")
	require.NoError(t, err)
	assert.Equal(t, int64(len("report body")), got.Bytes)
	assert.Equal(t, "text/plain", got.ContentType)
	assert.Equal(t, "report.txt", filepath.Base(got.Path))

	data, err := os.ReadFile(got.Path)
	require.NoError(t, err)
	assert.Equal(t, "report body", string(data))

	repo.download = &httpclient.Download{Body: io.NopCloser(strings.NewReader("x"))}
	got, err = svc.Download(context.Background(), 4, "")
	require.NoError(t, err)
	assert.Equal(t, "submission-file-4", filepath.Base(got.Path))
}
