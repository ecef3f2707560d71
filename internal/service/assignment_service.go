package service

import (
	"context"
	"fmt"
	"io"
	"sort"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

type assignmentReader interface {
	ByLesson(ctx context.Context, lessonID int64) (*models.Assignment, error)
	Get(ctx context.Context, assignmentID int64) (*models.AssignmentWithSubmission, error)
	MySubmissions(ctx context.Context, assignmentID int64) ([]models.Submission, error)
}

type submissionRepository interface {
	Submit(ctx context.Context, req models.SubmitRequest) (*models.Submission, error)
	Get(ctx context.Context, submissionID int64) (*models.Submission, error)
	DownloadFile(ctx context.Context, fileID int64) (*httpclient.Download, error)
}

// AssignmentService loads assignment pages and hands in work.
type AssignmentService struct {
	assignments assignmentReader
	submissions submissionRepository
	logger      *zap.Logger
}

// NewAssignmentService constructs the service.
func NewAssignmentService(assignments assignmentReader, submissions submissionRepository, logger *zap.Logger) *AssignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, submissions: submissions, logger: logger}
}

// Load fetches the assignment and the caller's attempts in parallel.
func (s *AssignmentService) Load(ctx context.Context, assignmentID int64) (*dto.AssignmentPage, error) {
	var (
		assignment *models.AssignmentWithSubmission
		history    []models.Submission
	)
	err := loadAll(ctx,
		func(ctx context.Context) (err error) {
			assignment, err = s.assignments.Get(ctx, assignmentID)
			return err
		},
		func(ctx context.Context) (err error) {
			history, err = s.assignments.MySubmissions(ctx, assignmentID)
			return err
		},
	)
	if err != nil {
		s.logger.Warn("assignment load failed", zap.Int64("assignment_id", assignmentID), zap.Error(err))
		return nil, pageError("the assignment", err)
	}

	history = nonNil(history)
	sort.SliceStable(history, func(i, j int) bool {
		return history[i].AttemptNumber > history[j].AttemptNumber
	})
	return &dto.AssignmentPage{
		Assignment: assignment.Assignment,
		Latest:     assignment.Submission,
		History:    history,
	}, nil
}

// LoadForLesson opens the assignment attached to a lesson.
func (s *AssignmentService) LoadForLesson(ctx context.Context, lessonID int64) (*dto.AssignmentPage, error) {
	assignment, err := s.assignments.ByLesson(ctx, lessonID)
	if err != nil {
		return nil, pageError("the assignment", err)
	}
	return s.Load(ctx, assignment.ID)
}

// Submit hands in work and reloads the page so the new attempt shows up.
func (s *AssignmentService) Submit(ctx context.Context, assignmentID int64, comment string, files []models.Upload) (*dto.AssignmentPage, error) {
	if _, err := s.submissions.Submit(ctx, models.SubmitRequest{AssignmentID: assignmentID, Comment: comment, Files: files}); err != nil {
		return nil, withMessage(err, "Could not submit your work.")
	}
	return s.Load(ctx, assignmentID)
}

type fileSaver interface {
	SaveStream(name string, r io.Reader) (string, error)
}

// SubmissionService loads submission pages and downloads attachments.
type SubmissionService struct {
	submissions submissionRepository
	assignments assignmentReader
	files       fileSaver
	logger      *zap.Logger
}

// NewSubmissionService constructs the service.
func NewSubmissionService(submissions submissionRepository, assignments assignmentReader, files fileSaver, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{submissions: submissions, assignments: assignments, files: files, logger: logger}
}

// Load fetches the submission, then its assignment, then the attempt
// history; each call needs the previous result.
func (s *SubmissionService) Load(ctx context.Context, submissionID int64) (*dto.SubmissionPage, error) {
	submission, err := s.submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, pageError("the submission", err)
	}
	assignment, err := s.assignments.Get(ctx, submission.AssignmentID)
	if err != nil {
		return nil, pageError("the submission", err)
	}
	history, err := s.assignments.MySubmissions(ctx, submission.AssignmentID)
	if err != nil {
		return nil, pageError("the submission", err)
	}

	return &dto.SubmissionPage{
		Submission:    *submission,
		Assignment:    assignment.Assignment,
		AttemptsTotal: len(history),
		FileLink:      submission.FileLink(),
	}, nil
}

// Download saves an attachment locally. name is used when the server does
// not suggest a file name.
func (s *SubmissionService) Download(ctx context.Context, fileID int64, name string) (*dto.DownloadedFile, error) {
	d, err := s.submissions.DownloadFile(ctx, fileID)
	if err != nil {
		return nil, withMessage(err, "Could not download the file.")
	}
	defer d.Body.Close() //nolint:errcheck

	filename := d.Filename
	if filename == "" {
		filename = name
	}
	if filename == "" {
		filename = fmt.Sprintf("submission-file-%d", fileID)
	}

	counter := &countingReader{r: d.Body}
	path, err := s.files.SaveStream(filename, counter)
	if err != nil {
		return nil, fmt.Errorf("save %s: %w", filename, err)
	}
	s.logger.Debug("file downloaded", zap.Int64("file_id", fileID), zap.String("path", path), zap.Int64("bytes", counter.n))
	return &dto.DownloadedFile{Path: path, ContentType: d.ContentType, Bytes: counter.n}, nil
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
