package models

import (
	"fmt"
	"io"
)

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	SubmissionDraft     SubmissionStatus = "draft"
	SubmissionSubmitted SubmissionStatus = "submitted"
	SubmissionChecked   SubmissionStatus = "checked"
)

// SubmissionFile is an uploaded attachment.
type SubmissionFile struct {
	ID           int64  `json:"id"`
	FilePath     string `json:"file_path"`
	OriginalName string `json:"original_name"`
	ContentType  string `json:"content_type"`
	UploadedAt   Time   `json:"uploaded_at"`
}

// Submission is one attempt at an assignment.
type Submission struct {
	ID             int64            `json:"id"`
	AssignmentID   int64            `json:"assignment_id"`
	StudentID      int64            `json:"student_id"`
	AttemptNumber  int              `json:"attempt_number"`
	Status         SubmissionStatus `json:"status"`
	Score          *float64         `json:"score,omitempty"`
	StudentComment *string          `json:"student_comment,omitempty"`
	TeacherComment *string          `json:"teacher_comment,omitempty"`
	SubmittedAt    Time             `json:"submitted_at"`
	CheckedAt      Time             `json:"checked_at"`
	FileURL        *string          `json:"file_url,omitempty"`
	AttachmentURL  *string          `json:"attachment_url,omitempty"`
	SubmissionURL  *string          `json:"submission_url,omitempty"`
	Files          []SubmissionFile `json:"files"`
}

// FileLink returns the best available link to the submitted work. Older
// deployments expose a direct URL field; newer ones only list files, which
// are served by the download endpoint.
func (s Submission) FileLink() string {
	for _, candidate := range []*string{s.FileURL, s.AttachmentURL, s.SubmissionURL} {
		if candidate != nil && *candidate != "" {
			return *candidate
		}
	}
	if len(s.Files) > 0 {
		return fmt.Sprintf("/api/v1/submissions/files/%d/download", s.Files[0].ID)
	}
	return ""
}

// Upload is a local file attached to a submission.
type Upload struct {
	Name        string
	ContentType string
	Reader      io.Reader
}

// SubmitRequest creates or updates the caller's submission.
type SubmitRequest struct {
	AssignmentID int64
	Comment      string
	Files        []Upload
}
