package repository

import (
	"context"
	"fmt"
	"net/http"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
)

// CourseRepository covers the course catalogue and enrollment.
type CourseRepository struct {
	api API
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(api API) *CourseRepository {
	return &CourseRepository{api: api}
}

// ListForStudent returns enrolled and available courses.
func (r *CourseRepository) ListForStudent(ctx context.Context) (*models.StudentCourses, error) {
	var out models.StudentCourses
	if err := r.api.Do(ctx, httpclient.Request{Path: "/courses"}, &out); err != nil {
		return nil, err
	}
	if out.Enrolled == nil {
		out.Enrolled = []models.Course{}
	}
	if out.Available == nil {
		out.Available = []models.Course{}
	}
	return &out, nil
}

// Create publishes a new course. Only teacher accounts are allowed to.
func (r *CourseRepository) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	var out models.Course
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: "/courses", Body: req}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Enroll signs the caller up for a course.
func (r *CourseRepository) Enroll(ctx context.Context, courseID int64) (*models.Course, error) {
	var out models.Course
	path := fmt.Sprintf("/courses/%d/enroll", courseID)
	if err := r.api.Do(ctx, httpclient.Request{Method: http.MethodPost, Path: path}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Detail returns the course with its modules.
func (r *CourseRepository) Detail(ctx context.Context, courseID int64) (*models.CourseDetail, error) {
	var out models.CourseDetail
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/courses/%d", courseID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Structure returns the module and lesson tree.
func (r *CourseRepository) Structure(ctx context.Context, courseID int64) (*models.CourseStructure, error) {
	var out models.CourseStructure
	if err := r.api.Do(ctx, httpclient.Request{Path: fmt.Sprintf("/courses/%d/structure", courseID)}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
