package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lms-student-client/internal/models"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

type fakeCourseRepo struct {
	detail    *models.CourseDetail
	structure *models.CourseStructure
	enrolled  []int64
	created   []models.CreateCourseRequest
	err       error
}

func (f *fakeCourseRepo) Create(ctx context.Context, req models.CreateCourseRequest) (*models.Course, error) {
	f.created = append(f.created, req)
	return &models.Course{ID: 10, Title: req.Title}, f.err
}

func (f *fakeCourseRepo) Enroll(ctx context.Context, courseID int64) (*models.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.enrolled = append(f.enrolled, courseID)
	return &models.Course{ID: courseID}, nil
}

func (f *fakeCourseRepo) Detail(ctx context.Context, courseID int64) (*models.CourseDetail, error) {
	return f.detail, f.err
}

func (f *fakeCourseRepo) Structure(ctx context.Context, courseID int64) (*models.CourseStructure, error) {
	return f.structure, f.err
}

type fakeCourseProgress struct {
	snapshot *models.ProgressSnapshot
	err      error
}

func (f *fakeCourseProgress) ByCourse(ctx context.Context, courseID int64) (*models.ProgressSnapshot, error) {
	return f.snapshot, f.err
}

type fakeTestLister struct {
	items []models.TestSummary
	err   error
}

func (f *fakeTestLister) ListByCourse(ctx context.Context, courseID int64) ([]models.TestSummary, error) {
	return f.items, f.err
}

func sampleStructure() *models.CourseStructure {
	return &models.CourseStructure{CourseID: 1, Modules: []models.StructureModule{
		{ID: 1, Lessons: []models.LessonNavItem{{ID: 11, Title: "Intro"}, {ID: 12, Title: "Loops"}}},
		{ID: 2, Lessons: []models.LessonNavItem{{ID: 21, Title: "Maps"}}},
	}}
}

func TestCourseServiceLoad(t *testing.T) {
	repo := &fakeCourseRepo{
		detail:    &models.CourseDetail{Course: models.Course{ID: 1, Title: "Go"}, LessonsCount: 3},
		structure: sampleStructure(),
	}
	svc := NewCourseService(repo,
		&fakeCourseProgress{snapshot: &models.ProgressSnapshot{CourseID: 1, CompletedLessonsCount: 2, TotalLessonsCount: 3}},
		&fakeTestLister{},
		nil, nil)

	page, err := svc.Load(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Go", page.Course.Title)
	assert.Equal(t, 67, page.Percent)
	assert.Len(t, page.Structure.Lessons(), 3)
	assert.NotNil(t, page.Tests)
}

func TestCourseServiceLoadFailure(t *testing.T) {
	repo := &fakeCourseRepo{detail: &models.CourseDetail{}, structure: sampleStructure()}
	svc := NewCourseService(repo,
		&fakeCourseProgress{snapshot: &models.ProgressSnapshot{}},
		&fakeTestLister{err: appErrors.Clone(appErrors.ErrNotFound, "")},
		nil, nil)

	_, err := svc.Load(context.Background(), 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrPageLoad))
	assert.Equal(t, 404, appErrors.StatusOf(err))
}

func TestCourseServiceEnroll(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := NewCourseService(repo, nil, nil, nil, nil)

	course, err := svc.Enroll(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, int64(4), course.ID)
	assert.Equal(t, []int64{4}, repo.enrolled)

	repo.err = appErrors.Clone(appErrors.ErrConflict, "already enrolled")
	_, err = svc.Enroll(context.Background(), 4)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrConflict))
	assert.Equal(t, "Could not enroll in the course.", appErrors.FromError(err).Message)
}

func TestCourseServiceCreateValidates(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := NewCourseService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), models.CreateCourseRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Empty(t, repo.created)
}

type fakeLessonReader struct {
	lesson *models.LessonWithAssignment
	err    error
}

func (f *fakeLessonReader) Get(ctx context.Context, lessonID int64) (*models.LessonWithAssignment, error) {
	return f.lesson, f.err
}

func TestLessonServiceLoad(t *testing.T) {
	lessons := &fakeLessonReader{lesson: &models.LessonWithAssignment{
		Lesson:     models.Lesson{ID: 12, Title: "Loops", ContentHTML: "<p>Go has only <b>for</b>.</p>"},
		Assignment: &models.Assignment{ID: 5, Title: "Write a loop"},
	}}
	structures := &fakeCourseRepo{structure: sampleStructure()}
	svc := NewLessonService(lessons, structures, nil)

	page, err := svc.Load(context.Background(), 12, 1)
	require.NoError(t, err)
	assert.Equal(t, "Go has only for.", page.Text)
	require.NotNil(t, page.Previous)
	require.NotNil(t, page.Next)
	assert.Equal(t, int64(11), page.Previous.ID)
	assert.Equal(t, int64(21), page.Next.ID)
	require.NotNil(t, page.Assignment)

	page, err = svc.Load(context.Background(), 12, 0)
	require.NoError(t, err)
	assert.Nil(t, page.Previous)
	assert.Nil(t, page.Next)
}
