package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

// ProgressService loads the progress overview.
type ProgressService struct {
	progress progressLister
	logger   *zap.Logger
}

// NewProgressService constructs the service.
func NewProgressService(progress progressLister, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{progress: progress, logger: logger}
}

// Load returns per-course rows plus totals. The average score only counts
// courses that have a score.
func (s *ProgressService) Load(ctx context.Context) (*dto.ProgressPage, error) {
	snapshots, err := s.progress.ListMine(ctx)
	if err != nil {
		s.logger.Warn("progress load failed", zap.Error(err))
		return nil, pageError("your progress", err)
	}
	return summariseProgress(snapshots), nil
}

func summariseProgress(snapshots []models.ProgressSnapshot) *dto.ProgressPage {
	page := &dto.ProgressPage{Courses: make([]dto.ProgressRow, 0, len(snapshots))}

	var (
		scoreSum float64
		scored   int
	)
	for _, snap := range snapshots {
		page.CompletedLessons += snap.CompletedLessonsCount
		page.TotalLessons += snap.TotalLessonsCount
		if snap.AvgScore != nil {
			scoreSum += *snap.AvgScore
			scored++
		}
		page.Courses = append(page.Courses, dto.ProgressRow{
			Snapshot: snap,
			Percent:  view.Percent(snap.CompletedLessonsCount, snap.TotalLessonsCount),
		})
	}
	page.Percent = view.Percent(page.CompletedLessons, page.TotalLessons)
	if scored > 0 {
		avg := scoreSum / float64(scored)
		page.AverageScore = &avg
	}
	return page
}
