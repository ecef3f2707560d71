package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

type deadlineLister interface {
	ListMine(ctx context.Context, filter models.DeadlineFilter) ([]models.DeadlineItem, error)
}

// CalendarService loads the deadline calendar.
type CalendarService struct {
	deadlines deadlineLister
	logger    *zap.Logger
}

// NewCalendarService constructs the service.
func NewCalendarService(deadlines deadlineLister, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{deadlines: deadlines, logger: logger}
}

// Load returns labelled deadlines in server order.
func (s *CalendarService) Load(ctx context.Context, filter models.DeadlineFilter) (*dto.CalendarPage, error) {
	items, err := s.deadlines.ListMine(ctx, filter)
	if err != nil {
		s.logger.Warn("calendar load failed", zap.Error(err))
		return nil, pageError("the deadline calendar", err)
	}
	return &dto.CalendarPage{Items: deadlineRows(items)}, nil
}

func deadlineRows(items []models.DeadlineItem) []dto.DeadlineRow {
	rows := make([]dto.DeadlineRow, 0, len(items))
	for _, item := range items {
		rows = append(rows, dto.DeadlineRow{
			Item:          item,
			StatusLabel:   view.DeadlineStatus(item.Status),
			SeverityLabel: view.Severity(item.Severity),
			DueText:       view.Date(item.DueDate),
			DaysLeftText:  view.DaysLeft(item.DaysLeft),
		})
	}
	return rows
}
