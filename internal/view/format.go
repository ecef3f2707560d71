package view

import (
	"fmt"
	"math"
	"strconv"

	"github.com/noah-isme/lms-student-client/internal/models"
)

const (
	dateLayout     = "2 January 2006"
	dateTimeLayout = "2 Jan 2006 15:04"
)

// Percent returns done/total as a rounded percentage, 0 when total is 0.
func Percent(done, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(done) / float64(total) * 100))
}

// SubmissionStatus labels a submission status.
func SubmissionStatus(status models.SubmissionStatus) string {
	switch status {
	case models.SubmissionDraft:
		return "Draft"
	case models.SubmissionSubmitted:
		return "Submitted"
	case models.SubmissionChecked:
		return "Checked"
	default:
		return string(status)
	}
}

// DeadlineStatus labels a deadline status.
func DeadlineStatus(status models.DeadlineStatus) string {
	if status == models.DeadlineNotSubmitted {
		return "Not submitted"
	}
	return SubmissionStatus(models.SubmissionStatus(status))
}

// Severity labels a deadline severity.
func Severity(severity models.DeadlineSeverity) string {
	switch severity {
	case models.SeverityOverdue:
		return "Overdue"
	case models.SeverityDueSoon:
		return "Due soon"
	default:
		return "Normal"
	}
}

// DaysLeft describes the remaining time until a deadline.
func DaysLeft(days *int) string {
	switch {
	case days == nil:
		return "No due date"
	case *days < 0:
		return fmt.Sprintf("Overdue by %s", pluralDays(-*days))
	case *days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("%s left", pluralDays(*days))
	}
}

func pluralDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return strconv.Itoa(n) + " days"
}

// Date formats a calendar date in the local zone.
func Date(t models.Time) string {
	if t.IsZero() {
		return "No date"
	}
	return t.Local().Format(dateLayout)
}

// DateTime formats a timestamp in the local zone, or "" when unset.
func DateTime(t models.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(dateTimeLayout)
}

// Score renders "score / max", or "Not graded" without a score.
func Score(score *float64, max int) string {
	if score == nil {
		return "Not graded"
	}
	return fmt.Sprintf("%s / %d", Number(*score), max)
}

// Number prints integers without decimals and others with one.
func Number(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// Role labels an account role.
func Role(role models.UserRole) string {
	switch role {
	case models.RoleTeacher:
		return "Teacher"
	case models.RoleStudent:
		return "Student"
	default:
		return string(role)
	}
}

// Attempt renders "attempt N of M"; total 0 drops the second half.
func Attempt(number, total int) string {
	if total <= 0 {
		return fmt.Sprintf("attempt %d", number)
	}
	return fmt.Sprintf("attempt %d of %d", number, total)
}
