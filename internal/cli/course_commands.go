package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

func runDashboard(ctx context.Context, a *App, _ []string) error {
	page, err := a.svc.Dashboard.Load(ctx)
	if err != nil {
		return err
	}
	return a.render("Dashboard", page, func(w io.Writer) {
		fmt.Fprintln(w, "My courses")
		if len(page.Enrolled) == 0 {
			fmt.Fprintln(w, "  You are not enrolled in any course yet.")
		}
		for _, card := range page.Enrolled {
			fmt.Fprintf(w, "  #%d\t%s\t%d%%\t%d/%d lessons\n", card.Course.ID, card.Course.Title, card.Percent, card.Completed, card.Total)
		}

		fmt.Fprintln(w, "\nAvailable courses")
		if len(page.Available) == 0 {
			fmt.Fprintln(w, "  Nothing new to enroll in.")
		}
		for _, course := range page.Available {
			fmt.Fprintf(w, "  #%d\t%s\t%s\n", course.ID, course.Title, course.Level)
		}

		fmt.Fprintln(w, "\nRecent submissions")
		if len(page.RecentSubmissions) == 0 {
			fmt.Fprintln(w, "  No submissions yet.")
		}
		for _, s := range page.RecentSubmissions {
			fmt.Fprintf(w, "  #%d\tassignment #%d\t%s\t%s\n", s.ID, s.AssignmentID, view.SubmissionStatus(s.Status), view.DateTime(s.SubmittedAt))
		}

		if len(page.Feed) > 0 {
			fmt.Fprintln(w, "\nActivity")
			for _, item := range page.Feed {
				fmt.Fprintf(w, "  %s\t%s\t%s\n", view.DateTime(item.CreatedAt), item.CourseTitle, item.ShortText)
			}
		}
	})
}

func runCourse(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}
	courseID, err := idArg(fs, 0, "course id")
	if err != nil {
		return err
	}

	page, err := a.svc.Courses.Load(ctx, courseID)
	if err != nil {
		return err
	}
	return a.render(page.Course.Title, page, func(w io.Writer) {
		if page.Course.ShortDescription != "" {
			fmt.Fprintln(w, page.Course.ShortDescription)
		}
		fmt.Fprintf(w, "Level:\t%s\n", page.Course.Level)
		if page.Course.EstimatedHours != nil {
			fmt.Fprintf(w, "Estimated hours:\t%d\n", *page.Course.EstimatedHours)
		}
		fmt.Fprintf(w, "Progress:\t%d%% (%d/%d lessons)\n",
			page.Percent, page.Progress.CompletedLessonsCount, page.Progress.TotalLessonsCount)

		for _, m := range page.Structure.Modules {
			fmt.Fprintf(w, "\n%s\n", m.Title)
			for _, l := range m.Lessons {
				fmt.Fprintf(w, "  #%d\t%s\n", l.ID, l.Title)
			}
		}

		if len(page.Tests) > 0 {
			fmt.Fprintln(w, "\nTests")
			for _, t := range page.Tests {
				limit := "no time limit"
				if t.TimeLimitMinutes != nil {
					limit = fmt.Sprintf("%d min", *t.TimeLimitMinutes)
				}
				fmt.Fprintf(w, "  #%d\t%s\t%s\n", t.ID, t.Title, limit)
			}
		}
	})
}

func runEnroll(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}
	courseID, err := idArg(fs, 0, "course id")
	if err != nil {
		return err
	}

	course, err := a.svc.Courses.Enroll(ctx, courseID)
	if err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Enrolled in %q.", course.Title), course)
}

func runCourseCreate(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	title := fs.String("title", "", "course title")
	short := fs.String("short", "", "short description")
	long := fs.String("long", "", "long description")
	level := fs.String("level", "", "course level")
	tags := fs.String("tags", "", "comma separated tags")
	hours := fs.Int("hours", 0, "estimated hours")
	publish := fs.Bool("publish", false, "publish immediately")
	if err := parse(fs, args); err != nil {
		return err
	}

	req := models.CreateCourseRequest{
		Title:            *title,
		ShortDescription: *short,
		LongDescription:  *long,
		Level:            *level,
		IsPublished:      *publish,
	}
	if user := a.session.User(); user != nil {
		req.OwnerID = user.ID
	}
	if *tags != "" {
		req.Tags = tags
	}
	if *hours > 0 {
		req.EstimatedHours = hours
	}

	course, err := a.svc.Courses.Create(ctx, req)
	if err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Created course #%d %q.", course.ID, course.Title), course)
}

func runLesson(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	courseID := fs.Int64("course", 0, "course id, enables previous/next navigation")
	if err := parse(fs, args); err != nil {
		return err
	}
	lessonID, err := idArg(fs, 0, "lesson id")
	if err != nil {
		return err
	}

	page, err := a.svc.Lessons.Load(ctx, lessonID, *courseID)
	if err != nil {
		return err
	}
	return a.render(page.Lesson.Title, page, func(w io.Writer) {
		if page.Lesson.ShortDescription != "" {
			fmt.Fprintf(w, "%s\n\n", page.Lesson.ShortDescription)
		}
		fmt.Fprintln(w, page.Text)
		if page.Assignment != nil {
			fmt.Fprintf(w, "\nAssignment #%d\t%s\n", page.Assignment.ID, page.Assignment.Title)
			fmt.Fprintf(w, "Due:\t%s\n", view.Date(page.Assignment.DueDate))
			fmt.Fprintf(w, "Max score:\t%d\n", page.Assignment.MaxScore)
		}
		if page.Previous != nil {
			fmt.Fprintf(w, "\nPrevious:\t#%d %s\n", page.Previous.ID, page.Previous.Title)
		}
		if page.Next != nil {
			fmt.Fprintf(w, "Next:\t#%d %s\n", page.Next.ID, page.Next.Title)
		}
	})
}

func runProgress(ctx context.Context, a *App, _ []string) error {
	page, err := a.svc.Progress.Load(ctx)
	if err != nil {
		return err
	}
	return a.render("Progress", page, func(w io.Writer) {
		fmt.Fprintf(w, "Overall:\t%d%% (%d/%d lessons)\n", page.Percent, page.CompletedLessons, page.TotalLessons)
		if page.AverageScore != nil {
			fmt.Fprintf(w, "Average score:\t%s\n", view.Number(*page.AverageScore))
		}
		fmt.Fprintln(w)
		for _, row := range page.Courses {
			score := "-"
			if row.Snapshot.AvgScore != nil {
				score = view.Number(*row.Snapshot.AvgScore)
			}
			fmt.Fprintf(w, "  course #%d\t%d%%\t%d/%d\tavg %s\n",
				row.Snapshot.CourseID, row.Percent, row.Snapshot.CompletedLessonsCount, row.Snapshot.TotalLessonsCount, score)
		}
	})
}
