package cli

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

func runAssignment(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	lessonID := fs.Int64("lesson", 0, "open the assignment of this lesson instead")
	if err := parse(fs, args); err != nil {
		return err
	}

	var page *dto.AssignmentPage
	if *lessonID > 0 {
		p, err := a.svc.Assignments.LoadForLesson(ctx, *lessonID)
		if err != nil {
			return err
		}
		page = p
	} else {
		assignmentID, err := idArg(fs, 0, "assignment id")
		if err != nil {
			return err
		}
		if page, err = a.svc.Assignments.Load(ctx, assignmentID); err != nil {
			return err
		}
	}
	return a.render(page.Assignment.Title, page, func(w io.Writer) {
		if page.Assignment.Description != "" {
			fmt.Fprintf(w, "%s\n\n", page.Assignment.Description)
		}
		fmt.Fprintf(w, "Due:\t%s\n", view.Date(page.Assignment.DueDate))
		fmt.Fprintf(w, "Max score:\t%d\n", page.Assignment.MaxScore)

		fmt.Fprintln(w, "\nYour attempts")
		if len(page.History) == 0 {
			fmt.Fprintln(w, "  Not submitted yet.")
		}
		for _, s := range page.History {
			fmt.Fprintf(w, "  #%d\t%s\t%s\t%s\t%s\n",
				s.ID,
				view.Attempt(s.AttemptNumber, len(page.History)),
				view.SubmissionStatus(s.Status),
				view.Score(s.Score, page.Assignment.MaxScore),
				view.DateTime(s.SubmittedAt))
		}
	})
}

func runSubmit(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	comment := fs.String("comment", "", "comment for the teacher")
	if err := parse(fs, args); err != nil {
		return err
	}
	assignmentID, err := idArg(fs, 0, "assignment id")
	if err != nil {
		return err
	}

	var uploads []models.Upload
	for _, path := range fs.Args()[1:] {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open %s: %w", path, err)
		}
		defer f.Close() //nolint:errcheck
		uploads = append(uploads, models.Upload{
			Name:        filepath.Base(path),
			ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Reader:      f,
		})
	}

	page, err := a.svc.Assignments.Submit(ctx, assignmentID, *comment, uploads)
	if err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Submitted %q (%d attempt(s) so far).", page.Assignment.Title, len(page.History)), page)
}

func runSubmission(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}
	submissionID, err := idArg(fs, 0, "submission id")
	if err != nil {
		return err
	}

	page, err := a.svc.Submissions.Load(ctx, submissionID)
	if err != nil {
		return err
	}
	s := page.Submission
	return a.render(fmt.Sprintf("Submission #%d", s.ID), page, func(w io.Writer) {
		fmt.Fprintf(w, "Assignment:\t#%d %s\n", page.Assignment.ID, page.Assignment.Title)
		fmt.Fprintf(w, "Attempt:\t%s\n", view.Attempt(s.AttemptNumber, page.AttemptsTotal))
		fmt.Fprintf(w, "Status:\t%s\n", view.SubmissionStatus(s.Status))
		fmt.Fprintf(w, "Score:\t%s\n", view.Score(s.Score, page.Assignment.MaxScore))
		if submitted := view.DateTime(s.SubmittedAt); submitted != "" {
			fmt.Fprintf(w, "Submitted:\t%s\n", submitted)
		}
		if checked := view.DateTime(s.CheckedAt); checked != "" {
			fmt.Fprintf(w, "Checked:\t%s\n", checked)
		}
		if c := optional(s.StudentComment); c != "" {
			fmt.Fprintf(w, "Your comment:\t%s\n", c)
		}
		if c := optional(s.TeacherComment); c != "" {
			fmt.Fprintf(w, "Teacher comment:\t%s\n", c)
		}
		if page.FileLink != "" {
			fmt.Fprintf(w, "File:\t%s\n", page.FileLink)
		}
		for _, f := range s.Files {
			fmt.Fprintf(w, "  file #%d\t%s\n", f.ID, f.OriginalName)
		}
	})
}

func runDownload(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	name := fs.String("name", "", "file name to use when the server suggests none")
	if err := parse(fs, args); err != nil {
		return err
	}
	fileID, err := idArg(fs, 0, "file id")
	if err != nil {
		return err
	}

	file, err := a.svc.Submissions.Download(ctx, fileID, *name)
	if err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Saved %s (%d bytes).", file.Path, file.Bytes), file)
}

func runGrades(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	exportTo := fs.String("export", "", "write a csv or pdf report instead of printing")
	if err := parse(fs, args); err != nil {
		return err
	}
	format, exporting, err := exportFormat(*exportTo)
	if err != nil {
		return err
	}
	if exporting {
		file, err := a.svc.Reports.ExportGrades(ctx, format)
		if err != nil {
			return err
		}
		return a.notice(fmt.Sprintf("Wrote %d grade(s) to %s.", file.Rows, file.Path), file)
	}

	page, err := a.svc.Grades.Load(ctx)
	if err != nil {
		return err
	}
	return a.render("Grades", page, func(w io.Writer) {
		if len(page.Items) == 0 {
			fmt.Fprintln(w, "No grades yet.")
		}
		for _, g := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.CourseTitle, g.AssignmentTitle, view.SubmissionStatus(g.Status), view.Score(g.Score, g.MaxScore))
			if c := optional(g.TeacherComment); c != "" {
				fmt.Fprintf(w, "%s\n", indent(c, "    > "))
			}
		}
	})
}

func runCalendar(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	from := fs.String("from", "", "first due date, YYYY-MM-DD")
	to := fs.String("to", "", "last due date, YYYY-MM-DD")
	exportTo := fs.String("export", "", "write a csv or pdf report instead of printing")
	if err := parse(fs, args); err != nil {
		return err
	}
	format, exporting, err := exportFormat(*exportTo)
	if err != nil {
		return err
	}
	filter := models.DeadlineFilter{FromDate: *from, ToDate: *to}

	if exporting {
		file, err := a.svc.Reports.ExportDeadlines(ctx, filter, format)
		if err != nil {
			return err
		}
		return a.notice(fmt.Sprintf("Wrote %d deadline(s) to %s.", file.Rows, file.Path), file)
	}

	page, err := a.svc.Calendar.Load(ctx, filter)
	if err != nil {
		return err
	}
	return a.render("Deadlines", page, func(w io.Writer) {
		if len(page.Items) == 0 {
			fmt.Fprintln(w, "No deadlines.")
		}
		for _, row := range page.Items {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				row.DueText, row.Item.CourseTitle, row.Item.AssignmentTitle, row.StatusLabel, row.SeverityLabel, row.DaysLeftText)
		}
	})
}
