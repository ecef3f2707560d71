package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

func runTest(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}
	testID, err := idArg(fs, 0, "test id")
	if err != nil {
		return err
	}

	sheet, err := a.svc.Tests.Open(ctx, testID)
	if err != nil {
		return err
	}
	page := sheet.Page()
	return a.render(page.Test.Title, page, func(w io.Writer) {
		writeTest(w, page)
	})
}

func writeTest(w io.Writer, page *dto.TestPage) {
	if d := optional(page.Test.Description); d != "" {
		fmt.Fprintf(w, "%s\n", d)
	}
	if page.Test.TimeLimitMinutes != nil {
		fmt.Fprintf(w, "Time limit:\t%d min\n", *page.Test.TimeLimitMinutes)
	}
	for i, q := range page.Test.Questions {
		kind := "one answer"
		if q.Type == models.QuestionMultiple {
			kind = "several answers"
		}
		fmt.Fprintf(w, "\n%d. %s (question #%d, %s)\n", i+1, q.Text, q.ID, kind)
		for _, o := range q.Options {
			fmt.Fprintf(w, "   [%d]\t%s\n", o.ID, o.Text)
		}
	}
	if len(page.Attempts) > 0 {
		fmt.Fprintln(w, "\nYour attempts")
		for i, at := range page.Attempts {
			score := "Not graded"
			if at.Score != nil && at.MaxScore != nil {
				score = view.Score(at.Score, *at.MaxScore)
			}
			fmt.Fprintf(w, "  %s\t%s\t%s\n", view.Attempt(i+1, len(page.Attempts)), view.DateTime(at.FinishedAt), score)
		}
	}
}

func runTestSubmit(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	var answers answerFlags
	fs.Var(&answers, "answer", "QUESTION_ID:OPTION_ID[,OPTION_ID], repeatable")
	if err := parse(fs, args); err != nil {
		return err
	}
	testID, err := idArg(fs, 0, "test id")
	if err != nil {
		return err
	}

	sheet, err := a.svc.Tests.Open(ctx, testID)
	if err != nil {
		return err
	}
	for _, answer := range answers {
		for _, option := range answer.options {
			if err := sheet.Select(answer.question, option); err != nil {
				return err
			}
		}
	}

	result, err := sheet.Submit(ctx)
	if result == nil {
		return err
	}
	if err != nil && !a.json {
		fmt.Fprintln(a.out, Message(err))
	}
	score := result.Score
	return a.notice(fmt.Sprintf("Attempt #%d scored %s.", result.AttemptID, view.Score(&score, result.MaxScore)), sheet.Page())
}
