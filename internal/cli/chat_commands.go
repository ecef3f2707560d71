package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/view"
)

func writeMessages(w io.Writer, messages []models.ChatMessage) {
	for _, m := range messages {
		author := m.AuthorName
		if m.IsTeacher {
			author += " (teacher)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", view.DateTime(m.CreatedAt), author, m.Text)
	}
}

func runChat(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	follow := fs.Bool("follow", false, "keep refreshing until interrupted")
	if err := parse(fs, args); err != nil {
		return err
	}
	courseID, err := idArg(fs, 0, "course id")
	if err != nil {
		return err
	}

	room, err := a.svc.Chat.Room(ctx, courseID)
	if err != nil {
		return err
	}
	err = a.render(fmt.Sprintf("Course #%d chat", courseID), room.Page(), func(w io.Writer) {
		if len(room.Messages()) == 0 {
			fmt.Fprintln(w, "No messages yet.")
		}
		writeMessages(w, room.Messages())
	})
	if err != nil || !*follow {
		return err
	}

	seen := make(map[int64]bool)
	for _, m := range room.Messages() {
		seen[m.ID] = true
	}
	err = room.Poll(ctx, func(messages []models.ChatMessage) {
		var fresh []models.ChatMessage
		for _, m := range messages {
			if !seen[m.ID] {
				seen[m.ID] = true
				fresh = append(fresh, m)
			}
		}
		if len(fresh) == 0 {
			return
		}
		if a.json {
			_ = a.notice("", fresh)
			return
		}
		writeMessages(a.out, fresh)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func runChatSend(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}
	courseID, err := idArg(fs, 0, "course id")
	if err != nil {
		return err
	}

	text := strings.Join(fs.Args()[1:], " ")
	if strings.TrimSpace(text) == "" {
		return a.notice("Nothing to send.", nil)
	}

	msg, err := a.svc.Chat.Post(ctx, courseID, text)
	if err != nil {
		return err
	}
	if msg == nil {
		return a.notice("Nothing to send.", nil)
	}
	return a.notice("Message sent.", msg)
}
