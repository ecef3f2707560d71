package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/noah-isme/lms-student-client/internal/view"
)

var sections = []string{"dashboard", "progress", "grades", "calendar", "profile"}

// render prints page as JSON, or draws the chrome and calls body.
func (a *App) render(title string, page interface{}, body func(w io.Writer)) error {
	if a.json {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(page)
	}

	a.header()
	fmt.Fprintf(a.out, "\n== %s ==\n\n", title)
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	body(tw)
	return tw.Flush()
}

// header draws the app name with the signed-in user and the section line.
func (a *App) header() {
	line := strings.ToUpper(a.name)
	if user := a.session.User(); user != nil {
		name := user.FullName
		if name == "" {
			name = user.Email
		}
		line = fmt.Sprintf("%s | %s (%s)", line, name, view.Role(user.Role))
	}
	fmt.Fprintln(a.out, line)
	fmt.Fprintln(a.out, strings.Join(sections, " . "))
}

// notice prints a one-line result, or a JSON object in JSON mode.
func (a *App) notice(message string, payload interface{}) error {
	if a.json {
		if payload == nil {
			payload = map[string]string{"message": message}
		}
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}
	_, err := fmt.Fprintln(a.out, message)
	return err
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func indent(text, prefix string) string {
	if text == "" {
		return ""
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}
