package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/session"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

// DefaultName is the program name used in usage and the header.
const DefaultName = "lms"

// ErrHelp is returned when usage was printed instead of running a command.
var ErrHelp = errors.New("help provided")

type command struct {
	name    string
	args    string
	summary string
	public  bool
	run     func(ctx context.Context, a *App, args []string) error
}

// commands is the route table. Only the public entries work without a token.
var commands = []command{
	{name: "login", args: "-email EMAIL", summary: "sign in; the password is prompted", public: true, run: runLogin},
	{name: "register", args: "-email EMAIL -name NAME [-role student|teacher]", summary: "create an account and sign in", public: true, run: runRegister},
	{name: "status", summary: "show the session state", public: true, run: runStatus},
	{name: "logout", summary: "sign out and forget the token", run: runLogout},
	{name: "dashboard", summary: "courses, recent submissions and activity", run: runDashboard},
	{name: "course", args: "COURSE_ID", summary: "course page with lessons, progress and tests", run: runCourse},
	{name: "enroll", args: "COURSE_ID", summary: "enroll in a course", run: runEnroll},
	{name: "course-create", args: "-title T -short S -level L [-long D] [-hours N] [-publish]", summary: "publish a course (teachers)", run: runCourseCreate},
	{name: "lesson", args: "[-course COURSE_ID] LESSON_ID", summary: "lesson content and navigation", run: runLesson},
	{name: "assignment", args: "ASSIGNMENT_ID | -lesson LESSON_ID", summary: "assignment with your attempts", run: runAssignment},
	{name: "submit", args: "[-comment TEXT] ASSIGNMENT_ID [FILE...]", summary: "hand in work", run: runSubmit},
	{name: "submission", args: "SUBMISSION_ID", summary: "one submission", run: runSubmission},
	{name: "download", args: "[-name NAME] FILE_ID", summary: "save a submission file", run: runDownload},
	{name: "progress", summary: "progress over all courses", run: runProgress},
	{name: "grades", args: "[-export csv|pdf]", summary: "latest grade per assignment", run: runGrades},
	{name: "calendar", args: "[-from YYYY-MM-DD] [-to YYYY-MM-DD] [-export csv|pdf]", summary: "deadline calendar", run: runCalendar},
	{name: "test", args: "TEST_ID", summary: "questions and your attempts", run: runTest},
	{name: "test-submit", args: "-answer QID:OID[,OID] ... TEST_ID", summary: "answer and submit a test", run: runTestSubmit},
	{name: "chat", args: "[-follow] COURSE_ID", summary: "course chat", run: runChat},
	{name: "chat-send", args: "COURSE_ID TEXT...", summary: "post to the course chat", run: runChatSend},
	{name: "profile", summary: "your account", run: runProfile},
	{name: "profile-update", args: "[-name NAME] [-avatar URL]", summary: "edit your account", run: runProfileUpdate},
	{name: "change-password", summary: "change your password; values are prompted", run: runChangePassword},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// AppParams configures the shell.
type AppParams struct {
	Name     string
	Session  *session.Store
	Services Services
	Stdin    io.Reader
	Stdout   io.Writer
	Logger   *zap.Logger
}

// App is the command-line shell: it guards private commands, draws the
// chrome and renders pages.
type App struct {
	name    string
	session *session.Store
	svc     Services
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
	json    bool
	current command
}

// NewApp constructs the shell.
func NewApp(p AppParams) *App {
	app := &App{
		name:    p.Name,
		session: p.Session,
		svc:     p.Services,
		in:      p.Stdin,
		out:     p.Stdout,
		logger:  p.Logger,
	}
	if app.name == "" {
		app.name = DefaultName
	}
	if app.in == nil {
		app.in = os.Stdin
	}
	if app.out == nil {
		app.out = os.Stdout
	}
	if app.logger == nil {
		app.logger = zap.NewNop()
	}
	return app
}

// Run executes one command. args excludes the program name.
func (a *App) Run(ctx context.Context, args []string) error {
	global := flag.NewFlagSet(a.name, flag.ContinueOnError)
	global.SetOutput(a.out)
	global.BoolVar(&a.json, "json", false, "print pages as JSON")
	global.Usage = a.printUsage
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrHelp
		}
		return err
	}

	rest := global.Args()
	if len(rest) == 0 {
		a.printUsage()
		return ErrHelp
	}
	cmd, ok := lookup(rest[0])
	if !ok {
		a.printUsage()
		return fmt.Errorf("%q: no such command", rest[0])
	}

	if !cmd.public {
		if err := a.requireSession(ctx); err != nil {
			return err
		}
	}
	a.current = cmd
	a.logger.Debug("run command", zap.String("command", cmd.name))
	return cmd.run(ctx, a, rest[1:])
}

// requireSession refuses private commands without a token and makes sure
// the profile is known before any page is drawn.
func (a *App) requireSession(ctx context.Context) error {
	if a.session.Token() == "" {
		return appErrors.Clone(appErrors.ErrLoginRequired, fmt.Sprintf("sign in first: run `%s login`", a.name))
	}
	if a.session.User() != nil {
		return nil
	}
	return a.svc.Auth.LoadProfile(ctx)
}

func (a *App) printUsage() {
	fmt.Fprintf(a.out, "Usage: %s [-json] COMMAND [ARGS]\n\nCommands:\n", a.name)
	for _, c := range commands {
		line := c.name
		if c.args != "" {
			line += " " + c.args
		}
		fmt.Fprintf(a.out, "  %-40s %s\n", line, c.summary)
	}
}

// Message returns the text to show for an error returned by Run.
func Message(err error) string {
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}
