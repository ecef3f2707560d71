package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/lms-student-client/internal/models"
	"github.com/noah-isme/lms-student-client/internal/service"
	"github.com/noah-isme/lms-student-client/internal/session"
	"github.com/noah-isme/lms-student-client/internal/view"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
)

func displayName(user *models.User) string {
	if user == nil {
		return "unknown user"
	}
	if user.FullName != "" {
		return user.FullName
	}
	return user.Email
}

func runLogin(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	email := fs.String("email", "", "account e-mail")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		value, err := a.promptLine("E-mail")
		if err != nil {
			return err
		}
		*email = value
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}

	if err := a.svc.Auth.Login(ctx, *email, password); err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Signed in as %s.", displayName(a.session.User())), a.session.Snapshot())
}

func runRegister(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	email := fs.String("email", "", "account e-mail")
	name := fs.String("name", "", "full name")
	role := fs.String("role", string(models.RoleStudent), "student or teacher")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *email == "" || *name == "" {
		fs.Usage()
		return ErrHelp
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}
	confirm, err := a.promptPassword("Repeat password")
	if err != nil {
		return err
	}
	if password != confirm {
		return appErrors.Clone(appErrors.ErrValidation, service.MessagePasswordMismatch)
	}

	err = a.svc.Auth.Register(ctx, models.RegisterRequest{
		Email:    *email,
		Password: password,
		FullName: *name,
		Role:     models.UserRole(*role),
	})
	if err != nil {
		return err
	}
	return a.notice(fmt.Sprintf("Welcome, %s. You are signed in.", displayName(a.session.User())), a.session.Snapshot())
}

func runLogout(ctx context.Context, a *App, _ []string) error {
	a.svc.Auth.Logout(ctx)
	return a.notice("Signed out.", nil)
}

type statusView struct {
	Status    session.Status `json:"status"`
	User      *models.User   `json:"user,omitempty"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
	Error     string         `json:"error,omitempty"`
}

func runStatus(ctx context.Context, a *App, _ []string) error {
	if a.session.Token() != "" && a.session.User() == nil {
		// a failure clears the token, which the status below reports
		if err := a.svc.Auth.LoadProfile(ctx); err != nil {
			a.logger.Debug("status: profile not loaded", zap.String("reason", Message(err)))
		}
	}

	snap := a.session.Snapshot()
	out := statusView{Status: snap.Status(), User: snap.User, Error: snap.Error}
	if snap.Token != "" {
		if claims, err := a.session.Claims(); err == nil && claims.ExpiresAt != nil {
			expires := claims.ExpiresAt.Time
			out.ExpiresAt = &expires
		}
	}

	return a.render("Session", out, func(w io.Writer) {
		fmt.Fprintf(w, "Status:\t%s\n", out.Status)
		if out.User != nil {
			fmt.Fprintf(w, "User:\t%s <%s>\n", displayName(out.User), out.User.Email)
			fmt.Fprintf(w, "Role:\t%s\n", view.Role(out.User.Role))
		}
		if out.ExpiresAt != nil {
			fmt.Fprintf(w, "Token expires:\t%s\n", out.ExpiresAt.Local().Format("2 Jan 2006 15:04"))
		}
		if out.Error != "" {
			fmt.Fprintf(w, "Last error:\t%s\n", out.Error)
		}
	})
}

func runProfile(ctx context.Context, a *App, _ []string) error {
	page, err := a.svc.Profile.Load(ctx)
	if err != nil {
		return err
	}
	user := page.User
	return a.render("Profile", page, func(w io.Writer) {
		fmt.Fprintf(w, "Name:\t%s\n", user.FullName)
		fmt.Fprintf(w, "E-mail:\t%s\n", user.Email)
		fmt.Fprintf(w, "Role:\t%s\n", view.Role(user.Role))
		fmt.Fprintf(w, "Member since:\t%s\n", view.Date(user.CreatedAt))
		if user.AvatarURL != nil {
			fmt.Fprintf(w, "Avatar:\t%s\n", *user.AvatarURL)
		}
	})
}

func runProfileUpdate(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	name := fs.String("name", "", "new full name")
	avatar := fs.String("avatar", "", "new avatar URL")
	if err := parse(fs, args); err != nil {
		return err
	}

	var req models.UpdateProfileRequest
	if isSet(fs, "name") {
		req.FullName = name
	}
	if isSet(fs, "avatar") {
		req.AvatarURL = avatar
	}
	if req.FullName == nil && req.AvatarURL == nil {
		fs.Usage()
		return ErrHelp
	}

	user, err := a.svc.Profile.Update(ctx, req)
	if err != nil {
		return err
	}
	return a.notice("Profile saved.", user)
}

func runChangePassword(ctx context.Context, a *App, args []string) error {
	fs := a.flags()
	if err := parse(fs, args); err != nil {
		return err
	}

	var form service.PasswordForm
	var err error
	if form.CurrentPassword, err = a.promptPassword("Current password"); err != nil {
		return err
	}
	if form.NewPassword, err = a.promptPassword("New password"); err != nil {
		return err
	}
	if form.Confirm, err = a.promptPassword("Repeat new password"); err != nil {
		return err
	}

	if err := a.svc.Profile.ChangePassword(ctx, form); err != nil {
		return err
	}
	return a.notice(service.MessagePasswordChanged, nil)
}
