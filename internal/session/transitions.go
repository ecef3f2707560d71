package session

import "github.com/noah-isme/lms-student-client/internal/models"

// Status is derived from a Snapshot, never stored.
type Status string

const (
	StatusAnonymous      Status = "anonymous"
	StatusAuthenticating Status = "authenticating"
	StatusAuthenticated  Status = "authenticated"
)

// Snapshot is the complete session state at one point in time.
type Snapshot struct {
	Token   string       `json:"-"`
	User    *models.User `json:"user,omitempty"`
	Loading bool         `json:"loading"`
	Error   string       `json:"error,omitempty"`
}

// Status reports the session status. A token alone makes the session
// authenticated, even while the profile is still unknown.
func (s Snapshot) Status() Status {
	switch {
	case s.Token != "":
		return StatusAuthenticated
	case s.Loading:
		return StatusAuthenticating
	default:
		return StatusAnonymous
	}
}

// BeginAuth starts a login or register flow.
func BeginAuth(s Snapshot) Snapshot {
	s.Loading = true
	s.Error = ""
	return s
}

// TokenIssued records a freshly issued token. user may be nil when the
// server did not include it.
func TokenIssued(s Snapshot, token string, user *models.User) Snapshot {
	s.Token = token
	if user != nil {
		s.User = user
	}
	return s
}

// AuthFailed ends a login or register flow without a session.
func AuthFailed(s Snapshot, message string) Snapshot {
	s.Loading = false
	s.Error = message
	return s
}

// AuthDone ends a successful flow.
func AuthDone(s Snapshot) Snapshot {
	s.Loading = false
	return s
}

// ProfileLoaded stores the current user.
func ProfileLoaded(s Snapshot, user *models.User) Snapshot {
	s.User = user
	s.Loading = false
	return s
}

// ProfileFailed drops the token so that the user has to sign in again. The
// user itself is kept so the message can still address them.
func ProfileFailed(s Snapshot, message string) Snapshot {
	s.Token = ""
	s.Loading = false
	s.Error = message
	return s
}

// LoggedOut clears the session unconditionally.
func LoggedOut(s Snapshot) Snapshot {
	s.Token = ""
	s.User = nil
	s.Loading = false
	return s
}

// ErrorCleared dismisses the current message.
func ErrorCleared(s Snapshot) Snapshot {
	s.Error = ""
	return s
}
