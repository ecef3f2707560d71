package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/noah-isme/lms-student-client/internal/dto"
	"github.com/noah-isme/lms-student-client/internal/session"
	appErrors "github.com/noah-isme/lms-student-client/pkg/errors"
	"github.com/noah-isme/lms-student-client/pkg/httpclient"
	"github.com/noah-isme/lms-student-client/pkg/storage"
)

type testApp struct {
	app     *App
	out     *bytes.Buffer
	session *session.Store
	exports string
	hits    *int64
}

func newTestApp(t *testing.T, token string, register func(r *gin.RouterGroup)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	var hits int64
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		atomic.AddInt64(&hits, 1)
		c.Next()
	})
	register(engine.Group("/api/v1"))
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)

	ctx := context.Background()
	tokens := &storage.MemoryTokenStore{}
	if token != "" {
		require.NoError(t, tokens.Save(ctx, token))
	}
	store, err := session.NewStore(ctx, tokens, nil)
	require.NoError(t, err)

	client := httpclient.New(httpclient.Config{BaseURL: srv.URL, Prefix: "/api/v1"}, store)
	downloads, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	exportDir := t.TempDir()
	exports, err := storage.NewLocalStorage(exportDir)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app := NewApp(AppParams{
		Session: store,
		Services: BuildServices(ServicesParams{
			Client:    client,
			Session:   store,
			Downloads: downloads,
			Exports:   exports,
			ChatLimit: 50,
		}),
		Stdin:  strings.NewReader(""),
		Stdout: out,
	})
	return &testApp{app: app, out: out, session: store, exports: exportDir, hits: &hits}
}

func mockPasswords(t *testing.T, values ...string) {
	t.Helper()
	orig := readPasswordFunc
	var i int
	readPasswordFunc = func(int) ([]byte, error) {
		if i >= len(values) {
			return nil, errors.New("no more input")
		}
		v := values[i]
		i++
		return []byte(v), nil
	}
	t.Cleanup(func() { readPasswordFunc = orig })
}

func meHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"id": 7, "email": "ann@example.com", "full_name": "Ann Lee", "role": "student", "created_at": "2024-01-10T08:00:00"})
}

func TestRunRequiresLoginForPrivateCommands(t *testing.T) {
	ta := newTestApp(t, "", func(r *gin.RouterGroup) {})

	for _, name := range []string{"dashboard", "grades", "chat", "profile", "logout"} {
		err := ta.app.Run(context.Background(), []string{name, "1"})
		require.Error(t, err, name)
		assert.True(t, errors.Is(err, appErrors.ErrLoginRequired), name)
		assert.Equal(t, "sign in first: run `lms login`", Message(err))
	}
	assert.Zero(t, atomic.LoadInt64(ta.hits))
}

func TestRunUsageAndUnknownCommand(t *testing.T) {
	ta := newTestApp(t, "", func(r *gin.RouterGroup) {})

	err := ta.app.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrHelp)
	assert.Contains(t, ta.out.String(), "Usage: lms")

	err = ta.app.Run(context.Background(), []string{"teleport"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"teleport": no such command`)
}

func TestLoginThenDashboard(t *testing.T) {
	var meCalls int64
	ta := newTestApp(t, "", func(r *gin.RouterGroup) {
		r.POST("/auth/login-json", func(c *gin.Context) {
			var body map[string]string
			require.NoError(t, c.ShouldBindJSON(&body))
			if body["password"] != "s3cret" {
				c.JSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect email or password"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"access_token": "tok", "token_type": "bearer"})
		})
		r.GET("/users/me", func(c *gin.Context) {
			atomic.AddInt64(&meCalls, 1)
			assert.Equal(t, "Bearer tok", c.GetHeader("Authorization"))
			meHandler(c)
		})
		r.GET("/courses", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"enrolled":  []gin.H{{"id": 1, "title": "Go basics", "level": "beginner"}},
				"available": []gin.H{{"id": 2, "title": "SQL", "level": "intermediate"}},
			})
		})
		r.GET("/submissions/my", func(c *gin.Context) { c.JSON(http.StatusOK, []gin.H{}) })
		r.GET("/progress/my", func(c *gin.Context) {
			c.JSON(http.StatusOK, []gin.H{{"course_id": 1, "completed_lessons_count": 2, "total_lessons_count": 4}})
		})
		r.GET("/feed/my", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"items": []gin.H{}}) })
	})

	mockPasswords(t, "wrong")
	err := ta.app.Run(context.Background(), []string{"login", "-email", "ann@example.com"})
	require.Error(t, err)
	assert.Equal(t, "Could not sign in. Check your e-mail and password.", Message(err))
	assert.Equal(t, session.StatusAnonymous, ta.session.Status())

	mockPasswords(t, "s3cret")
	require.NoError(t, ta.app.Run(context.Background(), []string{"login", "-email", "ann@example.com"}))
	assert.Contains(t, ta.out.String(), "Signed in as Ann Lee.")
	assert.Equal(t, session.StatusAuthenticated, ta.session.Status())

	ta.out.Reset()
	require.NoError(t, ta.app.Run(context.Background(), []string{"dashboard"}))
	text := ta.out.String()
	assert.Contains(t, text, "LMS | Ann Lee (Student)")
	assert.Contains(t, text, "Go basics")
	assert.Contains(t, text, "50%")
	assert.Contains(t, text, "SQL")
	assert.Contains(t, text, "No submissions yet.")
	assert.Equal(t, int64(1), atomic.LoadInt64(&meCalls))

	ta.out.Reset()
	require.NoError(t, ta.app.Run(context.Background(), []string{"-json", "dashboard"}))
	var page dto.DashboardPage
	require.NoError(t, json.Unmarshal(ta.out.Bytes(), &page))
	require.Len(t, page.Enrolled, 1)
	assert.Equal(t, 50, page.Enrolled[0].Percent)
}

func TestRestoredTokenLoadsProfileOrSignsOut(t *testing.T) {
	ta := newTestApp(t, "stale", func(r *gin.RouterGroup) {
		r.GET("/users/me", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		})
	})

	err := ta.app.Run(context.Background(), []string{"profile"})
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.StatusOf(err))
	assert.Empty(t, ta.session.Token())
	assert.Equal(t, session.StatusAnonymous, ta.session.Status())

	ta.out.Reset()
	require.NoError(t, ta.app.Run(context.Background(), []string{"status"}))
	assert.Contains(t, ta.out.String(), "anonymous")
}

func TestStatusLogsProfileFailure(t *testing.T) {
	ta := newTestApp(t, "stale", func(r *gin.RouterGroup) {
		r.GET("/users/me", func(c *gin.Context) {
			c.JSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		})
	})
	core, logs := observer.New(zap.DebugLevel)
	ta.app.logger = zap.New(core)

	require.NoError(t, ta.app.Run(context.Background(), []string{"status"}))
	assert.Contains(t, ta.out.String(), "anonymous")

	entries := logs.FilterMessage("status: profile not loaded").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Could not load your profile. Please sign in again.", entries[0].ContextMap()["reason"])
}

func TestRegisterConfirmsPassword(t *testing.T) {
	var (
		mu   sync.Mutex
		sent []map[string]interface{}
	)
	ta := newTestApp(t, "", func(r *gin.RouterGroup) {
		r.POST("/auth/register", func(c *gin.Context) {
			var body map[string]interface{}
			require.NoError(t, c.ShouldBindJSON(&body))
			mu.Lock()
			sent = append(sent, body)
			mu.Unlock()
			c.JSON(http.StatusOK, gin.H{"access_token": "tok", "token_type": "bearer",
				"user": gin.H{"id": 7, "email": "ann@example.com", "full_name": "Ann Lee", "role": "student"}})
		})
	})
	args := []string{"register", "-email", "ann@example.com", "-name", "Ann Lee"}

	mockPasswords(t, "abc", "abd")
	err := ta.app.Run(context.Background(), args)
	require.Error(t, err)
	assert.Equal(t, "The passwords do not match.", Message(err))
	assert.Equal(t, session.StatusAnonymous, ta.session.Status())

	mockPasswords(t, "abc", "abc")
	require.NoError(t, ta.app.Run(context.Background(), args))
	assert.Contains(t, ta.out.String(), "Welcome, Ann Lee.")
	assert.Equal(t, session.StatusAuthenticated, ta.session.Status())

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, sent, 1)
	assert.Equal(t, "abc", sent[0]["password"])
}

func TestLogoutClearsSession(t *testing.T) {
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
	})

	require.NoError(t, ta.app.Run(context.Background(), []string{"logout"}))
	assert.Contains(t, ta.out.String(), "Signed out.")
	assert.Equal(t, session.StatusAnonymous, ta.session.Status())
	assert.Nil(t, ta.session.User())
}

func TestChatSendPostsWithoutListing(t *testing.T) {
	var posts, lists int64
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
		r.GET("/courses/:id/chat/messages", func(c *gin.Context) {
			atomic.AddInt64(&lists, 1)
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "boom"})
		})
		r.POST("/courses/:id/chat/messages", func(c *gin.Context) {
			atomic.AddInt64(&posts, 1)
			c.JSON(http.StatusCreated, gin.H{"id": 1, "course_id": 5, "text": "hi", "author_name": "Ann Lee"})
		})
	})

	require.NoError(t, ta.app.Run(context.Background(), []string{"chat-send", "5", "   "}))
	assert.Contains(t, ta.out.String(), "Nothing to send.")
	assert.Zero(t, atomic.LoadInt64(&posts))

	require.NoError(t, ta.app.Run(context.Background(), []string{"chat-send", "5", "hi"}))
	assert.Contains(t, ta.out.String(), "Message sent.")
	assert.Equal(t, int64(1), atomic.LoadInt64(&posts))
	assert.Zero(t, atomic.LoadInt64(&lists))
}

func TestTestSubmitSendsAnswers(t *testing.T) {
	var (
		mu   sync.Mutex
		body map[string]interface{}
	)
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
		r.GET("/tests/:id", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"id": 4, "course_id": 1, "title": "Basics", "questions": []gin.H{
				{"id": 1, "text": "Pick one", "type": "single", "options": []gin.H{{"id": 10, "text": "a"}, {"id": 11, "text": "b"}}},
				{"id": 2, "text": "Pick many", "type": "multiple", "options": []gin.H{{"id": 20, "text": "c"}, {"id": 21, "text": "d"}}},
			}})
		})
		r.GET("/tests/:id/attempts/my", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"items": []gin.H{}}) })
		r.POST("/tests/:id/submit", func(c *gin.Context) {
			mu.Lock()
			defer mu.Unlock()
			require.NoError(t, c.ShouldBindJSON(&body))
			c.JSON(http.StatusOK, gin.H{"attempt_id": 30, "score": 2, "max_score": 2})
		})
	})

	err := ta.app.Run(context.Background(), []string{"test-submit", "-answer", "1:11", "-answer", "2:20,21", "4"})
	require.NoError(t, err)
	assert.Contains(t, ta.out.String(), "Attempt #30 scored 2 / 2.")

	mu.Lock()
	defer mu.Unlock()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"answers":[{"question_id":1,"selected_option_ids":[11]},{"question_id":2,"selected_option_ids":[20,21]}]}`, string(raw))
}

func TestGradesExport(t *testing.T) {
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
		r.GET("/grades/my", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": []gin.H{{
				"assignment_id": 5, "assignment_title": "Loops", "course_id": 1, "course_title": "Go basics",
				"status": "checked", "max_score": 10, "score": 9,
			}}})
		})
	})

	require.NoError(t, ta.app.Run(context.Background(), []string{"grades", "-export", "csv"}))
	assert.Contains(t, ta.out.String(), "Wrote 1 grade(s) to ")

	entries, err := os.ReadDir(ta.exports)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Name(), "grades_"))
	assert.True(t, strings.HasSuffix(entries[0].Name(), ".csv"))

	err = ta.app.Run(context.Background(), []string{"grades", "-export", "xlsx"})
	assert.Error(t, err)
}

func TestCalendarOmitsUnsetDates(t *testing.T) {
	var queries []string
	var mu sync.Mutex
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
		r.GET("/deadlines/my", func(c *gin.Context) {
			mu.Lock()
			queries = append(queries, c.Request.URL.RawQuery)
			mu.Unlock()
			c.JSON(http.StatusOK, gin.H{"items": []gin.H{{
				"assignment_id": 5, "assignment_title": "Loops", "course_id": 1, "course_title": "Go basics",
				"due_date": "2024-06-03T12:00:00Z", "status": "not_submitted", "severity": "due_soon", "days_left": 1,
			}}})
		})
	})

	require.NoError(t, ta.app.Run(context.Background(), []string{"calendar"}))
	require.NoError(t, ta.app.Run(context.Background(), []string{"calendar", "-from", "2024-06-01"}))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"", "from_date=2024-06-01"}, queries)
	assert.Contains(t, ta.out.String(), "Due soon")
	assert.Contains(t, ta.out.String(), "1 day left")
}

func TestIDArgumentsAreValidated(t *testing.T) {
	ta := newTestApp(t, "tok", func(r *gin.RouterGroup) {
		r.GET("/users/me", meHandler)
	})

	err := ta.app.Run(context.Background(), []string{"course", "abc"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "course id must be a positive number")

	err = ta.app.Run(context.Background(), []string{"course"})
	assert.ErrorIs(t, err, ErrHelp)
}

func TestAnswerFlags(t *testing.T) {
	tests := []struct {
		name    string
		values  []string
		want    string
		wantErr bool
	}{
		{name: "single", values: []string{"1:10"}, want: "1:10"},
		{name: "several options", values: []string{"2:20, 21", "3:30"}, want: "2:20,21 3:30"},
		{name: "missing colon", values: []string{"1-10"}, wantErr: true},
		{name: "bad option", values: []string{"1:x"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f answerFlags
			var err error
			for _, v := range tt.values {
				if err = f.Set(v); err != nil {
					break
				}
			}
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.String())
		})
	}
}
