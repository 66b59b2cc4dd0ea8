package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/db"
	"github.com/Skotchmaster/legalpadi/internal/dictionary"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/mailer"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

const domain = "http://legalpadi.test"

type mailbox struct {
	mu   sync.Mutex
	msgs []mailer.Message
}

func (m *mailbox) Send(_ context.Context, msg mailer.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.msgs = append(m.msgs, msg)
	return nil
}

var hrefRe = regexp.MustCompile(`href="([^"]+)"`)

// lastLink returns the path of the newest link mailed to email.
func (m *mailbox) lastLink(t *testing.T, email string) string {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.msgs) - 1; i >= 0; i-- {
		if m.msgs[i].Recipients[0] != email {
			continue
		}
		match := hrefRe.FindStringSubmatch(m.msgs[i].HTML)
		require.Len(t, match, 2)
		return strings.TrimPrefix(match[1], domain)
	}
	t.Fatalf("no mail for %s", email)
	return ""
}

type testServer struct {
	e      *echo.Echo
	mail   *mailbox
	notify *service.Notifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := config.Config{
		DomainURL: domain,
		Auth: config.AuthConfig{
			JWTSecret:       "router-test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 48 * time.Hour,
			VerifyLinkTTL:   72 * time.Hour,
			BcryptCost:      bcrypt.MinCost,
		},
		SuperAdmin: config.SuperAdminConfig{
			Email: "root@legalpadi.test", Password: "root-pw", FirstName: "Super", LastName: "Admin",
		},
	}

	mail := &mailbox{}
	notify := &service.Notifier{Mailer: mail, Events: mykafka.NopProducer{}, Topic: "user_events"}
	t.Cleanup(func() {
		notify.Wait()
		_ = db.Close(gdb)
	})

	r := repo.New(gdb)
	svcs, err := service.New(r, notify, &search.DBIndex{Repo: r}, cfg)
	require.NoError(t, err)

	dict := dictionary.New([]dictionary.Entry{
		{Term: "tort", Definition: "A civil wrong."},
		{Term: "estoppel", Definition: "A bar to alleging facts."},
	})

	e := NewEcho(logging.NewWithWriter(io.Discard, "error"))
	Register(e, NewDeps(gdb, svcs, dict))
	return &testServer{e: e, mail: mail, notify: notify}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (s *testServer) signupAndLogin(t *testing.T, email string) transport.LoginResponse {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/v1/user/signup", "", transport.SignupRequest{
		Email: email, Password: "pa55word", FirstName: "Ada", LastName: "Obi",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/v1/user/login", "", transport.LoginRequest{Email: email, Password: "pa55word"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[transport.LoginResponse](t, rec)
}

func TestRouter_Health(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/live", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/health/ready", "", nil).Code)

	rec := s.do(t, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_SessionLifecycle(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	login := s.signupAndLogin(t, "ada@legalpadi.test")
	assert.NotEmpty(t, login.User.UID)

	rec := s.do(t, http.MethodGet, "/api/v1/user/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[transport.UserResponse](t, rec)
	assert.Equal(t, "ada@legalpadi.test", profile.Email)
	assert.False(t, profile.IsVerified)

	rec = s.do(t, http.MethodGet, "/api/v1/user/refresh_token", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Refresh Token Required", decode[errorBody](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/api/v1/user/refresh_token", login.RefreshToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	refreshed := decode[transport.RefreshResponse](t, rec)
	require.NotEmpty(t, refreshed.AccessToken)

	rec = s.do(t, http.MethodGet, "/api/v1/user/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/user/profile", login.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Equal(t, "Token has been revoked, please Login in", body.Message)

	// a token minted by refresh is independent of the revoked one
	rec = s.do(t, http.MethodGet, "/api/v1/user/profile", refreshed.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_AuthFailures(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	login := s.signupAndLogin(t, "ada@legalpadi.test")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
		kind   string
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/user/profile", status: 401, kind: "Access Token Required"},
		{name: "garbage token", method: http.MethodGet, path: "/api/v1/user/profile", token: "abc.def.ghi", status: 400, kind: "Token Error"},
		{name: "refresh as access", method: http.MethodGet, path: "/api/v1/user/profile", token: login.RefreshToken, status: 401, kind: "Access Token Required"},
		{name: "user on admin route", method: http.MethodGet, path: "/api/v1/admin/users", token: login.AccessToken, status: 403, kind: "Access Denied"},
		{name: "user on staff route", method: http.MethodPost, path: "/api/v1/course/create", token: login.AccessToken, status: 403, kind: "Access Denied"},
		{name: "wrong password", method: http.MethodPost, path: "/api/v1/user/login", status: 400, kind: "Request Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body any
			if tc.path == "/api/v1/user/login" {
				body = transport.LoginRequest{Email: "ada@legalpadi.test", Password: "wrong"}
			}
			rec := s.do(t, tc.method, tc.path, tc.token, body)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.kind, decode[errorBody](t, rec).Error)
		})
	}
}

func TestRouter_EmailVerification(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)
	login := s.signupAndLogin(t, "ada@legalpadi.test")
	s.notify.Wait()

	path := s.mail.lastLink(t, "ada@legalpadi.test")
	require.True(t, strings.HasPrefix(path, "/api/v1/user/verify_safe_url/"))

	rec := s.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid URL", decode[errorBody](t, rec).Message)

	rec = s.do(t, http.MethodGet, "/api/v1/user/profile", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[transport.UserResponse](t, rec).IsVerified)
}

func TestRouter_StaffFlow(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/admin/create_super_admin", "", nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = s.do(t, http.MethodPost, "/api/v1/admin/create_super_admin", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/admin/login", "", transport.LoginRequest{Email: "root@legalpadi.test", Password: "root-pw"})
	require.Equal(t, http.StatusOK, rec.Code)
	admin := decode[transport.LoginResponse](t, rec)

	user := s.signupAndLogin(t, "ada@legalpadi.test")
	rec = s.do(t, http.MethodPost, "/api/v1/admin/login", "", transport.LoginRequest{Email: "ada@legalpadi.test", Password: "pa55word"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/v1/admin/users/"+user.User.UID+"/role", admin.AccessToken, transport.SetRoleRequest{Role: "editor"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// the existing token now carries editor rights
	rec = s.do(t, http.MethodPost, "/api/v1/course/create", user.AccessToken, transport.CourseRequest{
		Title: "Law of Torts", Description: "Civil wrongs", Tags: []string{"torts"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decode[transport.CourseResponse](t, rec)
	require.Len(t, course.Tags, 1)

	rec = s.do(t, http.MethodGet, "/api/v1/course/search?q=tort", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[transport.PageResponse[transport.CourseResponse]](t, rec)
	assert.EqualValues(t, 1, page.Total)

	rec = s.do(t, http.MethodPost, "/api/v1/like/"+course.UID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[transport.LikeResponse](t, rec).Likes)

	rec = s.do(t, http.MethodGet, "/api/v1/user/editor/profile", user.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[transport.ProfileWithCoursesResponse](t, rec).Courses, 1)

	rec = s.do(t, http.MethodDelete, "/api/v1/course/delete/"+course.UID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = s.do(t, http.MethodGet, "/api/v1/course/get/"+course.UID, user.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Dictionary(t *testing.T) {
	t.Parallel()
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/v1/dictionary/term?q=tort", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, dictionary.Entry{Term: "TORT", Definition: "A civil wrong."}, decode[dictionary.Entry](t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/dictionary?q=to", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"ESTOPPEL", "TORT"}, decode[transport.SimilarTermsResponse](t, rec).Terms)

	rec = s.do(t, http.MethodGet, "/api/v1/dictionary/term?q=habeas", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/dictionary", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/dictionary/random", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
