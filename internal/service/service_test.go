package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/db"
	"github.com/Skotchmaster/legalpadi/internal/mailer"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
	"github.com/Skotchmaster/legalpadi/internal/transport"
	"github.com/Skotchmaster/legalpadi/pkg/tokens"
)

type capturedMail struct {
	mu   sync.Mutex
	msgs []mailer.Message
}

func (c *capturedMail) Send(_ context.Context, msg mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msgs = append(c.msgs, msg)
	return nil
}

func (c *capturedMail) all() []mailer.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]mailer.Message(nil), c.msgs...)
}

type capturedEvents struct {
	mu     sync.Mutex
	events []mykafka.Event
}

func (c *capturedEvents) PublishEvent(_ context.Context, _, _ string, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ev, ok := event.(mykafka.Event); ok {
		c.events = append(c.events, ev)
	}
	return nil
}

func (c *capturedEvents) Close() error { return nil }

func (c *capturedEvents) types() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	for i, ev := range c.events {
		out[i] = ev.Type
	}
	return out
}

func (c *capturedEvents) count(typ string) int {
	n := 0
	for _, got := range c.types() {
		if got == typ {
			n++
		}
	}
	return n
}

type testEnv struct {
	DB      *gorm.DB
	Repo    *repo.GormRepo
	Auth    *AuthService
	Users   *UserService
	Admins  *AdminService
	Editors *EditorService
	Courses *CourseService
	Tags    *TagService
	Likes   *LikeService
	Notify  *Notifier
	Mail    *capturedMail
	Events  *capturedEvents
}

func testConfig() config.Config {
	return config.Config{
		DomainURL: "http://legalpadi.test",
		Auth: config.AuthConfig{
			JWTSecret:       "service-test-secret",
			AccessTokenTTL:  time.Hour,
			RefreshTokenTTL: 48 * time.Hour,
			VerifyLinkTTL:   72 * time.Hour,
			BcryptCost:      bcrypt.MinCost,
		},
		SuperAdmin: config.SuperAdminConfig{
			Email:     "root@legalpadi.test",
			Password:  "root-password",
			FirstName: "Super",
			LastName:  "Admin",
		},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb, err := db.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb))

	cfg := testConfig()
	mail := &capturedMail{}
	events := &capturedEvents{}
	notify := &Notifier{Mailer: mail, Events: events, Topic: "user_events"}
	t.Cleanup(func() {
		notify.Wait()
		_ = db.Close(gdb)
	})

	r := repo.New(gdb)
	svcs, err := New(r, notify, &search.DBIndex{Repo: r}, cfg)
	require.NoError(t, err)

	return &testEnv{
		DB:      gdb,
		Repo:    r,
		Auth:    svcs.Auth,
		Users:   svcs.Users,
		Admins:  svcs.Admins,
		Editors: svcs.Editors,
		Courses: svcs.Courses,
		Tags:    svcs.Tags,
		Likes:   svcs.Likes,
		Notify:  notify,
		Mail:    mail,
		Events:  events,
	}
}

func (e *testEnv) signup(t *testing.T, email string) *models.User {
	t.Helper()
	u, err := e.Users.Signup(context.Background(), transport.SignupRequest{
		Email: email, Password: "pa55word", FirstName: "Ada", LastName: "Obi",
	})
	require.NoError(t, err)
	return u
}

// session logs email in and returns the authenticated principal together with
// the refresh token.
func (e *testEnv) session(t *testing.T, email string) (*auth.Principal, string) {
	t.Helper()
	ctx := context.Background()
	res, err := e.Auth.Login(ctx, email, "pa55word")
	require.NoError(t, err)
	p, err := e.Auth.Authenticate(ctx, res.AccessToken, tokens.Access)
	require.NoError(t, err)
	return p, res.RefreshToken
}

func (e *testEnv) staff(t *testing.T, email string, role models.Role) *models.User {
	t.Helper()
	u := e.signup(t, email)
	if role != models.RoleUser {
		var err error
		u, err = e.Users.SetRole(context.Background(), u.ID, string(role))
		require.NoError(t, err)
	}
	return u
}
