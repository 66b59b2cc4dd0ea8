package service

import (
	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/hash"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
)

// Services is the full set of domain services sharing one repository and
// notifier.
type Services struct {
	Auth    *AuthService
	Users   *UserService
	Admins  *AdminService
	Editors *EditorService
	Courses *CourseService
	Tags    *TagService
	Likes   *LikeService
	Notify  *Notifier
}

func New(r *repo.GormRepo, n *Notifier, index search.CourseIndex, cfg config.Config) (*Services, error) {
	authSvc, err := NewAuthService(r, hash.New(cfg.Auth.BcryptCost), n, cfg)
	if err != nil {
		return nil, err
	}
	users := &UserService{Repo: r, Auth: authSvc, Index: index}
	return &Services{
		Auth:    authSvc,
		Users:   users,
		Admins:  &AdminService{Users: users, SuperAdmin: cfg.SuperAdmin},
		Editors: &EditorService{Users: users},
		Courses: &CourseService{Repo: r, Index: index, Notify: n},
		Tags:    &TagService{Repo: r},
		Likes:   &LikeService{Repo: r},
		Notify:  n,
	}, nil
}
