package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/config"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

// AdminService manages accounts with the admin role.
type AdminService struct {
	Users      *UserService
	SuperAdmin config.SuperAdminConfig
}

// CreateSuperAdmin bootstraps the configured admin account once.
func (s *AdminService) CreateSuperAdmin(ctx context.Context) (*models.User, error) {
	cfg := s.SuperAdmin
	if cfg.Email == "" || cfg.Password == "" {
		return nil, apperr.ErrNotConfigured
	}
	u, err := s.Users.newAccount(ctx, cfg.Email, cfg.Password, cfg.FirstName, cfg.LastName, cfg.PhoneNumber, models.RoleAdmin, apperr.ErrAdminAlreadyExists)
	if err != nil {
		return nil, err
	}
	u, err = s.Users.Repo.UpdateUser(ctx, u.ID, map[string]any{"is_verified": true})
	if err != nil {
		return nil, storageError(ctx, "super_admin_verify", err)
	}
	if err := s.Users.Auth.sendCredentials(ctx, u, cfg.Password); err != nil {
		logging.FromContext(ctx).Error("credentials_mail_failed", "user_id", u.ID, "error", err)
	}
	logging.FromContext(ctx).Info("super_admin_created", "user_id", u.ID)
	return u, nil
}

func (s *AdminService) Create(ctx context.Context, req transport.CreateStaffRequest) (*models.User, error) {
	u, err := s.Users.newAccount(ctx, req.Email, req.Password, req.FirstName, req.LastName, req.PhoneNumber, models.RoleAdmin, apperr.ErrAdminAlreadyExists)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Auth.sendVerification(ctx, u); err != nil {
		logging.FromContext(ctx).Error("verification_link_failed", "user_id", u.ID, "error", err)
	}
	return u, nil
}

func (s *AdminService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.Repo.UserByID(ctx, id, models.RoleAdmin)
	if err != nil {
		return nil, lookupError(ctx, "get_admin", err, apperr.ErrAdminNotFound)
	}
	return u, nil
}

func (s *AdminService) List(ctx context.Context) ([]models.User, error) {
	admins, err := s.Users.Repo.UsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		return nil, storageError(ctx, "list_admins", err)
	}
	return admins, nil
}

func (s *AdminService) Update(ctx context.Context, id string, req transport.UpdateProfileRequest) (*models.User, error) {
	return s.Users.updateAccount(ctx, id, req, []models.Role{models.RoleAdmin}, apperr.ErrAdminNotFound, apperr.ErrAdminAlreadyExists)
}

func (s *AdminService) Delete(ctx context.Context, actor *models.User, id string) error {
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	return s.Users.remove(ctx, id, actorID, []models.Role{models.RoleAdmin}, apperr.ErrAdminNotFound)
}

// EditorService manages accounts with the editor role.
type EditorService struct {
	Users *UserService
}

// Create stores a new editor. Without a password one is generated; either
// way the credentials are mailed together with a verification link.
func (s *EditorService) Create(ctx context.Context, req transport.CreateStaffRequest) (*models.User, error) {
	password := req.Password
	if password == "" {
		password = generatePassword()
	}
	u, err := s.Users.newAccount(ctx, req.Email, password, req.FirstName, req.LastName, req.PhoneNumber, models.RoleEditor, apperr.ErrEditorAlreadyExists)
	if err != nil {
		return nil, err
	}
	if err := s.Users.Auth.sendCredentials(ctx, u, password); err != nil {
		logging.FromContext(ctx).Error("credentials_mail_failed", "user_id", u.ID, "error", err)
	}
	return u, nil
}

func generatePassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

func (s *EditorService) Get(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Users.Repo.UserWithCourses(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, "get_editor", err, apperr.ErrEditorNotFound)
	}
	if u.Role != models.RoleEditor {
		return nil, apperr.ErrEditorNotFound
	}
	return u, nil
}

func (s *EditorService) List(ctx context.Context) ([]models.User, error) {
	editors, err := s.Users.Repo.UsersByRole(ctx, models.RoleEditor)
	if err != nil {
		return nil, storageError(ctx, "list_editors", err)
	}
	return editors, nil
}

// Update lets an admin edit any editor and an editor edit only themselves.
func (s *EditorService) Update(ctx context.Context, actor *models.User, id string, req transport.UpdateProfileRequest) (*models.User, error) {
	if err := editorActorAllowed(actor, id); err != nil {
		return nil, err
	}
	return s.Users.updateAccount(ctx, id, req, []models.Role{models.RoleEditor}, apperr.ErrEditorNotFound, apperr.ErrEditorAlreadyExists)
}

func (s *EditorService) Delete(ctx context.Context, actor *models.User, id string) error {
	if err := editorActorAllowed(actor, id); err != nil {
		return err
	}
	return s.Users.remove(ctx, id, actor.ID, []models.Role{models.RoleEditor}, apperr.ErrEditorNotFound)
}

func editorActorAllowed(actor *models.User, id string) error {
	if actor == nil {
		return apperr.ErrAccessDenied
	}
	if actor.Role == models.RoleAdmin || actor.ID == id {
		return nil
	}
	return apperr.ErrAccessDenied
}
