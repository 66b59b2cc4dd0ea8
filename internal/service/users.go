package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/auth"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
	"github.com/Skotchmaster/legalpadi/internal/transport"
)

type UserService struct {
	Repo  *repo.GormRepo
	Auth  *AuthService
	Index search.CourseIndex
}

func (s *UserService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "user.signup")

	user, err := s.newAccount(ctx, req.Email, req.Password, req.FirstName, req.LastName, "", models.RoleUser, apperr.ErrUserAlreadyExists)
	if err != nil {
		return nil, err
	}
	if err := s.Auth.sendVerification(ctx, user); err != nil {
		l.Error("verification_link_failed", "user_id", user.ID, "error", err)
	}
	s.Auth.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventUserRegistered, user.ID, user.ID))
	l.Info("signup_successful", "user_id", user.ID)
	return user, nil
}

// newAccount validates input, hashes the password and stores a user with
// role. dup is returned when the email is taken.
func (s *UserService) newAccount(ctx context.Context, email, password, first, last, phone string, role models.Role, dup *apperr.Error) (*models.User, error) {
	email = normalizeEmail(email)
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	switch {
	case !validEmail(email):
		return nil, badRequest("A valid email is required")
	case password == "":
		return nil, badRequest("Password is required")
	case first == "" || last == "":
		return nil, badRequest("First and last name are required")
	}

	if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
		return nil, dup
	} else if !errors.Is(err, repo.ErrNotFound) {
		return nil, storageError(ctx, "account_lookup", err)
	}

	digest, err := s.Auth.Hasher.Hash(password)
	if err != nil {
		return nil, badRequest("Password cannot be used")
	}

	user := &models.User{
		FirstName:    first,
		LastName:     last,
		Email:        email,
		PasswordHash: digest,
		PhoneNumber:  strings.TrimSpace(phone),
		Role:         role,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, dup
		}
		return nil, storageError(ctx, "account_create", err)
	}
	return user, nil
}

func (s *UserService) Profile(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.UserByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, "user_profile", err, apperr.ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) ProfileWithCourses(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.UserWithCourses(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, "user_profile", err, apperr.ErrUserNotFound)
	}
	return u, nil
}

func (s *UserService) Role(ctx context.Context, id string) (models.Role, error) {
	u, err := s.Profile(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// UpdateProfile applies a self-service patch. Role and premium status are
// not part of it. A new email clears verification and sends a fresh link.
func (s *UserService) UpdateProfile(ctx context.Context, id string, req transport.UpdateProfileRequest) (*models.User, error) {
	return s.updateAccount(ctx, id, req, nil, apperr.ErrUserNotFound, apperr.ErrUserAlreadyExists)
}

func (s *UserService) updateAccount(ctx context.Context, id string, req transport.UpdateProfileRequest, roles []models.Role, notFound, dup *apperr.Error) (*models.User, error) {
	current, err := s.Repo.UserByID(ctx, id, roles...)
	if err != nil {
		return nil, lookupError(ctx, "account_update", err, notFound)
	}

	fields := map[string]any{}
	if req.FirstName != nil {
		if v := strings.TrimSpace(*req.FirstName); v != "" {
			fields["first_name"] = v
		}
	}
	if req.LastName != nil {
		if v := strings.TrimSpace(*req.LastName); v != "" {
			fields["last_name"] = v
		}
	}
	if req.PhoneNumber != nil {
		fields["phone_number"] = strings.TrimSpace(*req.PhoneNumber)
	}

	emailChanged := false
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != current.Email {
			if !validEmail(email) {
				return nil, badRequest("A valid email is required")
			}
			if _, err := s.Repo.UserByEmail(ctx, email); err == nil {
				return nil, dup
			} else if !errors.Is(err, repo.ErrNotFound) {
				return nil, storageError(ctx, "account_update", err)
			}
			fields["email"] = email
			fields["is_verified"] = false
			emailChanged = true
		}
	}

	updated, err := s.Repo.UpdateUser(ctx, id, fields, roles...)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, dup
		}
		return nil, lookupError(ctx, "account_update", err, notFound)
	}
	if emailChanged {
		if err := s.Auth.sendVerification(ctx, updated); err != nil {
			logging.FromContext(ctx).Error("verification_link_failed", "user_id", id, "error", err)
		}
	}
	return updated, nil
}

func (s *UserService) MakePremium(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Repo.UpdateUser(ctx, id, map[string]any{"is_premium": true})
	if err != nil {
		return nil, lookupError(ctx, "make_premium", err, apperr.ErrUserNotFound)
	}
	return u, nil
}

// DeleteAccount revokes the caller's session and then removes the account.
// The account stays when revocation fails.
func (s *UserService) DeleteAccount(ctx context.Context, p *auth.Principal, refreshRaw string) error {
	if err := s.Auth.revokeSession(ctx, p, refreshRaw); err != nil {
		return err
	}
	return s.remove(ctx, p.ID, p.ID, nil, apperr.ErrUserNotFound)
}

// remove deletes the account with id, restricted to roles, along with the
// courses it authored, and drops those courses from the search index.
func (s *UserService) remove(ctx context.Context, id, actorID string, roles []models.Role, notFound *apperr.Error) error {
	courseIDs, err := s.Repo.DeleteUser(ctx, id, roles...)
	if err != nil {
		return lookupError(ctx, "delete_account", err, notFound)
	}
	for _, cid := range courseIDs {
		if s.Index != nil {
			if err := s.Index.Remove(ctx, cid); err != nil {
				logging.FromContext(ctx).Warn("course_unindex_failed", "course_id", cid, "error", err)
			}
		}
		s.Auth.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventCourseDeleted, cid, actorID))
	}
	s.Auth.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventUserDeleted, id, actorID))
	logging.FromContext(ctx).Info("account_deleted", "user_id", id, "courses_removed", len(courseIDs))
	return nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.UsersByRole(ctx, models.RoleUser)
	if err != nil {
		return nil, storageError(ctx, "list_users", err)
	}
	return users, nil
}

// SetRole changes a user's role. It takes effect on the user's next request
// because the gate reads the role from storage.
func (s *UserService) SetRole(ctx context.Context, id, role string) (*models.User, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, badRequest("Role must be one of user, editor, admin")
	}
	u, err := s.Repo.UpdateUser(ctx, id, map[string]any{"role": r})
	if err != nil {
		return nil, lookupError(ctx, "set_role", err, apperr.ErrUserNotFound)
	}
	logging.FromContext(ctx).Info("role_changed", "user_id", id, "role", r)
	return u, nil
}
