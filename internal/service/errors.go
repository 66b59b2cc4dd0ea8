package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/repo"
)

func storageError(ctx context.Context, op string, err error) error {
	logging.FromContext(ctx).Error(op+"_failed", "error", err)
	return fmt.Errorf("%s: %w", op, apperr.ErrStorage)
}

// lookupError maps a repository miss to notFound and anything else to a
// storage failure.
func lookupError(ctx context.Context, op string, err error, notFound *apperr.Error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return notFound
	}
	return storageError(ctx, op, err)
}

func badRequest(msg string) error {
	return apperr.New(apperr.ErrBadRequest.Status, msg, apperr.ErrBadRequest.Kind)
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}
