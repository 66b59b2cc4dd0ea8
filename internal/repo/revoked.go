package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

// Revoke blacklists jti. Revoking an already revoked jti is a no-op that
// returns the existing record.
func (r *GormRepo) Revoke(ctx context.Context, jti string, expiresAt time.Time) (*models.RevokedToken, error) {
	rec, inserted, err := claim(r.DB.WithContext(ctx), jti, expiresAt)
	if err != nil {
		return nil, translate(err)
	}
	if inserted {
		return rec, nil
	}

	var existing models.RevokedToken
	if err := r.DB.WithContext(ctx).Where("token_jti = ?", jti).First(&existing).Error; err != nil {
		return nil, translate(err)
	}
	return &existing, nil
}

// claim inserts a revocation record for jti and reports whether this call
// created it.
func claim(tx *gorm.DB, jti string, expiresAt time.Time) (*models.RevokedToken, bool, error) {
	rec := models.RevokedToken{TokenJTI: jti, ExpiresAt: expiresAt.UTC()}
	res := tx.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "token_jti"}}, DoNothing: true}).
		Create(&rec)
	if res.Error != nil {
		return nil, false, res.Error
	}
	return &rec, res.RowsAffected > 0, nil
}

// ConsumeVerification claims the link jti and marks the user verified in one
// transaction. ErrAlreadyRevoked means the link was used before; ErrNotFound
// means the user is gone or no longer has email.
func (r *GormRepo) ConsumeVerification(ctx context.Context, userID, email, jti string, expiresAt time.Time) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, inserted, err := claim(tx, jti, expiresAt)
		if err != nil {
			return err
		}
		if !inserted {
			return ErrAlreadyRevoked
		}
		res := tx.Model(&models.User{}).
			Where("id = ? AND email = ?", userID, email).
			Update("is_verified", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("id = ?", userID).First(&user).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("token_jti = ?", jti).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// PurgeRevoked drops records of tokens that expired before cutoff. Such
// tokens already fail decoding, so dropping their record changes nothing.
func (r *GormRepo) PurgeRevoked(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", cutoff.UTC()).
		Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
