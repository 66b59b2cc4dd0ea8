package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

func (r *GormRepo) LikeExists(ctx context.Context, userID, courseID string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&n).Error
	return n > 0, err
}

// AddLike reports whether a new like was stored.
func (r *GormRepo) AddLike(ctx context.Context, userID, courseID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Like{UserID: userID, CourseID: courseID})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) RemoveLike(ctx context.Context, userID, courseID string) (bool, error) {
	res := r.DB.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.Like{})
	return res.RowsAffected > 0, res.Error
}

func (r *GormRepo) CountLikes(ctx context.Context, courseID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Like{}).Where("course_id = ?", courseID).Count(&n).Error
	return n, err
}
