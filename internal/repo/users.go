package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

// UserByID loads a user. When roles are given the user must hold one of them.
func (r *GormRepo) UserByID(ctx context.Context, id string, roles ...models.Role) (*models.User, error) {
	var user models.User
	q := r.DB.WithContext(ctx).Where("id = ?", id)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if err := q.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UserByEmail(ctx context.Context, email string, roles ...models.Role) (*models.User, error) {
	var user models.User
	q := r.DB.WithContext(ctx).Where("email = ?", email)
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if err := q.First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UserWithCourses(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.DB.WithContext(ctx).
		Preload("Courses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Courses.Tags").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepo) UsersByRole(ctx context.Context, roles ...models.Role) ([]models.User, error) {
	var users []models.User
	q := r.DB.WithContext(ctx).Order("created_at")
	if len(roles) > 0 {
		q = q.Where("role IN ?", roles)
	}
	if err := q.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// UpdateUser applies fields to the user with id, optionally restricted to
// roles, and returns the stored result.
func (r *GormRepo) UpdateUser(ctx context.Context, id string, fields map[string]any, roles ...models.Role) (*models.User, error) {
	if len(fields) > 0 {
		q := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id)
		if len(roles) > 0 {
			q = q.Where("role IN ?", roles)
		}
		res := q.Updates(fields)
		if res.Error != nil {
			return nil, translate(res.Error)
		}
		if res.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return r.UserByID(ctx, id, roles...)
}

// DeleteUser removes the user together with the courses they authored and
// returns the ids of those courses.
func (r *GormRepo) DeleteUser(ctx context.Context, id string, roles ...models.Role) ([]string, error) {
	var courseIDs []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Select("id").Where("id = ?", id)
		if len(roles) > 0 {
			q = q.Where("role IN ?", roles)
		}
		var user models.User
		if err := q.First(&user).Error; err != nil {
			return err
		}

		if err := tx.Model(&models.Course{}).Where("user_id = ?", id).Pluck("id", &courseIDs).Error; err != nil {
			return err
		}
		if len(courseIDs) > 0 {
			if err := tx.Exec("DELETE FROM course_tags WHERE course_id IN ?", courseIDs).Error; err != nil {
				return err
			}
			if err := tx.Where("course_id IN ?", courseIDs).Delete(&models.Like{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", courseIDs).Delete(&models.Course{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.User{}).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return courseIDs, nil
}

func (r *GormRepo) CountUsersByRole(ctx context.Context, role models.Role) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.User{}).Where("role = ?", role).Count(&n).Error
	return n, err
}
