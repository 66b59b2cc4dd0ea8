package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

func withCourseRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("name") }).Preload("User")
}

// CreateCourse stores c and links it to tagNames, creating missing tags.
func (r *GormRepo) CreateCourse(ctx context.Context, c *models.Course, tagNames []string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}
		c.Tags = tags
		return tx.Omit("User", "Tags.*").Create(c).Error
	})
	return translate(err)
}

func (r *GormRepo) CourseByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	if err := withCourseRelations(r.DB.WithContext(ctx)).Where("id = ?", id).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	return &course, nil
}

// SaveCourse writes the scalar fields of c. Tags are replaced only when
// replaceTags is set.
func (r *GormRepo) SaveCourse(ctx context.Context, c *models.Course, tagNames []string, replaceTags bool) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User", "Tags").Save(c).Error; err != nil {
			return err
		}
		if !replaceTags {
			return nil
		}
		tags, err := ensureTags(tx, tagNames)
		if err != nil {
			return err
		}
		if err := tx.Model(c).Association("Tags").Replace(tags); err != nil {
			return err
		}
		c.Tags = tags
		return nil
	})
	return translate(err)
}

func (r *GormRepo) DeleteCourse(ctx context.Context, id string) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		course := models.Course{ID: id}
		if err := tx.Model(&course).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	return translate(err)
}

func (r *GormRepo) ListCourses(ctx context.Context, offset, limit int) ([]models.Course, int64, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []models.Course
	err := withCourseRelations(r.DB.WithContext(ctx)).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

func (r *GormRepo) CoursesByUser(ctx context.Context, userID string) ([]models.Course, error) {
	var courses []models.Course
	err := withCourseRelations(r.DB.WithContext(ctx)).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

// CoursesByIDs returns the courses in the order of ids, skipping ids that no
// longer exist.
func (r *GormRepo) CoursesByIDs(ctx context.Context, ids []string) ([]models.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []models.Course
	if err := withCourseRelations(r.DB.WithContext(ctx)).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]models.Course, len(found))
	for _, c := range found {
		byID[c.ID] = c
	}
	out := make([]models.Course, 0, len(found))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// SearchCourses is a case-insensitive substring match on title and
// description.
func (r *GormRepo) SearchCourses(ctx context.Context, query string, offset, limit int) ([]models.Course, int64, error) {
	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	where := r.DB.WithContext(ctx).
		Where(`LOWER(title) LIKE ? ESCAPE '\'`, pattern).
		Or(`LOWER(description) LIKE ? ESCAPE '\'`, pattern)

	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Course{}).Where(where).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var courses []models.Course
	err := withCourseRelations(r.DB.WithContext(ctx)).
		Where(where).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}
