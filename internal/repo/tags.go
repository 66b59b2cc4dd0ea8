package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

func ensureTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}

		var tag models.Tag
		if err := tx.Where(models.Tag{Name: name}).FirstOrCreate(&tag).Error; err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *GormRepo) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.DB.WithContext(ctx).Order("name").Find(&tags).Error
	return tags, err
}

func (r *GormRepo) TagByID(ctx context.Context, id uint) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *GormRepo) TagByName(ctx context.Context, name string) (*models.Tag, error) {
	var tag models.Tag
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&tag).Error; err != nil {
		return nil, translate(err)
	}
	return &tag, nil
}

func (r *GormRepo) TagsByPrefix(ctx context.Context, prefix string, limit int) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.DB.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\'`, escapeLike(strings.ToLower(prefix))+"%").
		Order("name").
		Limit(limit).
		Find(&tags).Error
	return tags, err
}

func (r *GormRepo) CreateTag(ctx context.Context, tag *models.Tag) error {
	return translate(r.DB.WithContext(ctx).Create(tag).Error)
}

func (r *GormRepo) RenameTag(ctx context.Context, id uint, name string) (*models.Tag, error) {
	res := r.DB.WithContext(ctx).Model(&models.Tag{}).Where("id = ?", id).Update("name", name)
	if res.Error != nil {
		return nil, translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.TagByID(ctx, id)
}

func (r *GormRepo) DeleteTag(ctx context.Context, id uint) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM course_tags WHERE tag_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Tag{}, id)
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

func (r *GormRepo) CoursesByTag(ctx context.Context, tagID uint) ([]models.Course, error) {
	var courses []models.Course
	err := withCourseRelations(r.DB.WithContext(ctx)).
		Joins("JOIN course_tags ON course_tags.course_id = courses.id").
		Where("course_tags.tag_id = ?", tagID).
		Order("courses.created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *GormRepo) TagsOfCourse(ctx context.Context, courseID string) ([]models.Tag, error) {
	course := models.Course{ID: courseID}
	if err := r.DB.WithContext(ctx).Select("id").Where("id = ?", courseID).First(&course).Error; err != nil {
		return nil, translate(err)
	}
	var tags []models.Tag
	if err := r.DB.WithContext(ctx).Model(&course).Order("name").Association("Tags").Find(&tags); err != nil {
		return nil, err
	}
	return tags, nil
}
