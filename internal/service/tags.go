package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/repo"
)

type TagService struct {
	Repo *repo.GormRepo
}

const tagSearchLimit = 20

func (s *TagService) List(ctx context.Context) ([]models.Tag, error) {
	tags, err := s.Repo.ListTags(ctx)
	if err != nil {
		return nil, storageError(ctx, "list_tags", err)
	}
	return tags, nil
}

func (s *TagService) Search(ctx context.Context, prefix string) ([]models.Tag, error) {
	tags, err := s.Repo.TagsByPrefix(ctx, strings.TrimSpace(prefix), tagSearchLimit)
	if err != nil {
		return nil, storageError(ctx, "search_tags", err)
	}
	return tags, nil
}

func (s *TagService) Get(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := s.Repo.TagByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, "get_tag", err, apperr.ErrTagNotFound)
	}
	return tag, nil
}

func (s *TagService) Create(ctx context.Context, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("Tag name is required")
	}
	tag := &models.Tag{Name: name}
	if err := s.Repo.CreateTag(ctx, tag); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.ErrTagAlreadyExists
		}
		return nil, storageError(ctx, "create_tag", err)
	}
	return tag, nil
}

func (s *TagService) Rename(ctx context.Context, id uint, name string) (*models.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, badRequest("Tag name is required")
	}
	if existing, err := s.Repo.TagByName(ctx, name); err == nil && existing.ID != id {
		return nil, apperr.ErrTagAlreadyExists
	}
	tag, err := s.Repo.RenameTag(ctx, id, name)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, apperr.ErrTagAlreadyExists
		}
		return nil, lookupError(ctx, "rename_tag", err, apperr.ErrTagNotFound)
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteTag(ctx, id); err != nil {
		return lookupError(ctx, "delete_tag", err, apperr.ErrTagNotFound)
	}
	return nil
}

func (s *TagService) CoursesOf(ctx context.Context, tagID uint) ([]models.Course, error) {
	if _, err := s.Get(ctx, tagID); err != nil {
		return nil, err
	}
	courses, err := s.Repo.CoursesByTag(ctx, tagID)
	if err != nil {
		return nil, storageError(ctx, "tag_courses", err)
	}
	return courses, nil
}

func (s *TagService) OfCourse(ctx context.Context, courseID string) ([]models.Tag, error) {
	tags, err := s.Repo.TagsOfCourse(ctx, courseID)
	if err != nil {
		return nil, lookupError(ctx, "course_tags", err, apperr.ErrCourseNotFound)
	}
	return tags, nil
}
