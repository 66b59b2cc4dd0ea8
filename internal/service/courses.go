package service

import (
	"context"
	"strings"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/logging"
	"github.com/Skotchmaster/legalpadi/internal/models"
	"github.com/Skotchmaster/legalpadi/internal/mykafka"
	"github.com/Skotchmaster/legalpadi/internal/repo"
	"github.com/Skotchmaster/legalpadi/internal/service/search"
	"github.com/Skotchmaster/legalpadi/internal/transport"
	"github.com/Skotchmaster/legalpadi/internal/util"
)

type CoursePage struct {
	Items []models.Course
	Total int64
	Page  int
	Size  int
}

type CourseService struct {
	Repo   *repo.GormRepo
	Index  search.CourseIndex
	Notify *Notifier
}

func (s *CourseService) List(ctx context.Context, page, size int) (*CoursePage, error) {
	offset, limit := util.Calculate(page, size)
	items, total, err := s.Repo.ListCourses(ctx, offset, limit)
	if err != nil {
		return nil, storageError(ctx, "list_courses", err)
	}
	return &CoursePage{Items: items, Total: total, Page: offset/limit + 1, Size: limit}, nil
}

func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	c, err := s.Repo.CourseByID(ctx, id)
	if err != nil {
		return nil, lookupError(ctx, "get_course", err, apperr.ErrCourseNotFound)
	}
	return c, nil
}

func (s *CourseService) Search(ctx context.Context, query string, page, size int) (*CoursePage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, badRequest("Search query is required")
	}
	offset, limit := util.Calculate(page, size)
	total, ids, err := s.Index.Search(ctx, query, offset, limit)
	if err != nil {
		return nil, storageError(ctx, "search_courses", err)
	}
	items, err := s.Repo.CoursesByIDs(ctx, ids)
	if err != nil {
		return nil, storageError(ctx, "search_courses", err)
	}
	return &CoursePage{Items: items, Total: total, Page: offset/limit + 1, Size: limit}, nil
}

func (s *CourseService) ByAuthor(ctx context.Context, userID string) ([]models.Course, error) {
	courses, err := s.Repo.CoursesByUser(ctx, userID)
	if err != nil {
		return nil, storageError(ctx, "author_courses", err)
	}
	return courses, nil
}

func (s *CourseService) Create(ctx context.Context, author *models.User, req transport.CourseRequest) (*models.Course, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, badRequest("Course title is required")
	}
	course := &models.Course{
		Title:       title,
		Thumbnail:   strings.TrimSpace(req.Thumbnail),
		Description: strings.TrimSpace(req.Description),
		Content:     req.Content,
		UserID:      author.ID,
	}
	if course.Content == nil {
		course.Content = map[string]any{}
	}
	if err := s.Repo.CreateCourse(ctx, course, req.Tags); err != nil {
		return nil, storageError(ctx, "create_course", err)
	}

	created, err := s.Get(ctx, course.ID)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, created)
	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventCourseCreated, created.ID, author.ID))
	return created, nil
}

func (s *CourseService) Update(ctx context.Context, actor *models.User, id string, req transport.PatchCourseRequest) (*models.Course, error) {
	course, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, badRequest("Course title cannot be empty")
		}
		course.Title = title
	}
	if req.Thumbnail != nil {
		course.Thumbnail = strings.TrimSpace(*req.Thumbnail)
	}
	if req.Description != nil {
		course.Description = strings.TrimSpace(*req.Description)
	}
	if req.Content != nil {
		course.Content = req.Content
	}

	var tagNames []string
	if req.Tags != nil {
		tagNames = *req.Tags
	}
	if err := s.Repo.SaveCourse(ctx, course, tagNames, req.Tags != nil); err != nil {
		return nil, storageError(ctx, "update_course", err)
	}

	updated, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reindex(ctx, updated)
	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventCourseUpdated, id, actor.ID))
	return updated, nil
}

func (s *CourseService) Delete(ctx context.Context, actor *models.User, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.Repo.DeleteCourse(ctx, id); err != nil {
		return lookupError(ctx, "delete_course", err, apperr.ErrCourseNotFound)
	}
	if err := s.Index.Remove(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("course_unindex_failed", "course_id", id, "error", err)
	}
	s.Notify.Publish(ctx, mykafka.NewEvent(mykafka.EventCourseDeleted, id, actor.ID))
	return nil
}

// owned loads a course the actor may change: admins any, editors their own.
func (s *CourseService) owned(ctx context.Context, actor *models.User, id string) (*models.Course, error) {
	course, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, apperr.ErrAccessDenied
	}
	if actor.Role != models.RoleAdmin && course.UserID != actor.ID {
		return nil, apperr.ErrAccessDenied
	}
	return course, nil
}

func (s *CourseService) reindex(ctx context.Context, c *models.Course) {
	if err := s.Index.Index(ctx, c); err != nil {
		logging.FromContext(ctx).Warn("course_index_failed", "course_id", c.ID, "error", err)
	}
}
