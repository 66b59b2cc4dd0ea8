package service

import (
	"context"

	"github.com/Skotchmaster/legalpadi/internal/apperr"
	"github.com/Skotchmaster/legalpadi/internal/repo"
)

type LikeService struct {
	Repo *repo.GormRepo
}

type LikeStatus struct {
	CourseID string
	Liked    bool
	Likes    int64
}

func (s *LikeService) Status(ctx context.Context, userID, courseID string) (*LikeStatus, error) {
	if _, err := s.Repo.CourseByID(ctx, courseID); err != nil {
		return nil, lookupError(ctx, "like_status", err, apperr.ErrCourseNotFound)
	}
	return s.status(ctx, userID, courseID)
}

func (s *LikeService) status(ctx context.Context, userID, courseID string) (*LikeStatus, error) {
	liked, err := s.Repo.LikeExists(ctx, userID, courseID)
	if err != nil {
		return nil, storageError(ctx, "like_status", err)
	}
	n, err := s.Repo.CountLikes(ctx, courseID)
	if err != nil {
		return nil, storageError(ctx, "like_status", err)
	}
	return &LikeStatus{CourseID: courseID, Liked: liked, Likes: n}, nil
}

func (s *LikeService) Like(ctx context.Context, userID, courseID string) (*LikeStatus, error) {
	if _, err := s.Repo.CourseByID(ctx, courseID); err != nil {
		return nil, lookupError(ctx, "like", err, apperr.ErrCourseNotFound)
	}
	if _, err := s.Repo.AddLike(ctx, userID, courseID); err != nil {
		return nil, storageError(ctx, "like", err)
	}
	return s.status(ctx, userID, courseID)
}

func (s *LikeService) Unlike(ctx context.Context, userID, courseID string) error {
	if _, err := s.Repo.RemoveLike(ctx, userID, courseID); err != nil {
		return storageError(ctx, "unlike", err)
	}
	return nil
}
