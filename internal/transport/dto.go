package transport

import (
	"time"

	"github.com/Skotchmaster/legalpadi/internal/models"
)

type SignupRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateStaffRequest creates an admin or editor. An empty password on an
// editor is replaced with a generated one.
type CreateStaffRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`
}

type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Email       *string `json:"email"`
	PhoneNumber *string `json:"phone_number"`
}

type SetRoleRequest struct {
	Role string `json:"role"`
}

type CourseRequest struct {
	Title       string         `json:"title"`
	Thumbnail   string         `json:"thumbnail"`
	Description string         `json:"description"`
	Content     map[string]any `json:"courses"`
	Tags        []string       `json:"tags"`
}

type PatchCourseRequest struct {
	Title       *string        `json:"title"`
	Thumbnail   *string        `json:"thumbnail"`
	Description *string        `json:"description"`
	Content     map[string]any `json:"courses"`
	Tags        *[]string      `json:"tags"`
}

type TagRequest struct {
	Name string `json:"name"`
}

type TokenUser struct {
	Email string `json:"email"`
	UID   string `json:"uid"`
}

type LoginResponse struct {
	Message      string    `json:"message"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         TokenUser `json:"user"`
}

type RefreshResponse struct {
	Message     string    `json:"message"`
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type RoleResponse struct {
	Role models.Role `json:"role"`
}

type SimilarTermsResponse struct {
	Query string   `json:"query"`
	Terms []string `json:"terms"`
}

type UserResponse struct {
	UID         string      `json:"uid"`
	Email       string      `json:"email"`
	FirstName   string      `json:"first_name"`
	LastName    string      `json:"last_name"`
	PhoneNumber string      `json:"phone_number,omitempty"`
	IsVerified  bool        `json:"is_verified"`
	IsPremium   bool        `json:"is_premium"`
	Role        models.Role `json:"role"`
}

type ProfileWithCoursesResponse struct {
	UserResponse
	Courses []CourseResponse `json:"courses"`
}

type AuthorResponse struct {
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      models.Role `json:"role"`
}

type CourseResponse struct {
	UID         string          `json:"uid"`
	Title       string          `json:"title"`
	Thumbnail   string          `json:"thumbnail,omitempty"`
	Description string          `json:"description,omitempty"`
	Content     map[string]any  `json:"courses"`
	UserUID     string          `json:"user_uid"`
	User        *AuthorResponse `json:"user,omitempty"`
	Tags        []models.Tag    `json:"tags"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type PageResponse[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

type LikeResponse struct {
	CourseUID string `json:"course_uid"`
	Liked     bool   `json:"liked"`
	Likes     int64  `json:"likes"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		UID:         u.ID,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		PhoneNumber: u.PhoneNumber,
		IsVerified:  u.IsVerified,
		IsPremium:   u.IsPremium,
		Role:        u.Role,
	}
}

func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = NewUserResponse(&users[i])
	}
	return out
}

func NewProfileWithCourses(u *models.User) ProfileWithCoursesResponse {
	return ProfileWithCoursesResponse{
		UserResponse: NewUserResponse(u),
		Courses:      NewCourseResponses(u.Courses),
	}
}

func NewCourseResponse(c *models.Course) CourseResponse {
	out := CourseResponse{
		UID:         c.ID,
		Title:       c.Title,
		Thumbnail:   c.Thumbnail,
		Description: c.Description,
		Content:     c.Content,
		UserUID:     c.UserID,
		Tags:        c.Tags,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if out.Content == nil {
		out.Content = map[string]any{}
	}
	if out.Tags == nil {
		out.Tags = []models.Tag{}
	}
	if c.User != nil {
		out.User = &AuthorResponse{
			Email:     c.User.Email,
			FirstName: c.User.FirstName,
			LastName:  c.User.LastName,
			Role:      c.User.Role,
		}
	}
	return out
}

func NewCourseResponses(courses []models.Course) []CourseResponse {
	out := make([]CourseResponse, len(courses))
	for i := range courses {
		out[i] = NewCourseResponse(&courses[i])
	}
	return out
}
