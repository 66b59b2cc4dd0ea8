package tokens

import (
	"errors"
	"strings"
	"time"
)

const VerificationAudience = "email-verification"

var ErrInvalidURL = errors.New("tokens: invalid signed url")

type LinkPayload struct {
	Email     string
	UserID    string
	ID        string
	ExpiresAt time.Time
}

// SafeURL signs email-verification payloads into URL-safe fragments. Its
// fragments never decode as API tokens and API tokens never redeem as links.
type SafeURL struct {
	codec *Codec
	ttl   time.Duration
}

func NewSafeURL(secret []byte, ttl time.Duration, opts ...Option) (*SafeURL, error) {
	if ttl <= 0 {
		return nil, ErrInvalidTTL
	}
	codec, err := NewCodec(secret, append(opts, WithAudience(VerificationAudience))...)
	if err != nil {
		return nil, err
	}
	return &SafeURL{codec: codec, ttl: ttl}, nil
}

func (s *SafeURL) Issue(email, userID string) (string, error) {
	raw, _, err := s.codec.Mint(Subject{UserID: userID, Email: email}, s.ttl, Access)
	if err != nil {
		return "", err
	}
	return raw, nil
}

// Redeem accepts either the bare fragment or a full link ending in it. Every
// failure is reported as ErrInvalidURL.
func (s *SafeURL) Redeem(link string) (*LinkPayload, error) {
	fragment := strings.TrimSpace(link)
	if i := strings.LastIndex(fragment, "/"); i >= 0 {
		fragment = fragment[i+1:]
	}
	if i := strings.IndexAny(fragment, "?#"); i >= 0 {
		fragment = fragment[:i]
	}

	res := s.codec.Decode(fragment)
	if !res.Valid() || res.Claims.Email == "" {
		return nil, ErrInvalidURL
	}
	return &LinkPayload{
		Email:     res.Claims.Email,
		UserID:    res.Claims.UserID,
		ID:        res.Claims.ID,
		ExpiresAt: res.Claims.ExpiresAt.Time,
	}, nil
}
