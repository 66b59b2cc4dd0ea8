package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrEmptySecret  = errors.New("tokens: signing secret is empty")
	ErrEmptySubject = errors.New("tokens: subject user id is empty")
	ErrInvalidTTL   = errors.New("tokens: ttl must be positive")
)

// Codec mints and decodes HS256 tokens with one secret. It is immutable after
// NewCodec and safe for concurrent use.
type Codec struct {
	secret   []byte
	audience string
	now      func() time.Time
	parser   *jwt.Parser
}

type Option func(*Codec)

func WithClock(now func() time.Time) Option {
	return func(c *Codec) {
		if now != nil {
			c.now = now
		}
	}
}

// WithAudience scopes a codec to one purpose. Tokens minted by it carry the
// audience and only tokens carrying it decode as valid.
func WithAudience(aud string) Option {
	return func(c *Codec) { c.audience = aud }
}

func NewCodec(secret []byte, opts ...Option) (*Codec, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}
	c := &Codec{
		secret: append([]byte(nil), secret...),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	popts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	}
	if c.audience != "" {
		popts = append(popts, jwt.WithAudience(c.audience))
	}
	c.parser = jwt.NewParser(popts...)
	return c, nil
}

func (c *Codec) Mint(sub Subject, ttl time.Duration, kind Kind) (string, *Claims, error) {
	if sub.UserID == "" {
		return "", nil, ErrEmptySubject
	}
	if ttl <= 0 {
		return "", nil, ErrInvalidTTL
	}

	now := c.now()
	claims := &Claims{
		UserID: sub.UserID,
		Email:  sub.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if kind == Refresh {
		claims.Refresh = true
	} else {
		claims.Role = sub.Role
	}
	if c.audience != "" {
		claims.Audience = jwt.ClaimStrings{c.audience}
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, err
	}
	return raw, claims, nil
}

func (c *Codec) Decode(raw string) Result {
	if raw == "" {
		return Result{Status: StatusMalformed}
	}

	claims := &Claims{}
	_, err := c.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})

	status := StatusValid
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return Result{Status: StatusBadSignature}
	// validation errors are joined; a future iat or nbf outranks expiry
	case errors.Is(err, jwt.ErrTokenMalformed),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenNotValidYet):
		return Result{Status: StatusMalformed}
	case errors.Is(err, jwt.ErrTokenExpired):
		status = StatusExpired
	default:
		return Result{Status: StatusMalformed}
	}

	if claims.UserID == "" || claims.ID == "" {
		return Result{Status: StatusMalformed}
	}
	if c.audience == "" && len(claims.Audience) > 0 {
		return Result{Status: StatusMalformed}
	}
	return Result{Status: status, Claims: claims}
}
