package tokens

import "github.com/golang-jwt/jwt/v5"

type Kind int

const (
	Access Kind = iota
	Refresh
)

func (k Kind) String() string {
	if k == Refresh {
		return "refresh"
	}
	return "access"
}

// Subject is who a token is minted for.
type Subject struct {
	UserID string
	Email  string
	Role   string
}

// Claims is the wire shape shared with already issued tokens:
// {user_id, email, role?, jti, exp, iat, refresh?}.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	Role    string `json:"role,omitempty"`
	Refresh bool   `json:"refresh,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) Kind() Kind {
	if c.Refresh {
		return Refresh
	}
	return Access
}

type Status int

const (
	StatusValid Status = iota
	StatusExpired
	StatusMalformed
	StatusBadSignature
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	case StatusBadSignature:
		return "bad_signature"
	default:
		return "malformed"
	}
}

// Result is the outcome of Decode. Claims is set for StatusValid and
// StatusExpired only.
type Result struct {
	Status Status
	Claims *Claims
}

func (r Result) Valid() bool { return r.Status == StatusValid }
