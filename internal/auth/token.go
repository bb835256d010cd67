package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers bad signatures, malformed tokens and expired tokens.
var ErrInvalidToken = errors.New("invalid token")

type TokenMaker struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenMaker(secret, algorithm string, ttl time.Duration) (*TokenMaker, error) {
	var m jwt.SigningMethod
	switch algorithm {
	case "HS256":
		m = jwt.SigningMethodHS256
	case "HS384":
		m = jwt.SigningMethodHS384
	case "HS512":
		m = jwt.SigningMethodHS512
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", algorithm)
	}
	if secret == "" {
		return nil, errors.New("empty signing secret")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}

	return &TokenMaker{
		secret: []byte(secret),
		method: m,
		ttl:    ttl,
		now:    time.Now,
	}, nil
}

type Claims struct {
	UserID    int64
	ExpiresAt time.Time
}

// New issues a token whose subject is the user id.
func (t *TokenMaker) New(userID int64) (string, error) {
	now := t.now()

	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
	}

	return jwt.NewWithClaims(t.method, claims).SignedString(t.secret)
}

func (t *TokenMaker) Parse(tokenStr string) (Claims, error) {
	var rc jwt.RegisteredClaims

	token, err := jwt.ParseWithClaims(tokenStr, &rc, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{t.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || token == nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	id, err := strconv.ParseInt(rc.Subject, 10, 64)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: subject %q is not a user id", ErrInvalidToken, rc.Subject)
	}

	return Claims{UserID: id, ExpiresAt: rc.ExpiresAt.Time}, nil
}
