package httpx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMissingToken     = errors.New("missing bearer token")
)

// Claims identifies the teacher acting through a token.
type Claims struct {
	jwt.RegisteredClaims
	TeacherID int64 `json:"teacher_id"`
}

// Tokens signs and validates HS256 bearer tokens.
type Tokens struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewTokens creates a Tokens for the given shared secret.
func NewTokens(secret, issuer string) *Tokens {
	return &Tokens{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Issue signs a token for teacherID valid for ttl.
func (t *Tokens) Issue(teacherID int64, ttl time.Duration) (string, error) {
	now := t.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(teacherID, 10),
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		TeacherID: teacherID,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a signed token.
func (t *Tokens) Validate(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(t.now),
	}
	if t.issuer != "" {
		opts = append(opts, jwt.WithIssuer(t.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, opts...)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpiredToken
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.TeacherID <= 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ActorFunc attaches the authenticated teacher to a request context.
type ActorFunc func(ctx context.Context, teacherID int64) context.Context

// RequireBearer rejects requests without a valid bearer token and hands the
// token's teacher id to withActor.
func RequireBearer(tokens *Tokens, withActor ActorFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearer(r)
			if !ok {
				unauthorized(w, ErrMissingToken)
				return
			}
			claims, err := tokens.Validate(raw)
			if err != nil {
				unauthorized(w, err)
				return
			}

			ctx := r.Context()
			if withActor != nil {
				ctx = withActor(ctx, claims.TeacherID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearer(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func unauthorized(w http.ResponseWriter, err error) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="sportsday"`)
	JSON(w, http.StatusUnauthorized, ErrorBody{Error: err.Error(), Kind: "unauthorized"})
}

// ProtectWrites applies mw to every method except GET, HEAD and OPTIONS.
func ProtectWrites(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		guarded := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
			default:
				guarded.ServeHTTP(w, r)
			}
		})
	}
}
