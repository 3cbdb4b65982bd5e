// Package auth turns bearer tokens into actors and answers "may this actor
// do that" questions. Identity is established elsewhere; tokens arrive
// already issued.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Role is what kind of actor is calling
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
	RoleAI        Role = "ai" // the response-generation collaborator
)

// Actor is the authenticated caller of an operation
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role Role      `json:"role"`
}

// claims is what we put in and expect from a token
type claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken mints an HMAC token for an actor. Mostly used by tests and the
// dev token helper; production tokens come from the identity service.
func SignToken(secret []byte, actor Actor, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Name: actor.Name,
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return token.SignedString(secret)
}

// ParseToken validates a bearer token and returns the actor it carries
func ParseToken(secret []byte, raw string) (Actor, error) {
	var c claims
	token, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return Actor{}, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return Actor{}, errors.New("invalid token")
	}

	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("parsing subject: %w", err)
	}

	role := Role(c.Role)
	switch role {
	case RoleStudent, RoleProfessor, RoleAI:
	default:
		return Actor{}, fmt.Errorf("unknown role %q", c.Role)
	}

	return Actor{ID: id, Name: c.Name, Role: role}, nil
}

type ctxKey struct{}

// WithActor attaches an actor to a request context
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, actor)
}

// ActorFrom pulls the actor the middleware attached
func ActorFrom(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(ctxKey{}).(Actor)
	return actor, ok
}
