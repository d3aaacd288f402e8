package service

import (
	"context"

	"legalhub/internal/models"
)

// Actor is the signed-in user on whose behalf an operation runs
type Actor struct {
	UserID     string
	Email      string
	Name       string
	Department string
	Role       models.Role
}

// IsAdminLike reports whether the actor holds the admin or legal role
func (a Actor) IsAdminLike() bool {
	return a.Role.IsAdminLike()
}

// DisplayName returns the name shown on notes, falling back to the e-mail
// and finally to the legal department's name
func (a Actor) DisplayName() string {
	switch {
	case a.Name != "":
		return a.Name
	case a.Email != "":
		return a.Email
	}
	return "Pháp chế"
}

type requestMetaKey struct{}

type requestMeta struct {
	ip        string
	userAgent string
}

// WithRequestMeta attaches the caller's address and user agent for audit entries
func WithRequestMeta(ctx context.Context, ip, userAgent string) context.Context {
	return context.WithValue(ctx, requestMetaKey{}, requestMeta{ip: ip, userAgent: userAgent})
}

func requestMetaFrom(ctx context.Context) requestMeta {
	m, _ := ctx.Value(requestMetaKey{}).(requestMeta)
	return m
}
