// Package auth provides the authentication capability required by every
// mutating engine operation: proving that the calling context really is the
// principal it claims to act for. Caller identity is never ambient; services
// call RequireAuth explicitly at the top of each mutating operation.
package auth

import (
	"context"

	"github.com/airtimehq/airtime/internal/common"
)

// Authenticator aborts an operation when the calling context is not
// authenticated as principal.
type Authenticator interface {
	RequireAuth(ctx context.Context, principal string) error
}

type ctxKey string

const subjectKey ctxKey = "subject"

// ContextWithSubject returns a context carrying an authenticated subject.
// The transport layer calls this after verifying the caller's token.
func ContextWithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SubjectFromContext extracts the authenticated subject, if any.
func SubjectFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(subjectKey).(string)
	return s, ok && s != ""
}

// ContextAuthenticator authenticates against the subject placed in the
// context by the transport's token middleware.
type ContextAuthenticator struct{}

func NewContextAuthenticator() *ContextAuthenticator {
	return &ContextAuthenticator{}
}

func (a *ContextAuthenticator) RequireAuth(ctx context.Context, principal string) error {
	subject, ok := SubjectFromContext(ctx)
	if !ok || subject != principal {
		return common.ErrUnauthorized
	}
	return nil
}
