package utils

import (
	"context"

	"cinema-checkout/internal/data/entity"
)

type contextKey string

const (
	CredentialKey  contextKey = "credential"
	RequestIDKey   contextKey = "request_id"
	UserContextKey contextKey = "user_context"
)

// GetCredentialFromContext returns the session credential set by the auth middleware
func GetCredentialFromContext(ctx context.Context) (string, bool) {
	credVal := ctx.Value(CredentialKey)
	if credVal == nil {
		return "", false
	}

	cred, ok := credVal.(string)
	if !ok || cred == "" {
		return "", false
	}

	return cred, true
}

func SetCredentialContext(ctx context.Context, credential string) context.Context {
	return context.WithValue(ctx, CredentialKey, credential)
}

func GetRequestIDFromContext(ctx context.Context) (string, bool) {
	idVal := ctx.Value(RequestIDKey)
	if idVal == nil {
		return "", false
	}

	id, ok := idVal.(string)
	return id, ok
}

func SetRequestIDContext(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// SetUserContext stores the resolved kiosk session for the request.
func SetUserContext(ctx context.Context, uc entity.UserContext) context.Context {
	ctx = context.WithValue(ctx, UserContextKey, uc)
	if uc.Credential != "" {
		ctx = SetCredentialContext(ctx, uc.Credential)
	}
	return ctx
}

// GetUserContext returns the session stored by the auth middleware, or the
// anonymous zero value.
func GetUserContext(ctx context.Context) entity.UserContext {
	uc, _ := ctx.Value(UserContextKey).(entity.UserContext)
	return uc
}
