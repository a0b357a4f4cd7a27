package types

import (
	"context"
)

// ContextKey is a type for the keys of values stored in the context
type ContextKey string

const (
	CtxRequestID      ContextKey = "ctx_request_id"
	CtxUserID         ContextKey = "ctx_user_id"
	CtxOrganizationID ContextKey = "ctx_organization_id"

	// Default values
	DefaultUserID = "00000000-0000-0000-0000-000000000000"

	HeaderRequestID = "X-Request-ID"
	HeaderUserID    = "X-User-ID"
)

func GetUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(CtxUserID).(string); ok {
		return userID
	}
	return ""
}

func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(CtxRequestID).(string); ok {
		return requestID
	}
	return ""
}

func GetOrganizationID(ctx context.Context) string {
	if organizationID, ok := ctx.Value(CtxOrganizationID).(string); ok {
		return organizationID
	}
	return ""
}

// SetUserID sets the user ID in the context
func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, CtxUserID, userID)
}

// SetRequestID sets the request ID in the context
func SetRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, CtxRequestID, requestID)
}

// SetOrganizationID sets the organization the request is scoped to
func SetOrganizationID(ctx context.Context, organizationID string) context.Context {
	return context.WithValue(ctx, CtxOrganizationID, organizationID)
}
