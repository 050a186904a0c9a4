package auth

import "context"

type identityKey struct{}

// identity is the authenticated caller attached to a request context.
type identity struct {
	tenantID string
	role     Role
	subject  string
}

// WithIdentity stores the authenticated caller in the context.
func WithIdentity(ctx context.Context, tenantID string, role Role, subject string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{tenantID: tenantID, role: role, subject: subject})
}

// TenantIDFromContext returns the caller's tenant id, or "".
func TenantIDFromContext(ctx context.Context) string {
	id, _ := identityFromContext(ctx)
	return id.tenantID
}

// RoleFromContext returns the caller's role, or "".
func RoleFromContext(ctx context.Context) Role {
	id, _ := identityFromContext(ctx)
	return id.role
}

// SubjectFromContext returns the caller's subject, or "".
func SubjectFromContext(ctx context.Context) string {
	id, _ := identityFromContext(ctx)
	return id.subject
}

func identityFromContext(ctx context.Context) (identity, bool) {
	if ctx == nil {
		return identity{}, false
	}
	id, ok := ctx.Value(identityKey{}).(identity)
	return id, ok
}
