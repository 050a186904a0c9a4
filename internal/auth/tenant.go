package auth

import "errors"

// ErrTenantMismatch indicates resource belongs to a different tenant.
var ErrTenantMismatch = errors.New("tenant mismatch")
