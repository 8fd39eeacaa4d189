package gate

import (
	"context"

	domainauth "github.com/solenne/boutique/internal/domain/auth"
)

// visitorKey is an unexported context key type to avoid collisions across packages.
type visitorKey struct{}

// Visitor is the resolved caller attached to a gated request's context.
type Visitor struct {
	Identity domainauth.Identity
	Role     domainauth.Role
}

// WithVisitor returns a child context carrying the resolved visitor.
// Anonymous requests carry no visitor; the original ctx is returned.
func WithVisitor(ctx context.Context, identity *domainauth.Identity, role domainauth.Role) context.Context {
	if identity == nil {
		return ctx
	}
	return context.WithValue(ctx, visitorKey{}, &Visitor{Identity: *identity, Role: role})
}

// VisitorFromContext returns the resolved visitor and whether one is present.
func VisitorFromContext(ctx context.Context) (*Visitor, bool) {
	v, ok := ctx.Value(visitorKey{}).(*Visitor)
	return v, ok && v != nil
}
