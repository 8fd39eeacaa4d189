package gate

import (
	domainauth "github.com/solenne/boutique/internal/domain/auth"
)

// DecisionKind discriminates policy outcomes.
type DecisionKind string

const (
	// DecisionAllow passes the request through to the handler.
	DecisionAllow DecisionKind = "allow"
	// DecisionRedirect sends an HTTP redirect to Decision.Target.
	DecisionRedirect DecisionKind = "redirect"
)

// Decision is the outcome of the access policy for one request.
// A redirect is normal control flow, not an error.
type Decision struct {
	Kind   DecisionKind
	Target string
}

// Allow is the pass-through decision.
func Allow() Decision { return Decision{Kind: DecisionAllow} }

// RedirectTo builds a redirect decision to the given same-origin path.
func RedirectTo(target string) Decision {
	return Decision{Kind: DecisionRedirect, Target: target}
}

// Redirect targets used by the policy.
const (
	loginPath     = "/auth/login"
	dashboardPath = "/dashboard"
)

// Policy decides access for a classified path given the resolved identity
// and role. It is pure: no I/O, no clock, no request state.
type Policy struct {
	classifier *Classifier
}

// NewPolicy builds the storefront access policy.
func NewPolicy() *Policy {
	return &Policy{classifier: NewClassifier()}
}

// Decide applies the policy rules in order; first match wins:
//
//  1. Authenticated users never see the auth pages; send them to the dashboard.
//  2. The admin console requires a session and the admin role. Anonymous
//     visitors go to login; authenticated non-admins go to the dashboard.
//     An identity with no resolvable profile carries no role and fails the
//     admin check the same way.
//  3. The dashboard requires a session.
//  4. Everything else is public.
func (p *Policy) Decide(path string, identity *domainauth.Identity, role domainauth.Role) Decision {
	class := p.classifier.Classify(path)

	if identity != nil && class == ClassAuth {
		return RedirectTo(dashboardPath)
	}

	if class == ClassAdmin {
		if identity == nil {
			return RedirectTo(loginPath)
		}
		if !role.IsAdmin() {
			return RedirectTo(dashboardPath)
		}
		return Allow()
	}

	if class == ClassDashboard && identity == nil {
		return RedirectTo(loginPath)
	}

	return Allow()
}
