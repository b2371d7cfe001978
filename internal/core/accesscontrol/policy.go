// Package accesscontrol is the decision point that turns an authenticated
// (or anonymous) request plus a route's declared policy into allow or deny.
// Decide is a pure function: no store lookups, no side effects.
package accesscontrol

import "github.com/aegis-id/auth-service/internal/core/domain"

// SecurityContext is the per-request identity derived from a valid token by
// the auth middleware. A nil *SecurityContext means the request is anonymous.
type SecurityContext struct {
	UserID string
	Role   domain.Role
	// Token is the raw bearer token the context was built from.
	Token string
}

type policyKind int

const (
	kindPublic policyKind = iota
	kindAuthenticated
	kindRole
	kindOwnerOrRole
)

// Policy declares who may invoke an operation.
type Policy struct {
	kind policyKind
	role domain.Role
}

// Public allows everyone, authenticated or not.
func Public() Policy { return Policy{kind: kindPublic} }

// Authenticated allows any request with a valid security context.
func Authenticated() Policy { return Policy{kind: kindAuthenticated} }

// RequireRole allows contexts whose role satisfies r. Admin satisfies any
// user-level requirement.
func RequireRole(r domain.Role) Policy { return Policy{kind: kindRole, role: r} }

// OwnerOrRole allows the owner of the target resource regardless of role,
// and otherwise falls back to RequireRole(r).
func OwnerOrRole(r domain.Role) Policy { return Policy{kind: kindOwnerOrRole, role: r} }

// NeedsOwner reports whether evaluating the policy requires a resource
// owner id.
func (p Policy) NeedsOwner() bool { return p.kind == kindOwnerOrRole }

// Reason explains a deny. Unauthenticated and forbidden stay distinguishable
// end to end: the first means "log in", the second "you may not".
type Reason string

const (
	ReasonNone            Reason = ""
	ReasonUnauthenticated Reason = "unauthenticated"
	ReasonForbidden       Reason = "forbidden"
)

// Decision is the outcome of evaluating a policy.
type Decision struct {
	Allowed bool
	Reason  Reason
}

func allow() Decision        { return Decision{Allowed: true} }
func deny(r Reason) Decision { return Decision{Reason: r} }

// Decide evaluates policy p for the given context and, for ownership
// policies, the owner id of the targeted resource. sc == nil means anonymous.
func Decide(sc *SecurityContext, p Policy, ownerID string) Decision {
	switch p.kind {
	case kindPublic:
		return allow()
	case kindAuthenticated:
		if sc == nil {
			return deny(ReasonUnauthenticated)
		}
		return allow()
	case kindRole:
		if sc == nil {
			return deny(ReasonUnauthenticated)
		}
		if !sc.Role.Satisfies(p.role) {
			return deny(ReasonForbidden)
		}
		return allow()
	case kindOwnerOrRole:
		if sc == nil {
			return deny(ReasonUnauthenticated)
		}
		if ownerID != "" && sc.UserID == ownerID {
			return allow()
		}
		if !sc.Role.Satisfies(p.role) {
			return deny(ReasonForbidden)
		}
		return allow()
	default:
		return deny(ReasonForbidden)
	}
}
