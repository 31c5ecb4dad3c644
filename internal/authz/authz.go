// Package authz is the access-control engine: a pure decision function over
// (actor, action, resource, owner) with no transport or storage dependencies.
// Services consult it before every mutation; handlers translate the decision
// into a status code.
package authz

import "titlehub/internal/models"

type Action string

const (
	ActionList     Action = "list"
	ActionRetrieve Action = "retrieve"
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
)

// Safe reports whether the action is a read. Safe actions are public on every
// resource except the user collection.
func (a Action) Safe() bool {
	return a == ActionList || a == ActionRetrieve
}

type Resource string

const (
	ResourceCategory Resource = "category"
	ResourceGenre    Resource = "genre"
	ResourceTitle    Resource = "title"
	ResourceReview   Resource = "review"
	ResourceComment  Resource = "comment"
	ResourceUser     Resource = "user"    // the admin-only user collection
	ResourceProfile  Resource = "profile" // a user's own record via /users/me
)

// Actor is the authenticated (or anonymous) caller. The zero value is the
// anonymous actor.
type Actor struct {
	ID            string
	Username      string
	Role          string
	Superuser     bool
	Authenticated bool
}

func Anonymous() Actor {
	return Actor{}
}

// isAdmin mirrors models.User.IsAdmin: the legacy superuser flag and the admin
// role satisfy the same predicate.
func (a Actor) isAdmin() bool {
	return a.Authenticated && (a.Role == models.RoleAdmin || a.Superuser)
}

func (a Actor) isModerator() bool {
	return a.Authenticated && a.Role == models.RoleModerator
}

type Decision int

const (
	// Allow grants the action.
	Allow Decision = iota
	// DenyUnauthenticated means the action needs credentials the actor did
	// not present (401).
	DenyUnauthenticated
	// DenyForbidden means the actor is known but lacks role or ownership (403).
	DenyForbidden
)

// Authorize decides whether actor may perform action on a resource.
// ownerID is the ID of the user owning the concrete object (review/comment
// author, or the profile's user); it is ignored for resources without
// ownership semantics. First match wins, top to bottom, mirroring the policy
// table: catalog writes are admin-only, review/comment mutation is
// author-or-moderator-or-admin, the user collection is admin-only throughout,
// and the profile is self-service.
func Authorize(actor Actor, action Action, resource Resource, ownerID string) Decision {
	switch resource {
	case ResourceUser:
		// No public reads here: listing users leaks the registry.
		if !actor.Authenticated {
			return DenyUnauthenticated
		}
		if actor.isAdmin() {
			return Allow
		}
		return DenyForbidden

	case ResourceProfile:
		if !actor.Authenticated {
			return DenyUnauthenticated
		}
		// Profiles are neither created nor deleted through /me.
		if action == ActionCreate || action == ActionDelete || action == ActionList {
			return DenyForbidden
		}
		if actor.ID == ownerID {
			return Allow
		}
		return DenyForbidden
	}

	if action.Safe() {
		return Allow
	}
	if !actor.Authenticated {
		return DenyUnauthenticated
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if actor.isAdmin() {
			return Allow
		}
		return DenyForbidden

	case ResourceReview, ResourceComment:
		if action == ActionCreate {
			return Allow
		}
		// Ownership only matters for plain users; moderator and admin bypass.
		if actor.ID != "" && actor.ID == ownerID {
			return Allow
		}
		if actor.isModerator() || actor.isAdmin() {
			return Allow
		}
		return DenyForbidden
	}

	return DenyForbidden
}
