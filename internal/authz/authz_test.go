package authz

import (
	"fmt"
	"testing"

	"titlehub/internal/models"

	"github.com/stretchr/testify/assert"
)

const ownerUID = "owner-uid"

// actors covering every (role, authenticated, superuser-flag) combination the
// policy distinguishes.
var actors = map[string]Actor{
	"anonymous": Anonymous(),
	"owner":     {ID: ownerUID, Username: "owner", Role: models.RoleUser, Authenticated: true},
	"user":      {ID: "other-uid", Username: "other", Role: models.RoleUser, Authenticated: true},
	"moderator": {ID: "mod-uid", Username: "mod", Role: models.RoleModerator, Authenticated: true},
	"admin":     {ID: "adm-uid", Username: "adm", Role: models.RoleAdmin, Authenticated: true},
	"superuser": {ID: "su-uid", Username: "su", Role: models.RoleUser, Superuser: true, Authenticated: true},
}

var allActions = []Action{ActionList, ActionRetrieve, ActionCreate, ActionUpdate, ActionDelete}

// expected mirrors the policy table exactly; every (resource, action, actor)
// triple is asserted below, so a policy change has to show up here.
func expected(actor string, action Action, resource Resource) Decision {
	switch resource {
	case ResourceUser:
		if actor == "anonymous" {
			return DenyUnauthenticated
		}
		if actor == "admin" || actor == "superuser" {
			return Allow
		}
		return DenyForbidden

	case ResourceProfile:
		if actor == "anonymous" {
			return DenyUnauthenticated
		}
		if action == ActionRetrieve || action == ActionUpdate {
			if actor == "owner" {
				return Allow
			}
		}
		return DenyForbidden
	}

	if action.Safe() {
		return Allow
	}
	if actor == "anonymous" {
		return DenyUnauthenticated
	}

	switch resource {
	case ResourceCategory, ResourceGenre, ResourceTitle:
		if actor == "admin" || actor == "superuser" {
			return Allow
		}
		return DenyForbidden
	}

	// review / comment
	if action == ActionCreate {
		return Allow
	}
	switch actor {
	case "owner", "moderator", "admin", "superuser":
		return Allow
	}
	return DenyForbidden
}

func TestAuthorize_FullPolicyTable(t *testing.T) {
	resources := []Resource{
		ResourceCategory, ResourceGenre, ResourceTitle,
		ResourceReview, ResourceComment,
		ResourceUser, ResourceProfile,
	}

	for _, resource := range resources {
		for _, action := range allActions {
			for name, actor := range actors {
				name, actor := name, actor
				t.Run(fmt.Sprintf("%s/%s/%s", resource, action, name), func(t *testing.T) {
					got := Authorize(actor, action, resource, ownerUID)
					assert.Equal(t, expected(name, action, resource), got)
				})
			}
		}
	}
}

func TestAuthorize_SuperuserFlagEqualsAdminRole(t *testing.T) {
	su := actors["superuser"]
	admin := actors["admin"]

	for _, resource := range []Resource{ResourceCategory, ResourceGenre, ResourceTitle, ResourceUser} {
		for _, action := range allActions {
			assert.Equal(t,
				Authorize(admin, action, resource, ""),
				Authorize(su, action, resource, ""),
				"superuser flag must satisfy the same predicate as role=admin for %s %s", resource, action)
		}
	}
}

func TestAuthorize_OwnershipOnlyMattersForPlainUsers(t *testing.T) {
	// A moderator who does not own the review may still delete it.
	mod := actors["moderator"]
	assert.Equal(t, Allow, Authorize(mod, ActionDelete, ResourceReview, ownerUID))

	// A plain user who does not own it may not.
	other := actors["user"]
	assert.Equal(t, DenyForbidden, Authorize(other, ActionDelete, ResourceReview, ownerUID))

	// The author always may.
	owner := actors["owner"]
	assert.Equal(t, Allow, Authorize(owner, ActionDelete, ResourceReview, ownerUID))
}

func TestAuthorize_AnonymousWritesAreUnauthorizedNeverForbidden(t *testing.T) {
	anon := Anonymous()
	for _, resource := range []Resource{ResourceCategory, ResourceGenre, ResourceTitle, ResourceReview, ResourceComment} {
		for _, action := range []Action{ActionCreate, ActionUpdate, ActionDelete} {
			assert.Equal(t, DenyUnauthenticated, Authorize(anon, action, resource, ownerUID))
		}
	}
}

func TestAuthorize_SafeMethodsArePublic(t *testing.T) {
	anon := Anonymous()
	for _, resource := range []Resource{ResourceCategory, ResourceGenre, ResourceTitle, ResourceReview, ResourceComment} {
		assert.Equal(t, Allow, Authorize(anon, ActionList, resource, ""))
		assert.Equal(t, Allow, Authorize(anon, ActionRetrieve, resource, ""))
	}
}
