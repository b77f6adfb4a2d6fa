// Package authz decides whether a caller may act on a disclosure. It has no
// I/O: callers look the disclosure up first and pass its ownership facts in.
package authz

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/pyjuan91/Limira/internal/apperr"
	"github.com/pyjuan91/Limira/internal/models"
)

type Caller struct {
	ID   uuid.UUID
	Role models.Role
}

func CallerOf(u *models.User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}

// Ownership holds the facts about a disclosure that access depends on.
type Ownership struct {
	InventorID       uuid.UUID
	AssignedLawyerID *uuid.UUID
}

func OwnershipOf(d *models.Disclosure) Ownership {
	return Ownership{InventorID: d.InventorID, AssignedLawyerID: d.AssignedLawyerID}
}

// CanAccess: inventors reach their own disclosures, lawyers the ones assigned
// to them, admins everything.
func CanAccess(c Caller, o Ownership) bool {
	switch c.Role {
	case models.RoleAdmin:
		return true
	case models.RoleInventor:
		return c.ID == o.InventorID
	case models.RoleLawyer:
		return o.AssignedLawyerID != nil && c.ID == *o.AssignedLawyerID
	}
	return false
}

// RequireRole is the coarse gate: the caller's role must be in the list.
func RequireRole(c Caller, roles ...models.Role) error {
	for _, r := range roles {
		if c.Role == r {
			return nil
		}
	}
	return apperr.Forbidden(fmt.Sprintf("Insufficient permissions. Required roles: %v, user has: %s", roles, c.Role))
}

// Authorize applies the role list (when given) and then the ownership
// predicate.
func Authorize(c Caller, o Ownership, roles ...models.Role) error {
	if len(roles) > 0 {
		if err := RequireRole(c, roles...); err != nil {
			return err
		}
	}
	if !CanAccess(c, o) {
		return apperr.Forbidden("Access denied")
	}
	return nil
}
