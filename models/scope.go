package models

import "github.com/google/uuid"

// Scope is the visibility boundary applied to every query. It is either
// Unrestricted or OwnedBy a single user. The zero value is OwnedBy(uuid.Nil),
// which matches no record.
type Scope struct {
	unrestricted bool
	owner        uuid.UUID
}

// Unrestricted sees every record.
func Unrestricted() Scope { return Scope{unrestricted: true} }

// OwnedBy sees only records owned by id.
func OwnedBy(id uuid.UUID) Scope { return Scope{owner: id} }

// ScopeFor maps a requester to its scope. Only ADMIN is unrestricted.
func ScopeFor(r Requester) Scope {
	if r.Role == RoleAdmin {
		return Unrestricted()
	}
	return OwnedBy(r.ID)
}

// Owner returns the owning user id and true when the scope is restricted.
func (s Scope) Owner() (uuid.UUID, bool) {
	if s.unrestricted {
		return uuid.Nil, false
	}
	return s.owner, true
}

// Allows reports whether a record owned by ownerID is inside the scope.
func (s Scope) Allows(ownerID uuid.UUID) bool {
	return s.unrestricted || (s.owner != uuid.Nil && s.owner == ownerID)
}

func (s Scope) String() string {
	if s.unrestricted {
		return "unrestricted"
	}
	return "owned_by:" + s.owner.String()
}
