// Package authz is the authorization gate: a pure decision table over
// the mutation operations. It performs no I/O and never mutates state,
// so it is safe to call repeatedly and concurrently.
package authz

import "github.com/quillnet/quill/pkg/internal/models"

type Operation string

const (
	OpEditPost       = Operation("edit-post")
	OpDeletePost     = Operation("delete-post")
	OpDeleteComment  = Operation("delete-comment")
	OpDeleteUser     = Operation("delete-user")
	OpEditUser       = Operation("edit-user")
	OpChangePassword = Operation("change-password")
	OpChangeRole     = Operation("change-role")
	OpManageCategory = Operation("manage-category")
)

type DenyReason string

const (
	ReasonNotOwner         = DenyReason("NotOwner")
	ReasonInsufficientRole = DenyReason("InsufficientRole")
)

// Target carries the owner of the entity an operation acts on. For
// delete-user and change-password the owner is the target user itself.
type Target struct {
	OwnerID uint
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Decide resolves (actor, operation, target) to an allow or a deny with
// a reason. Unknown operations are denied.
func Decide(actor models.Actor, op Operation, target Target) Decision {
	switch op {
	case OpEditPost, OpDeletePost, OpDeleteComment, OpDeleteUser, OpEditUser:
		if actor.ID == target.OwnerID || actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonNotOwner)
	case OpChangePassword:
		// No admin override; re-verification of the current password
		// still happens upstream of the gate.
		if actor.ID == target.OwnerID {
			return allow()
		}
		return deny(ReasonNotOwner)
	case OpChangeRole, OpManageCategory:
		if actor.IsAdmin() {
			return allow()
		}
		return deny(ReasonInsufficientRole)
	}

	return deny(ReasonInsufficientRole)
}
