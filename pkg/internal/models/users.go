package models

import "gorm.io/datatypes"

type Role = string

const (
	RoleAdmin  = Role("admin")
	RoleEditor = Role("editor")
	RoleMember = Role("member")
)

// Actor is the identity attached to the current request by the
// transport layer. The core trusts it verbatim.
type Actor struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

func (v Actor) IsAdmin() bool {
	return v.Role == RoleAdmin
}

// User is stored as an independent document; the id sets below are
// denormalized back-references kept in sync by the reference manager.
type User struct {
	BaseModel

	Username string `json:"username" gorm:"uniqueIndex" validate:"required,lowercase,alphanum"`
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" gorm:"uniqueIndex" validate:"required,email"`
	Password string `json:"-"`
	Role     Role   `json:"role"`

	PostIDs      datatypes.JSONSlice[uint] `json:"post_ids"`
	CommentIDs   datatypes.JSONSlice[uint] `json:"comment_ids"`
	LikedPostIDs datatypes.JSONSlice[uint] `json:"liked_post_ids"`
}

func (v User) ToActor() Actor {
	return Actor{
		ID:    v.ID,
		Email: v.Email,
		Role:  v.Role,
	}
}
