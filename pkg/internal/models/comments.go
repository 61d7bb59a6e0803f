package models

// Comment's PostID and UserID are immutable after creation.
type Comment struct {
	BaseModel

	Text string `json:"text" validate:"required"`

	PostID uint `json:"post_id"`
	Post   Post `json:"post"`

	UserID uint `json:"user_id"`
	User   User `json:"user"`
}
