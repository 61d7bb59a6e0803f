package models

import "gorm.io/datatypes"

type Post struct {
	BaseModel

	Title string `json:"title" validate:"required"`
	Text  string `json:"text" validate:"required"`
	Image string `json:"image"`

	AuthorID uint `json:"author_id"`
	Author   User `json:"author"`

	CategoryID uint     `json:"category_id"`
	Category   Category `json:"category"`

	// CommentIDs keeps insertion order; inserts have set semantics.
	CommentIDs datatypes.JSONSlice[uint] `json:"comment_ids"`
	LikerIDs   datatypes.JSONSlice[uint] `json:"liker_ids"`
}
