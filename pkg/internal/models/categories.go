package models

type Category struct {
	BaseModel

	Name string `json:"name" gorm:"uniqueIndex" validate:"required"`
}
