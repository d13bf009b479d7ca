package model

type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(255);uniqueIndex;not null" json:"name" validate:"required"`
	Contact string `gorm:"type:varchar(255)" json:"contact"`
	Email   string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Phone   string `gorm:"type:varchar(30)" json:"phone"`
}
