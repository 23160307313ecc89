package model

type Course struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:10;not null;uniqueIndex" json:"code"`
	Name string `gorm:"size:100" json:"name,omitempty"`
}
