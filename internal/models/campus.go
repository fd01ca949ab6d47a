package models

// Building is a university building. Names are unique and drive dispatch routing.
type Building struct {
	ID     uint    `gorm:"primaryKey" json:"id"`
	Name   string  `gorm:"size:128;not null;uniqueIndex" json:"name"`
	Floors []Floor `gorm:"foreignKey:BuildingID" json:"floors,omitempty"`
}

// Floor is a level of a building, numbered from 1.
type Floor struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Number     int         `gorm:"not null" json:"number"`
	BuildingID uint        `gorm:"not null;index" json:"building_id"`
	Building   Building    `gorm:"constraint:OnDelete:CASCADE" json:"building"`
	Classrooms []Classroom `gorm:"foreignKey:FloorID" json:"classrooms,omitempty"`
}

// Classroom is a room on a floor. Code combines the floor number, a two digit
// sequence and the building suffix, e.g. "302і".
type Classroom struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	Code    string `gorm:"size:16;not null;index" json:"code"`
	FloorID uint   `gorm:"not null;index" json:"floor_id"`
	Floor   Floor  `gorm:"constraint:OnDelete:CASCADE" json:"floor"`
}
