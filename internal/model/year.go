package model

import (
	"time"

	"ideahub/internal/academicyear"
)

// AcademicYear is a submission period. Ideas belong to exactly one year.
type AcademicYear struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"uniqueIndex;not null" json:"name"`
	OpeningDate      time.Time `gorm:"not null" json:"opening_date"`
	ClosureDate      time.Time `gorm:"not null" json:"closure_date"`
	FinalClosureDate time.Time `gorm:"not null" json:"final_closure_date"`
}

func (y AcademicYear) Period() academicyear.Period {
	return academicyear.Period{
		Opening:      y.OpeningDate,
		Closure:      y.ClosureDate,
		FinalClosure: y.FinalClosureDate,
	}
}
