package models

import "time"

type CareerLevelModel struct {
	MemberID   string `gorm:"primaryKey"`
	Rank       int    `gorm:"not null"`
	PromotedAt time.Time
}

func (CareerLevelModel) TableName() string {
	return "career_levels"
}
