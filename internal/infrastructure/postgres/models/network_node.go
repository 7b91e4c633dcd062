package models

import "time"

type NetworkNodeModel struct {
	MemberID    string  `gorm:"primaryKey"`
	SponsorID   string  `gorm:"index"`
	ParentID    *string `gorm:"uniqueIndex:idx_network_nodes_slot,priority:1"`
	Position    int     `gorm:"uniqueIndex:idx_network_nodes_slot,priority:2"`
	Seq         int64   `gorm:"uniqueIndex;not null"`
	Status      string  `gorm:"not null"`
	SubtreeSize int64   `gorm:"not null;default:1"`
	JoinedAt    time.Time
	UpdatedAt   time.Time
}

func (NetworkNodeModel) TableName() string {
	return "network_nodes"
}
