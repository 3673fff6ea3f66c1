package model

import "time"

type Club struct {
	ID          uint64 `gorm:"primaryKey"`
	ClubName    string `gorm:"uniqueIndex;size:128;not null"`
	AdminID     uint64 `gorm:"not null;index"`
	About       string `gorm:"type:text"`
	Description string `gorm:"type:text"`
	Location    string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Member links a user to a club. The club admin always has a row.
type Member struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	UserID    uint64 `gorm:"not null;index;uniqueIndex:uk_club_user"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Meeting struct {
	ID              uint64 `gorm:"primaryKey"`
	ClubID          uint64 `gorm:"not null;index"`
	MeetingDate     string `gorm:"size:64;not null"`
	MeetingTime     string `gorm:"size:64"`
	MeetingDuration string `gorm:"size:64"`
	MeetingLink     string `gorm:"type:text"`
	MeetingLocation string `gorm:"type:text"`
	Note            string `gorm:"type:text"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
