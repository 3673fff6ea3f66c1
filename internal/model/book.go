package model

import "time"

type Book struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index"`
	Title     string `gorm:"size:255;not null"`
	Author    string `gorm:"size:255"`
	Summary   string `gorm:"type:text"`
	ImageURL  string `gorm:"column:image_url;type:text"`
	Pages     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

type CurrentlyReadingBook struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_reading_club_book"`
	BookID    uint64 `gorm:"not null;index;uniqueIndex:uk_reading_club_book"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (CurrentlyReadingBook) TableName() string {
	return "currently_reading_books"
}

// RecommendedBook records a book the club admin recommends. UserID is the admin at the time of recommendation.
type RecommendedBook struct {
	ID        uint64 `gorm:"primaryKey"`
	ClubID    uint64 `gorm:"not null;index;uniqueIndex:uk_recommended_club_book"`
	BookID    uint64 `gorm:"not null;index;uniqueIndex:uk_recommended_club_book"`
	UserID    uint64 `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RecommendedBook) TableName() string {
	return "recommended_books"
}

type RatingReview struct {
	ID        uint64 `gorm:"primaryKey"`
	UserID    uint64 `gorm:"not null;index"`
	BookID    uint64 `gorm:"not null;index"`
	Rating    int    `gorm:"not null"`
	Review    string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (RatingReview) TableName() string {
	return "ratings_and_reviews"
}
