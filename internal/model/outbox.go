package model

import "time"

const (
	EventUserRegistered = "user_registered"
	EventClubCreated    = "club_created"
	EventMemberJoined   = "member_joined"
	EventReviewPosted   = "review_posted"
)

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)

// OutboxEvent is written in the same transaction as the row it describes and relayed later.
type OutboxEvent struct {
	ID          uint64 `gorm:"primaryKey"`
	EventType   string `gorm:"size:32;not null"`
	AggregateID uint64 `gorm:"not null"`
	Payload     string `gorm:"type:text;not null"`
	Status      int8   `gorm:"not null;default:0;index"` // 0=pending,1=sent,2=failed
	Retry       int    `gorm:"not null;default:0"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (OutboxEvent) TableName() string { return "outbox_events" }

// All lists every model that is auto-migrated.
func All() []any {
	return []any{
		&User{},
		&Club{},
		&Member{},
		&Meeting{},
		&Book{},
		&CurrentlyReadingBook{},
		&RecommendedBook{},
		&RatingReview{},
		&OutboxEvent{},
	}
}

type UserRegisteredPayload struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type ClubCreatedPayload struct {
	ClubID   uint64 `json:"club_id"`
	ClubName string `json:"club_name"`
	AdminID  uint64 `json:"admin_id"`
}

// MemberJoinedPayload carries what the admin notification needs, so relaying does not read other tables.
type MemberJoinedPayload struct {
	ClubID     uint64 `json:"club_id"`
	ClubName   string `json:"club_name"`
	UserID     uint64 `json:"user_id"`
	Username   string `json:"username"`
	AdminEmail string `json:"admin_email"`
}

type ReviewPostedPayload struct {
	ReviewID uint64 `json:"review_id"`
	ClubID   uint64 `json:"club_id"`
	BookID   uint64 `json:"book_id"`
	UserID   uint64 `json:"user_id"`
	Rating   int    `json:"rating"`
}
