package sqldb

import (
	"context"

	"Book_Club/internal/model"

	"gorm.io/gorm"
)

type ReviewRepository struct {
	DB *gorm.DB
}

// ReviewRow is a review joined with the reviewer's username.
type ReviewRow struct {
	BookID   uint64
	UserID   uint64
	Username string
	Rating   int
	Review   string
}

func (r *ReviewRepository) Create(ctx context.Context, rr *model.RatingReview) error {
	return r.DB.WithContext(ctx).Create(rr).Error
}

// ListByBooks returns the reviews of all given books in insertion order.
func (r *ReviewRepository) ListByBooks(ctx context.Context, bookIDs []uint64) ([]ReviewRow, error) {
	if len(bookIDs) == 0 {
		return nil, nil
	}
	var rows []ReviewRow
	err := r.DB.WithContext(ctx).
		Table("ratings_and_reviews rr").
		Select("rr.book_id AS book_id, rr.user_id AS user_id, users.username AS username, rr.rating AS rating, rr.review AS review").
		Joins("JOIN users ON users.id = rr.user_id").
		Where("rr.book_id IN ?", bookIDs).
		Order("rr.id ASC").
		Scan(&rows).Error
	return rows, err
}
