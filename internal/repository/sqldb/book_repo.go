package sqldb

import (
	"context"

	"Book_Club/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookRepository struct {
	DB *gorm.DB
}

func (r *BookRepository) Create(ctx context.Context, b *model.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) FindByID(ctx context.Context, id uint64) (*model.Book, error) {
	var book model.Book
	err := r.DB.WithContext(ctx).First(&book, id).Error
	return &book, err
}

// AddCurrentlyReading is idempotent on (club_id, book_id).
func (r *BookRepository) AddCurrentlyReading(ctx context.Context, row *model.CurrentlyReadingBook) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "club_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(row)
	return res.RowsAffected > 0, res.Error
}

// AddRecommended is idempotent on (club_id, book_id).
func (r *BookRepository) AddRecommended(ctx context.Context, row *model.RecommendedBook) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "club_id"}, {Name: "book_id"}},
		DoNothing: true,
	}).Create(row)
	return res.RowsAffected > 0, res.Error
}

// ListCurrentlyReading returns the club's currently-reading books in the order they were added.
func (r *BookRepository) ListCurrentlyReading(ctx context.Context, clubID uint64) ([]model.Book, error) {
	var list []model.Book
	err := r.DB.WithContext(ctx).
		Model(&model.Book{}).
		Joins("JOIN currently_reading_books crb ON crb.book_id = books.id").
		Where("crb.club_id = ?", clubID).
		Order("crb.id ASC").
		Find(&list).Error
	return list, err
}

// ListRecommended returns the club's recommended books in the order they were added.
func (r *BookRepository) ListRecommended(ctx context.Context, clubID uint64) ([]model.Book, error) {
	var list []model.Book
	err := r.DB.WithContext(ctx).
		Model(&model.Book{}).
		Joins("JOIN recommended_books rb ON rb.book_id = books.id").
		Where("rb.club_id = ?", clubID).
		Order("rb.id ASC").
		Find(&list).Error
	return list, err
}
