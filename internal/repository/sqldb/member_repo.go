package sqldb

import (
	"context"

	"Book_Club/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MemberRepository struct {
	DB *gorm.DB
}

// MemberRow is a member joined with its username.
type MemberRow struct {
	UserID   uint64
	Username string
}

// Join inserts the membership unless (club_id, user_id) already exists.
// created reports whether a new row was written.
func (r *MemberRepository) Join(ctx context.Context, member *model.Member) (bool, error) {
	res := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "club_id"}, {Name: "user_id"}},
		DoNothing: true,
	}).Create(member)
	return res.RowsAffected > 0, res.Error
}

// FirstByUser returns the user's earliest membership.
func (r *MemberRepository) FirstByUser(ctx context.Context, userID uint64) (*model.Member, error) {
	var m model.Member
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").First(&m).Error
	return &m, err
}

// ListByClub lists members in join order.
func (r *MemberRepository) ListByClub(ctx context.Context, clubID uint64) ([]MemberRow, error) {
	var rows []MemberRow
	err := r.DB.WithContext(ctx).
		Table("members").
		Select("users.id AS user_id, users.username AS username").
		Joins("JOIN users ON users.id = members.user_id").
		Where("members.club_id = ?", clubID).
		Order("members.id ASC").
		Scan(&rows).Error
	return rows, err
}
