package sqldb

import (
	"context"

	"Book_Club/internal/model"

	"gorm.io/gorm"
)

type MeetingRepository struct {
	DB *gorm.DB
}

func (r *MeetingRepository) Create(ctx context.Context, m *model.Meeting) error {
	return r.DB.WithContext(ctx).Create(m).Error
}

// ListByClub returns meetings in insertion order.
func (r *MeetingRepository) ListByClub(ctx context.Context, clubID uint64) ([]model.Meeting, error) {
	var list []model.Meeting
	err := r.DB.WithContext(ctx).Where("club_id = ?", clubID).Order("id ASC").Find(&list).Error
	return list, err
}
