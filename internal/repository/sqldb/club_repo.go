package sqldb

import (
	"context"

	"Book_Club/internal/model"

	"gorm.io/gorm"
)

type ClubRepository struct {
	DB *gorm.DB
}

func (r *ClubRepository) Create(ctx context.Context, c *model.Club) error {
	return r.DB.WithContext(ctx).Create(c).Error
}

func (r *ClubRepository) FindByID(ctx context.Context, id uint64) (*model.Club, error) {
	var club model.Club
	err := r.DB.WithContext(ctx).First(&club, id).Error
	return &club, err
}

func (r *ClubRepository) FindByName(ctx context.Context, name string) (*model.Club, error) {
	var club model.Club
	err := r.DB.WithContext(ctx).Where("club_name = ?", name).First(&club).Error
	return &club, err
}

func (r *ClubRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Club{}).Where("club_name = ?", name).Count(&count).Error
	return count > 0, err
}
