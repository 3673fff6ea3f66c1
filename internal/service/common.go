package service

import (
	"context"
	"errors"

	"Book_Club/internal/pkg"

	"gorm.io/gorm"
)

// TokenStore keeps the single valid access token and refresh token id per user.
// Delete revokes both.
type TokenStore interface {
	Add(ctx context.Context, userID uint64, token string) error
	Get(ctx context.Context, userID uint64) (string, error)
	Extend(ctx context.Context, userID uint64) error
	AddRefresh(ctx context.Context, userID uint64, jti string) error
	GetRefresh(ctx context.Context, userID uint64) (string, error)
	Delete(ctx context.Context, userID uint64) error
}

// notFound turns gorm's missing-row error into a client-facing NotFound.
func notFound(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkg.NewError(pkg.ErrNotFound, msg)
	}
	return err
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
