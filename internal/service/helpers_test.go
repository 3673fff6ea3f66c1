package service

import (
	"context"
	"path/filepath"
	"testing"

	"Book_Club/internal/model"
	"Book_Club/internal/repository/sqldb"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func tempDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := sqldb.Open("sqlite", filepath.Join(t.TempDir(), "test.db"), gormlogger.Discard)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := sqldb.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close(db) })
	return db
}

func mustRegister(t *testing.T, svc *UserService, username string) *model.User {
	t.Helper()
	u, err := svc.Register(context.Background(), username, username+"@example.com", "pw-"+username)
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

func mustCreateClub(t *testing.T, svc *ClubService, name string, adminID uint64) *model.Club {
	t.Helper()
	c, err := svc.CreateClub(context.Background(), CreateClubInput{ClubName: name, AdminID: adminID})
	if err != nil {
		t.Fatalf("create club %s: %v", name, err)
	}
	return c
}

func countRows(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	if err := db.Model(m).Count(&n).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	return n
}
