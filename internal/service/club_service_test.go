package service

import (
	"context"
	"errors"
	"testing"

	"Book_Club/internal/model"
	"Book_Club/internal/pkg"
)

func TestCreateClubInvalidAdmin(t *testing.T) {
	db := tempDB(t)
	clubs := NewClubService(db)

	_, err := clubs.CreateClub(context.Background(), CreateClubInput{ClubName: "Ghosts", AdminID: 42})
	if !errors.Is(err, pkg.ErrInvalidReference) {
		t.Fatalf("got %v, want ErrInvalidReference", err)
	}
	if pkg.HTTPStatus(err) != 400 {
		t.Fatalf("status = %d", pkg.HTTPStatus(err))
	}
	if n := countRows(t, db, &model.Club{}); n != 0 {
		t.Fatalf("clubs = %d, want 0", n)
	}
}

func TestCreateClubDuplicateNameKeepsExisting(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	a := mustRegister(t, users, "ann")
	b := mustRegister(t, users, "ben")
	orig := mustCreateClub(t, clubs, "Classics", a.ID)

	_, err := clubs.CreateClub(context.Background(), CreateClubInput{ClubName: "Classics", AdminID: b.ID})
	if !errors.Is(err, pkg.ErrDuplicate) {
		t.Fatalf("got %v, want ErrDuplicate", err)
	}

	var got model.Club
	if err := db.First(&got, orig.ID).Error; err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.AdminID != a.ID {
		t.Fatalf("admin changed to %d", got.AdminID)
	}
	if n := countRows(t, db, &model.Member{}); n != 1 {
		t.Fatalf("members = %d, want 1", n)
	}
}

func TestCreateClubMissingFields(t *testing.T) {
	clubs := NewClubService(tempDB(t))
	ctx := context.Background()

	if _, err := clubs.CreateClub(ctx, CreateClubInput{AdminID: 1}); err == nil || err.Error() != "Missing required field: club_name" {
		t.Fatalf("got %v", err)
	}
	if _, err := clubs.CreateClub(ctx, CreateClubInput{ClubName: "x"}); err == nil || err.Error() != "Missing required field: admin_id" {
		t.Fatalf("got %v", err)
	}
}

func TestCreateClubMakesAdminMember(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	ctx := context.Background()
	admin := mustRegister(t, users, "cleo")
	club := mustCreateClub(t, clubs, "Sci-Fi Readers", admin.ID)

	var m model.Member
	if err := db.Where("club_id = ? AND user_id = ?", club.ID, admin.ID).First(&m).Error; err != nil {
		t.Fatalf("admin membership: %v", err)
	}

	in, clubID, err := clubs.IsUserInAnyClub(ctx, admin.ID)
	if err != nil {
		t.Fatalf("is in club: %v", err)
	}
	if !in || clubID != club.ID {
		t.Fatalf("got (%v, %d), want (true, %d)", in, clubID, club.ID)
	}

	var ev model.OutboxEvent
	if err := db.Where("event_type = ?", model.EventClubCreated).First(&ev).Error; err != nil {
		t.Fatalf("club_created event: %v", err)
	}
}

func TestIsUserInAnyClub(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	ctx := context.Background()
	u := mustRegister(t, users, "dan")

	in, _, err := clubs.IsUserInAnyClub(ctx, u.ID)
	if err != nil || in {
		t.Fatalf("got (%v, %v), want (false, nil)", in, err)
	}
	if _, _, err := clubs.IsUserInAnyClub(ctx, 999); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing user: %v", err)
	}
}

func TestJoinClubIdempotent(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	ctx := context.Background()
	admin := mustRegister(t, users, "eve")
	reader := mustRegister(t, users, "fay")
	club := mustCreateClub(t, clubs, "Poetry", admin.ID)

	created, err := clubs.JoinClub(ctx, "Poetry", reader.ID)
	if err != nil || !created {
		t.Fatalf("first join: created=%v err=%v", created, err)
	}
	created, err = clubs.JoinClub(ctx, "Poetry", reader.ID)
	if err != nil || created {
		t.Fatalf("second join: created=%v err=%v", created, err)
	}

	var n int64
	db.Model(&model.Member{}).Where("club_id = ? AND user_id = ?", club.ID, reader.ID).Count(&n)
	if n != 1 {
		t.Fatalf("memberships = %d, want 1", n)
	}

	var events []model.OutboxEvent
	db.Where("event_type = ?", model.EventMemberJoined).Find(&events)
	if len(events) != 1 {
		t.Fatalf("member_joined events = %d, want 1", len(events))
	}
}

func TestJoinClubInvalidReference(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	ctx := context.Background()
	admin := mustRegister(t, users, "gus")
	mustCreateClub(t, clubs, "Mystery", admin.ID)

	if _, err := clubs.JoinClub(ctx, "Nope", admin.ID); !errors.Is(err, pkg.ErrInvalidReference) {
		t.Fatalf("unknown club: %v", err)
	}
	if _, err := clubs.JoinClub(ctx, "Mystery", 999); !errors.Is(err, pkg.ErrInvalidReference) {
		t.Fatalf("unknown user: %v", err)
	}
	_, err := clubs.JoinClub(ctx, "Mystery", 0)
	if !errors.Is(err, pkg.ErrMissingField) || err.Error() != "Missing user_id" {
		t.Fatalf("missing user_id: %v", err)
	}
}

func TestResolveClubByIDOrName(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	ctx := context.Background()
	admin := mustRegister(t, users, "hal")
	first := mustCreateClub(t, clubs, "Horror", admin.ID)
	// rows written before numeric names were rejected still resolve by name
	numeric := &model.Club{ClubName: "1984", AdminID: admin.ID}
	if err := db.Create(numeric).Error; err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := clubs.ResolveClub(ctx, "Horror")
	if err != nil || got.ID != first.ID {
		t.Fatalf("by name: %v %v", got, err)
	}
	got, err = clubs.ResolveClub(ctx, "1")
	if err != nil || got.ID != first.ID {
		t.Fatalf("by id: %v %v", got, err)
	}
	got, err = clubs.ResolveClub(ctx, "1984")
	if err != nil || got.ID != numeric.ID {
		t.Fatalf("numeric name: %v %v", got, err)
	}
	if _, err := clubs.ResolveClub(ctx, "Romance"); !errors.Is(err, pkg.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
}

func TestCreateClubRejectsNumericName(t *testing.T) {
	db := tempDB(t)
	users := NewUserService(db, nil, nil)
	clubs := NewClubService(db)
	admin := mustRegister(t, users, "ida")

	_, err := clubs.CreateClub(context.Background(), CreateClubInput{ClubName: "2", AdminID: admin.ID})
	if !errors.Is(err, pkg.ErrInvalidInput) {
		t.Fatalf("got %v, want ErrInvalidInput", err)
	}
	if n := countRows(t, db, &model.Club{}); n != 0 {
		t.Fatalf("clubs = %d, want 0", n)
	}
	// digits mixed with letters are fine
	mustCreateClub(t, clubs, "1984 Readers", admin.ID)
}
