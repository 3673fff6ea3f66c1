package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"Book_Club/internal/model"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/sqldb"

	"gorm.io/gorm"
)

type ClubService struct {
	db      *gorm.DB
	clubs   *sqldb.ClubRepository
	users   *sqldb.UserRepository
	members *sqldb.MemberRepository
}

type CreateClubInput struct {
	ClubName    string
	AdminID     uint64
	About       string
	Description string
	Location    string
}

func NewClubService(db *gorm.DB) *ClubService {
	return &ClubService{
		db:      db,
		clubs:   &sqldb.ClubRepository{DB: db},
		users:   &sqldb.UserRepository{DB: db},
		members: &sqldb.MemberRepository{DB: db},
	}
}

// ResolveClub finds a club by id when ref is numeric and such a club exists,
// otherwise by name.
func (s *ClubService) ResolveClub(ctx context.Context, ref string) (*model.Club, error) {
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		club, err := s.clubs.FindByID(ctx, id)
		if err == nil {
			return club, nil
		}
		if !isNotFound(err) {
			return nil, err
		}
	}
	club, err := s.clubs.FindByName(ctx, ref)
	if err != nil {
		return nil, notFound(err, "Club not found")
	}
	return club, nil
}

// CreateClub stores the club, the admin's membership and a club_created event in one transaction.
func (s *ClubService) CreateClub(ctx context.Context, in CreateClubInput) (*model.Club, error) {
	in.ClubName = strings.TrimSpace(in.ClubName)
	if in.ClubName == "" {
		return nil, pkg.MissingField("club_name")
	}
	// /clubs/{club} reads an all-digit segment as an id first
	if _, err := strconv.ParseUint(in.ClubName, 10, 64); err == nil {
		return nil, pkg.NewError(pkg.ErrInvalidInput, "club_name must not be a number")
	}
	if in.AdminID == 0 {
		return nil, pkg.MissingField("admin_id")
	}

	exists, err := s.clubs.ExistsByName(ctx, in.ClubName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, pkg.NewError(pkg.ErrDuplicate, "Club name already exists")
	}
	if _, err := s.users.FindByID(ctx, in.AdminID); err != nil {
		if isNotFound(err) {
			return nil, pkg.NewError(pkg.ErrInvalidReference, "Invalid admin_id")
		}
		return nil, err
	}

	club := &model.Club{
		ClubName:    in.ClubName,
		AdminID:     in.AdminID,
		About:       in.About,
		Description: in.Description,
		Location:    in.Location,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&sqldb.ClubRepository{DB: tx}).Create(ctx, club); err != nil {
			return err
		}
		if _, err := (&sqldb.MemberRepository{DB: tx}).Join(ctx, &model.Member{ClubID: club.ID, UserID: club.AdminID}); err != nil {
			return err
		}
		return (&sqldb.OutboxRepository{DB: tx}).Publish(ctx, model.EventClubCreated, club.ID, model.ClubCreatedPayload{
			ClubID:   club.ID,
			ClubName: club.ClubName,
			AdminID:  club.AdminID,
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.NewError(pkg.ErrDuplicate, "Club name already exists")
	}
	if err != nil {
		return nil, err
	}
	return club, nil
}

// JoinClub adds the user to the club. Joining again is a no-op and reports created=false.
func (s *ClubService) JoinClub(ctx context.Context, ref string, userID uint64) (bool, error) {
	if userID == 0 {
		return false, pkg.NewError(pkg.ErrMissingField, "Missing user_id")
	}

	invalid := pkg.NewError(pkg.ErrInvalidReference, "Invalid user_id or club name")
	club, err := s.ResolveClub(ctx, ref)
	if errors.Is(err, pkg.ErrNotFound) {
		return false, invalid
	}
	if err != nil {
		return false, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if isNotFound(err) {
		return false, invalid
	}
	if err != nil {
		return false, err
	}

	var adminEmail string
	if admin, err := s.users.FindByID(ctx, club.AdminID); err == nil {
		adminEmail = admin.Email
	} else if !isNotFound(err) {
		return false, err
	}

	var created bool
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		created, err = (&sqldb.MemberRepository{DB: tx}).Join(ctx, &model.Member{ClubID: club.ID, UserID: user.ID})
		if err != nil || !created {
			return err
		}
		return (&sqldb.OutboxRepository{DB: tx}).Publish(ctx, model.EventMemberJoined, club.ID, model.MemberJoinedPayload{
			ClubID:     club.ID,
			ClubName:   club.ClubName,
			UserID:     user.ID,
			Username:   user.Username,
			AdminEmail: adminEmail,
		})
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// IsUserInAnyClub reports whether the user has any membership and, if so, the earliest one's club.
func (s *ClubService) IsUserInAnyClub(ctx context.Context, userID uint64) (bool, uint64, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return false, 0, notFound(err, "User not found")
	}
	m, err := s.members.FirstByUser(ctx, userID)
	if isNotFound(err) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, err
	}
	return true, m.ClubID, nil
}
