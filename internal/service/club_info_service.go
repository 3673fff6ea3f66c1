package service

import (
	"context"

	"Book_Club/internal/model"
	"Book_Club/internal/repository/sqldb"

	"gorm.io/gorm"
)

type ClubInfo struct {
	ClubID                uint64            `json:"club_id"`
	ClubName              string            `json:"club_name"`
	About                 string            `json:"about"`
	Description           string            `json:"description"`
	Location              string            `json:"location"`
	Meetings              []MeetingView     `json:"meetings"`
	Admin                 AdminView         `json:"admin"`
	Members               []MemberView      `json:"members"`
	CurrentlyReadingBooks []ReadingBookView `json:"currently_reading_books"`
	RecommendedBooks      []BookView        `json:"recommended_books"`
}

type MeetingView struct {
	MeetingID       uint64 `json:"meeting_id"`
	MeetingDate     string `json:"meeting_date"`
	MeetingTime     string `json:"meeting_time"`
	MeetingDuration string `json:"meeting_duration"`
	MeetingLink     string `json:"meeting_link"`
	MeetingLocation string `json:"meeting_location"`
	Note            string `json:"note"`
}

type AdminView struct {
	AdminID       uint64 `json:"admin_id"`
	AdminUsername string `json:"admin_username"`
}

type MemberView struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
}

type BookView struct {
	BookID   uint64 `json:"book_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Summary  string `json:"summary"`
	ImageURL string `json:"imageUrl"`
	Pages    int    `json:"pages"`
}

type ReadingBookView struct {
	BookView
	RatingsAndReviews []ReviewView `json:"ratings_and_reviews"`
}

type ReviewView struct {
	UserID   uint64 `json:"user_id"`
	Username string `json:"username"`
	Rating   int    `json:"rating"`
	Review   string `json:"review"`
}

// ClubInfoService assembles the nested club profile.
type ClubInfoService struct {
	clubs    *ClubService
	users    *sqldb.UserRepository
	members  *sqldb.MemberRepository
	meetings *sqldb.MeetingRepository
	books    *sqldb.BookRepository
	reviews  *sqldb.ReviewRepository
}

func NewClubInfoService(db *gorm.DB, clubs *ClubService) *ClubInfoService {
	return &ClubInfoService{
		clubs:    clubs,
		users:    &sqldb.UserRepository{DB: db},
		members:  &sqldb.MemberRepository{DB: db},
		meetings: &sqldb.MeetingRepository{DB: db},
		books:    &sqldb.BookRepository{DB: db},
		reviews:  &sqldb.ReviewRepository{DB: db},
	}
}

// GetClubInfo looks the club up by id or name. Members include the admin.
func (s *ClubInfoService) GetClubInfo(ctx context.Context, ref string) (*ClubInfo, error) {
	club, err := s.clubs.ResolveClub(ctx, ref)
	if err != nil {
		return nil, err
	}

	info := &ClubInfo{
		ClubID:                club.ID,
		ClubName:              club.ClubName,
		About:                 club.About,
		Description:           club.Description,
		Location:              club.Location,
		Meetings:              []MeetingView{},
		Admin:                 AdminView{AdminID: club.AdminID},
		Members:               []MemberView{},
		CurrentlyReadingBooks: []ReadingBookView{},
		RecommendedBooks:      []BookView{},
	}

	admin, err := s.users.FindByID(ctx, club.AdminID)
	switch {
	case err == nil:
		info.Admin.AdminUsername = admin.Username
	case !isNotFound(err):
		return nil, err
	}

	meetings, err := s.meetings.ListByClub(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range meetings {
		info.Meetings = append(info.Meetings, MeetingView{
			MeetingID:       m.ID,
			MeetingDate:     m.MeetingDate,
			MeetingTime:     m.MeetingTime,
			MeetingDuration: m.MeetingDuration,
			MeetingLink:     m.MeetingLink,
			MeetingLocation: m.MeetingLocation,
			Note:            m.Note,
		})
	}

	members, err := s.members.ListByClub(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		info.Members = append(info.Members, MemberView{UserID: m.UserID, Username: m.Username})
	}

	reading, err := s.books.ListCurrentlyReading(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	bookIDs := make([]uint64, 0, len(reading))
	for _, b := range reading {
		bookIDs = append(bookIDs, b.ID)
	}
	reviews, err := s.reviews.ListByBooks(ctx, bookIDs)
	if err != nil {
		return nil, err
	}
	byBook := make(map[uint64][]ReviewView, len(reading))
	for _, r := range reviews {
		byBook[r.BookID] = append(byBook[r.BookID], ReviewView{
			UserID:   r.UserID,
			Username: r.Username,
			Rating:   r.Rating,
			Review:   r.Review,
		})
	}
	for _, b := range reading {
		rv := byBook[b.ID]
		if rv == nil {
			rv = []ReviewView{}
		}
		info.CurrentlyReadingBooks = append(info.CurrentlyReadingBooks, ReadingBookView{
			BookView:          bookView(b),
			RatingsAndReviews: rv,
		})
	}

	recommended, err := s.books.ListRecommended(ctx, club.ID)
	if err != nil {
		return nil, err
	}
	for _, b := range recommended {
		info.RecommendedBooks = append(info.RecommendedBooks, bookView(b))
	}
	return info, nil
}

func bookView(b model.Book) BookView {
	return BookView{
		BookID:   b.ID,
		Title:    b.Title,
		Author:   b.Author,
		Summary:  b.Summary,
		ImageURL: b.ImageURL,
		Pages:    b.Pages,
	}
}
