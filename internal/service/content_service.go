package service

import (
	"context"
	"strings"

	"Book_Club/internal/model"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/sqldb"

	"gorm.io/gorm"
)

// ContentService handles everything a club accumulates after creation: meetings, books, lists and reviews.
type ContentService struct {
	db       *gorm.DB
	clubs    *ClubService
	users    *sqldb.UserRepository
	meetings *sqldb.MeetingRepository
	books    *sqldb.BookRepository
}

type MeetingInput struct {
	MeetingDate     string
	MeetingTime     string
	MeetingDuration string
	MeetingLink     string
	MeetingLocation string
	Note            string
}

type BookInput struct {
	Title    string
	Author   string
	Summary  string
	ImageURL string
	Pages    int
}

type ReviewInput struct {
	UserID uint64
	BookID uint64
	Rating int
	Review string
}

const (
	MinRating = 1
	MaxRating = 5
)

func NewContentService(db *gorm.DB, clubs *ClubService) *ContentService {
	return &ContentService{
		db:       db,
		clubs:    clubs,
		users:    &sqldb.UserRepository{DB: db},
		meetings: &sqldb.MeetingRepository{DB: db},
		books:    &sqldb.BookRepository{DB: db},
	}
}

func (s *ContentService) CreateMeeting(ctx context.Context, ref string, in MeetingInput) (*model.Meeting, error) {
	if strings.TrimSpace(in.MeetingDate) == "" {
		return nil, pkg.MissingField("meeting_date")
	}
	club, err := s.clubs.ResolveClub(ctx, ref)
	if err != nil {
		return nil, err
	}

	meeting := &model.Meeting{
		ClubID:          club.ID,
		MeetingDate:     in.MeetingDate,
		MeetingTime:     in.MeetingTime,
		MeetingDuration: in.MeetingDuration,
		MeetingLink:     in.MeetingLink,
		MeetingLocation: in.MeetingLocation,
		Note:            in.Note,
	}
	if err := s.meetings.Create(ctx, meeting); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (s *ContentService) AddBook(ctx context.Context, ref string, in BookInput) (*model.Book, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, pkg.MissingField("title")
	}
	club, err := s.clubs.ResolveClub(ctx, ref)
	if err != nil {
		return nil, err
	}

	book := &model.Book{
		ClubID:   club.ID,
		Title:    in.Title,
		Author:   in.Author,
		Summary:  in.Summary,
		ImageURL: in.ImageURL,
		Pages:    in.Pages,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

// AddCurrentlyReading puts the book on the club's reading list. created is false when it was already there.
func (s *ContentService) AddCurrentlyReading(ctx context.Context, ref string, bookID uint64) (bool, error) {
	club, book, err := s.clubAndBook(ctx, ref, bookID)
	if err != nil {
		return false, err
	}
	return s.books.AddCurrentlyReading(ctx, &model.CurrentlyReadingBook{ClubID: club.ID, BookID: book.ID})
}

// AddRecommended records the club admin as the recommender.
func (s *ContentService) AddRecommended(ctx context.Context, ref string, bookID uint64) (bool, error) {
	club, book, err := s.clubAndBook(ctx, ref, bookID)
	if err != nil {
		return false, err
	}
	return s.books.AddRecommended(ctx, &model.RecommendedBook{ClubID: club.ID, BookID: book.ID, UserID: club.AdminID})
}

func (s *ContentService) clubAndBook(ctx context.Context, ref string, bookID uint64) (*model.Club, *model.Book, error) {
	if bookID == 0 {
		return nil, nil, pkg.MissingField("book_id")
	}
	club, err := s.clubs.ResolveClub(ctx, ref)
	if err != nil {
		return nil, nil, err
	}
	book, err := s.books.FindByID(ctx, bookID)
	if err != nil {
		return nil, nil, notFound(err, "Book not found")
	}
	return club, book, nil
}

func (s *ContentService) AddReview(ctx context.Context, ref string, in ReviewInput) (*model.RatingReview, error) {
	switch {
	case in.UserID == 0:
		return nil, pkg.MissingField("user_id")
	case in.Rating == 0:
		return nil, pkg.MissingField("rating")
	case in.BookID == 0:
		return nil, pkg.MissingField("book_id")
	}
	if in.Rating < MinRating || in.Rating > MaxRating {
		return nil, pkg.Errorf(pkg.ErrInvalidInput, "rating must be between %d and %d", MinRating, MaxRating)
	}

	club, err := s.clubs.ResolveClub(ctx, ref)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, in.UserID)
	if err != nil {
		return nil, notFound(err, "User or Book not found")
	}
	book, err := s.books.FindByID(ctx, in.BookID)
	if err != nil {
		return nil, notFound(err, "User or Book not found")
	}

	review := &model.RatingReview{
		UserID: user.ID,
		BookID: book.ID,
		Rating: in.Rating,
		Review: in.Review,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&sqldb.ReviewRepository{DB: tx}).Create(ctx, review); err != nil {
			return err
		}
		return (&sqldb.OutboxRepository{DB: tx}).Publish(ctx, model.EventReviewPosted, book.ID, model.ReviewPostedPayload{
			ReviewID: review.ID,
			ClubID:   club.ID,
			BookID:   book.ID,
			UserID:   user.ID,
			Rating:   review.Rating,
		})
	})
	if err != nil {
		return nil, err
	}
	return review, nil
}
