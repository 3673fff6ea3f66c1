package handler

import (
	"net/http"

	"Book_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	svc *service.ContentService
}

type MeetingReq struct {
	MeetingDate     string `json:"meeting_date" binding:"required"`
	MeetingTime     string `json:"meeting_time"`
	MeetingDuration string `json:"meeting_duration"`
	MeetingLink     string `json:"meeting_link"`
	MeetingLocation string `json:"meeting_location"`
	Note            string `json:"note"`
}

type BookReq struct {
	Title    string `json:"title" binding:"required,max=255"`
	Author   string `json:"author"`
	Summary  string `json:"summary"`
	ImageURL string `json:"imageUrl"`
	Pages    int    `json:"pages" binding:"gte=0"`
}

type BookRefReq struct {
	BookID uint64 `json:"book_id" binding:"required"`
}

type ReviewReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Rating int    `json:"rating" binding:"required"`
	BookID uint64 `json:"book_id" binding:"required"`
	Review string `json:"review"`
}

func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{svc: svc}
}

func (h *ContentHandler) CreateMeeting(c *gin.Context) {
	var req MeetingReq
	if !bindJSON(c, &req) {
		return
	}

	meeting, err := h.svc.CreateMeeting(c.Request.Context(), c.Param("club"), service.MeetingInput{
		MeetingDate:     req.MeetingDate,
		MeetingTime:     req.MeetingTime,
		MeetingDuration: req.MeetingDuration,
		MeetingLink:     req.MeetingLink,
		MeetingLocation: req.MeetingLocation,
		Note:            req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Meeting created successfully", "meeting_id": meeting.ID})
}

func (h *ContentHandler) AddBook(c *gin.Context) {
	var req BookReq
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.svc.AddBook(c.Request.Context(), c.Param("club"), service.BookInput{
		Title:    req.Title,
		Author:   req.Author,
		Summary:  req.Summary,
		ImageURL: req.ImageURL,
		Pages:    req.Pages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Book added successfully", "book_id": book.ID})
}

func (h *ContentHandler) AddCurrentlyReading(c *gin.Context) {
	var req BookRefReq
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.AddCurrentlyReading(c.Request.Context(), c.Param("club"), req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Book added to currently reading list successfully",
		"already_added": !created,
	})
}

func (h *ContentHandler) AddRecommended(c *gin.Context) {
	var req BookRefReq
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.svc.AddRecommended(c.Request.Context(), c.Param("club"), req.BookID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Book added to recommended list successfully",
		"already_added": !created,
	})
}

func (h *ContentHandler) AddReview(c *gin.Context) {
	var req ReviewReq
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.svc.AddReview(c.Request.Context(), c.Param("club"), service.ReviewInput{
		UserID: req.UserID,
		BookID: req.BookID,
		Rating: req.Rating,
		Review: req.Review,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Rating and review added successfully", "review_id": review.ID})
}
