package handler

import (
	"net/http"

	"Book_Club/internal/service"

	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	clubs *service.ClubService
	info  *service.ClubInfoService
}

type CreateClubReq struct {
	ClubName    string `json:"club_name" binding:"required,max=128"`
	AdminID     uint64 `json:"admin_id" binding:"required"`
	About       string `json:"about"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// JoinClubReq is checked by the service so a missing user_id reads "Missing user_id".
type JoinClubReq struct {
	UserID uint64 `json:"user_id"`
}

func NewClubHandler(clubs *service.ClubService, info *service.ClubInfoService) *ClubHandler {
	return &ClubHandler{clubs: clubs, info: info}
}

func (h *ClubHandler) Create(c *gin.Context) {
	var req CreateClubReq
	if !bindJSON(c, &req) {
		return
	}

	club, err := h.clubs.CreateClub(c.Request.Context(), service.CreateClubInput{
		ClubName:    req.ClubName,
		AdminID:     req.AdminID,
		About:       req.About,
		Description: req.Description,
		Location:    req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Club created successfully", "club_id": club.ID})
}

func (h *ClubHandler) Join(c *gin.Context) {
	var req JoinClubReq
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.clubs.JoinClub(c.Request.Context(), c.Param("club"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Joined club successfully", "already_member": !created})
}

func (h *ClubHandler) Info(c *gin.Context) {
	info, err := h.info.GetClubInfo(c.Request.Context(), c.Param("club"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"club_info": info})
}

func (h *ClubHandler) IsInClub(c *gin.Context) {
	userID, ok := uintParam(c, "user_id")
	if !ok {
		return
	}

	in, clubID, err := h.clubs.IsUserInAnyClub(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	if !in {
		c.JSON(http.StatusOK, gin.H{"is_in_club": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_in_club": true, "club_id": clubID})
}
