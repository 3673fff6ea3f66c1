package router

import (
	"net/http"

	"Book_Club/internal/handler"
	"Book_Club/internal/middleware"
	"Book_Club/internal/pkg"
	"Book_Club/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Deps struct {
	DB     *gorm.DB
	Log    *logrus.Logger
	Issuer *pkg.TokenIssuer
	// Tokens is nil when Redis is not configured; token routes are then not registered.
	Tokens service.TokenStore
}

func InitRouter(d Deps) *gin.Engine {
	pkg.SetupValidator()
	if d.Log == nil {
		d.Log = logrus.StandardLogger()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(d.Log), gin.Recovery())

	clubSvc := service.NewClubService(d.DB)
	user := handler.NewUserHandler(service.NewUserService(d.DB, d.Issuer, d.Tokens))
	club := handler.NewClubHandler(clubSvc, service.NewClubInfoService(d.DB, clubSvc))
	content := handler.NewContentHandler(service.NewContentService(d.DB, clubSvc))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// accounts
	r.POST("/register", user.Register)
	r.POST("/login", user.Login)
	r.GET("/users/:userId", user.GetUser)
	r.GET("/user/:user_id/is-in-club", club.IsInClub)

	// :club is a club id or name
	r.POST("/createclub", club.Create)
	clubGroup := r.Group("/clubs/:club")
	{
		clubGroup.GET("", club.Info)
		clubGroup.POST("/join", club.Join)
		clubGroup.POST("/meetings", content.CreateMeeting)
		clubGroup.POST("/books", content.AddBook)
		clubGroup.POST("/currently-reading", content.AddCurrentlyReading)
		clubGroup.POST("/recomended-books", content.AddRecommended)
		clubGroup.POST("/ratings-reviews", content.AddReview)
	}

	if d.Tokens != nil && d.Issuer != nil {
		tokenGroup := r.Group("/token")
		{
			tokenGroup.POST("", user.Token)
			tokenGroup.POST("/refresh", user.TokenRefresh)
		}

		authGroup := r.Group("/auth")
		authGroup.Use(middleware.AuthMiddleware(d.Issuer, d.Tokens))
		{
			authGroup.POST("/logout", user.Logout)
			authGroup.GET("/me", user.Me)
			authGroup.POST("/change-password", user.ChangePassword)
		}
	}

	return r
}
