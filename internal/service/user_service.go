package service

import (
	"context"
	"errors"
	"strings"

	"Book_Club/internal/model"
	"Book_Club/internal/pkg"
	"Book_Club/internal/repository/redis"
	"Book_Club/internal/repository/sqldb"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrTokensDisabled = errors.New("token store not configured")

type UserService struct {
	db      *gorm.DB
	users   *sqldb.UserRepository
	members *sqldb.MemberRepository
	issuer  *pkg.TokenIssuer
	tokens  TokenStore
}

// UserDetails is what login reports back.
type UserDetails struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type UserInfo struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Club     *uint64 `json:"club"`
}

// NewUserService builds the account service. issuer and tokens may be nil when
// token auth is not configured.
func NewUserService(db *gorm.DB, issuer *pkg.TokenIssuer, tokens TokenStore) *UserService {
	return &UserService{
		db:      db,
		users:   &sqldb.UserRepository{DB: db},
		members: &sqldb.MemberRepository{DB: db},
		issuer:  issuer,
		tokens:  tokens,
	}
}

func (s *UserService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	switch {
	case username == "":
		return nil, pkg.MissingField("username")
	case email == "":
		return nil, pkg.MissingField("email")
	case password == "":
		return nil, pkg.MissingField("password")
	}

	_, err := s.users.FindByUsernameOrEmail(ctx, username, email)
	if err == nil {
		return nil, pkg.NewError(pkg.ErrDuplicate, "User already exists")
	}
	if !isNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: username,
		Password: string(hash),
		Email:    email,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := (&sqldb.UserRepository{DB: tx}).Create(ctx, user); err != nil {
			return err
		}
		return (&sqldb.OutboxRepository{DB: tx}).Publish(ctx, model.EventUserRegistered, user.ID, model.UserRegisteredPayload{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		})
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, pkg.NewError(pkg.ErrDuplicate, "User already exists")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Login(ctx context.Context, username, password string) (*UserDetails, error) {
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return &UserDetails{ID: user.ID, Username: user.Username, Email: user.Email}, nil
}

func (s *UserService) authenticate(ctx context.Context, username, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, pkg.MissingField("username")
	}
	if password == "" {
		return nil, pkg.MissingField("password")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if isNotFound(err) {
		return nil, pkg.NewError(pkg.ErrInvalidCredentials, "Invalid username or password")
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, pkg.NewError(pkg.ErrInvalidCredentials, "Invalid username or password")
	}
	return user, nil
}

// GetUser reports the user together with the club of their earliest membership.
func (s *UserService) GetUser(ctx context.Context, userID uint64) (*UserInfo, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}

	info := &UserInfo{ID: user.ID, Username: user.Username, Email: user.Email}
	m, err := s.members.FirstByUser(ctx, user.ID)
	switch {
	case err == nil:
		info.Club = &m.ClubID
	case !isNotFound(err):
		return nil, err
	}
	return info, nil
}

// IssueToken checks the credentials and stores a fresh access token, replacing any earlier one.
func (s *UserService) IssueToken(ctx context.Context, username, password string) (*pkg.Pair, error) {
	if s.issuer == nil || s.tokens == nil {
		return nil, ErrTokensDisabled
	}
	user, err := s.authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user.ID)
}

func (s *UserService) Refresh(ctx context.Context, refreshToken string) (*pkg.Pair, error) {
	if s.issuer == nil || s.tokens == nil {
		return nil, ErrTokensDisabled
	}
	if refreshToken == "" {
		return nil, pkg.MissingField("refresh_token")
	}
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, pkg.NewError(pkg.ErrUnauthorized, err.Error())
	}
	// only the most recently issued refresh token is redeemable
	current, err := s.tokens.GetRefresh(ctx, claims.UserID)
	if errors.Is(err, redis.ErrTokenNotFound) || (err == nil && current != claims.ID) {
		return nil, pkg.NewError(pkg.ErrUnauthorized, "refresh token revoked")
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.users.FindByID(ctx, claims.UserID); err != nil {
		if isNotFound(err) {
			return nil, pkg.NewError(pkg.ErrUnauthorized, "user no longer exists")
		}
		return nil, err
	}
	return s.issue(ctx, claims.UserID)
}

func (s *UserService) issue(ctx context.Context, userID uint64) (*pkg.Pair, error) {
	pair, err := s.issuer.GeneratePair(userID)
	if err != nil {
		return nil, err
	}
	if err := s.tokens.Add(ctx, userID, pair.AccessToken); err != nil {
		return nil, err
	}
	if err := s.tokens.AddRefresh(ctx, userID, pair.RefreshID); err != nil {
		return nil, err
	}
	return pair, nil
}

// Logout revokes the stored access token and refresh token id.
func (s *UserService) Logout(ctx context.Context, userID uint64) error {
	if s.tokens == nil {
		return ErrTokensDisabled
	}
	return s.tokens.Delete(ctx, userID)
}

// ChangePassword verifies the old password, stores the new hash and revokes the access and refresh tokens.
func (s *UserService) ChangePassword(ctx context.Context, userID uint64, oldPassword, newPassword string) error {
	if oldPassword == "" {
		return pkg.MissingField("old_password")
	}
	if newPassword == "" {
		return pkg.MissingField("new_password")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, "User not found")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)) != nil {
		return pkg.NewError(pkg.ErrInvalidCredentials, "old password is incorrect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user, string(hash)); err != nil {
		return err
	}
	return s.Logout(ctx, userID)
}
