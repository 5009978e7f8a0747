package service

import (
	"context"
	"strings"
	"time"

	"github.com/Rishu1724/TextMeIfYouCan/internal/identity"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"
	"github.com/Rishu1724/TextMeIfYouCan/internal/repo"
	apperrors "github.com/Rishu1724/TextMeIfYouCan/pkg/errors"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
)

// RegisterRequest is the signup payload. Credential verification is
// the identity collaborator's concern; this layer only creates the
// profile document and hands back a bearer token.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	Username    string `json:"username" binding:"required"`
	DisplayName string `json:"displayName"`
}

// UpdateProfileRequest carries the mutable profile fields.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Status      string `json:"status"`
	AvatarURL   string `json:"avatarUrl"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterRequest) (*model.User, string, error)
	Login(ctx context.Context, uid string) (*model.User, string, error)
	LoginByEmail(ctx context.Context, email string) (*model.User, string, error)
	Logout(ctx context.Context, uid string) error
	GetProfile(ctx context.Context, uid string) (*model.User, error)
	UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	SearchUsers(ctx context.Context, query string) ([]model.User, error)
}

type userService struct {
	users    repo.UserRepository
	provider identity.Provider
	logger   *zap.Logger
}

func NewUserService(users repo.UserRepository, provider identity.Provider, logger *zap.Logger) UserService {
	return &userService{
		users:    users,
		provider: provider,
		logger:   logger,
	}
}

func (s *userService) Register(ctx context.Context, req RegisterRequest) (*model.User, string, error) {
	taken, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "registration failed", err)
	}
	if taken {
		return nil, "", apperrors.AlreadyExists("user already exists")
	}

	taken, err = s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "registration failed", err)
	}
	if taken {
		return nil, "", apperrors.AlreadyExists("username is already taken")
	}

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Username
	}

	user := &model.User{
		UID:         uuid.New().String(),
		Email:       req.Email,
		Username:    req.Username,
		DisplayName: displayName,
		Status:      "Hey there! I am using Chat App",
		IsOnline:    false,
		LastSeen:    time.Now().UTC(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.users.InsertUser(ctx, user); err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "registration failed", err)
	}

	token, err := s.provider.Issue(user.UID)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "failed to issue token", err)
	}

	s.logger.Info("user registered", zap.String("uid", user.UID), zap.String("username", user.Username))
	return user, token, nil
}

// Login marks the user online and issues a fresh token. Credential
// verification already happened upstream with the identity provider.
func (s *userService) Login(ctx context.Context, uid string) (*model.User, string, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "login failed", err)
	}
	if user == nil {
		return nil, "", apperrors.ErrUserNotFound
	}

	now := time.Now().UTC()
	if err := s.users.UpdateUser(ctx, uid, bson.M{"is_online": true, "last_seen": now}); err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "login failed", err)
	}
	user.IsOnline = true
	user.LastSeen = now

	token, err := s.provider.Issue(uid)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "failed to issue token", err)
	}
	return user, token, nil
}

// LoginByEmail resolves the email to a profile and logs that user in.
func (s *userService) LoginByEmail(ctx context.Context, email string) (*model.User, string, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", apperrors.Wrap(apperrors.CodeInternal, "login failed", err)
	}
	if user == nil {
		return nil, "", apperrors.Unauthorized("invalid credentials")
	}
	return s.Login(ctx, user.UID)
}

func (s *userService) Logout(ctx context.Context, uid string) error {
	err := s.users.UpdateUser(ctx, uid, bson.M{"is_online": false, "last_seen": time.Now().UTC()})
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "logout failed", err)
	}
	return nil
}

func (s *userService) GetProfile(ctx context.Context, uid string) (*model.User, error) {
	user, err := s.users.GetUser(ctx, uid)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to load profile", err)
	}
	if user == nil {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, uid string, req UpdateProfileRequest) (*model.User, error) {
	set := bson.M{}
	if req.DisplayName != "" {
		set["display_name"] = req.DisplayName
	}
	if req.Status != "" {
		set["status"] = req.Status
	}
	if req.AvatarURL != "" {
		set["avatar_url"] = req.AvatarURL
	}
	if len(set) == 0 {
		return s.GetProfile(ctx, uid)
	}

	if err := s.users.UpdateUser(ctx, uid, set); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to update profile", err)
	}
	return s.GetProfile(ctx, uid)
}

func (s *userService) GetAllUsers(ctx context.Context) ([]model.User, error) {
	return s.users.GetAllUsers(ctx)
}

// SearchUsers resolves a query to users: exact uid match first, then
// username prefix search.
func (s *userService) SearchUsers(ctx context.Context, query string) ([]model.User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, apperrors.Validation("query is required")
	}

	if len(query) > 10 {
		if user, err := s.users.GetUser(ctx, query); err == nil && user != nil {
			return []model.User{*user}, nil
		}
	}

	return s.users.SearchByUsernamePrefix(ctx, query)
}
