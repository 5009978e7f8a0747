package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rishu1724/TextMeIfYouCan/internal/db"
	"github.com/Rishu1724/TextMeIfYouCan/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type UserRepository interface {
	InsertUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, uid string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetAllUsers(ctx context.Context) ([]model.User, error)
	SearchByUsernamePrefix(ctx context.Context, prefix string) ([]model.User, error)
	UpdateUser(ctx context.Context, uid string, set bson.M) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type userRepository struct {
	mongoRepo *db.Repository[model.User]
	logger    *zap.Logger
}

func NewUserRepository(mongoRepo *db.Repository[model.User], logger *zap.Logger) UserRepository {
	return &userRepository{
		mongoRepo: mongoRepo,
		logger:    logger,
	}
}

func (r *userRepository) InsertUser(ctx context.Context, user *model.User) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	if _, err := r.mongoRepo.Create(ctx, *user); err != nil {
		r.logger.Error("failed to insert user", zap.String("uid", user.UID), zap.Error(err))
		return fmt.Errorf("insert user failed: %w", err)
	}
	return nil
}

// GetUser fetches a profile by UID. Returns (nil, nil) when absent.
func (r *userRepository) GetUser(ctx context.Context, uid string) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, db.NewFilter().Eq("uid", uid).Build())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

// GetUserByEmail fetches a profile by email. Returns (nil, nil) when
// absent.
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	user, err := r.mongoRepo.FindOne(ctx, db.NewFilter().Eq("email", email).Build())
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}
	return user, nil
}

func (r *userRepository) GetAllUsers(ctx context.Context) ([]model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	users, err := r.mongoRepo.FindAll(ctx, db.Empty())
	if err != nil {
		return nil, fmt.Errorf("list users failed: %w", err)
	}
	return users, nil
}

// SearchByUsernamePrefix performs the contact search: case-insensitive
// username prefix match.
func (r *userRepository) SearchByUsernamePrefix(ctx context.Context, prefix string) ([]model.User, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()

	filter := db.NewFilter().Prefix("username", prefix).Build()
	users, err := r.mongoRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("search users failed: %w", err)
	}
	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, uid string, set bson.M) error {
	ctx, cancel := ensureTimeout(ctx, defaultWriteTimeout)
	defer cancel()

	result, err := r.mongoRepo.Update(ctx, db.NewFilter().Eq("uid", uid).Build(), set)
	if err != nil {
		r.logger.Error("failed to update user", zap.String("uid", uid), zap.Error(err))
		return fmt.Errorf("update user failed: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()
	return r.mongoRepo.Exists(ctx, db.NewFilter().Eq("email", email).Build())
}

func (r *userRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	ctx, cancel := ensureTimeout(ctx, defaultReadTimeout)
	defer cancel()
	return r.mongoRepo.Exists(ctx, db.NewFilter().Eq("username", username).Build())
}
