package repository

import (
	"context"
	"errors"

	"jobportal/internal/cache"
	"jobportal/internal/models"
	"jobportal/internal/observability"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// GetByOAuthIdentity returns (nil, nil) when no account owns the identity.
	GetByOAuthIdentity(ctx context.Context, provider models.AuthProvider, oauthID string) (*models.User, error)
	// GetByEmail returns (nil, nil) when no account uses the email.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	// InvalidateCache drops cached views of the user. Transaction-bound
	// repositories leave this to the caller once the transaction commits.
	InvalidateCache(ctx context.Context, userID uint)
	WithTx(tx *gorm.DB) UserRepository
}

type userRepository struct {
	db   *gorm.DB
	rdb  *redis.Client
	inTx bool
}

// NewUserRepository returns a new UserRepository implementation. rdb may be nil.
func NewUserRepository(db *gorm.DB, rdb *redis.Client) UserRepository {
	return &userRepository{db: db, rdb: rdb}
}

func (r *userRepository) WithTx(tx *gorm.DB) UserRepository {
	return &userRepository{db: tx, rdb: r.rdb, inTx: true}
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	defer observability.TrackQuery("get_by_id", "users")()

	var user models.User
	if err := readDB(r.db).WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

// Identity lookups go to the primary so a just-linked account is always visible.
func (r *userRepository) GetByOAuthIdentity(ctx context.Context, provider models.AuthProvider, oauthID string) (*models.User, error) {
	defer observability.TrackQuery("get_by_oauth_identity", "users")()

	var user models.User
	err := r.db.WithContext(ctx).
		Where("oauth_provider = ? AND oauth_id = ?", provider, oauthID).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer observability.TrackQuery("get_by_email", "users")()

	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("create", "users")()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User already exists")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	defer observability.TrackQuery("update", "users")()

	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("User identity already linked to another account")
		}
		return models.NewInternalError(err)
	}
	if !r.inTx {
		r.InvalidateCache(ctx, user.ID)
	}
	return nil
}

func (r *userRepository) InvalidateCache(ctx context.Context, userID uint) {
	cache.InvalidateUser(ctx, r.rdb, userID)
}
