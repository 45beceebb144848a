package coalesced

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	domain "auth-service/internal/domain/user"
	"auth-service/internal/usecase/auth"
	"auth-service/pkg/logger"
)

// UserRepository wraps a persistent repository and collapses concurrent
// lookups for the same email into a single store query. Nothing is cached:
// a lookup that starts after the shared one finished hits the store again.
type UserRepository struct {
	next  auth.Repository
	log   *zap.Logger
	group singleflight.Group
}

// NewUserRepository creates a new coalescing decorator around next.
func NewUserRepository(next auth.Repository, log *zap.Logger) *UserRepository {
	return &UserRepository{
		next: next,
		log:  log,
	}
}

// Create delegates to the wrapped repository. Writes are never coalesced.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (string, error) {
	return r.next.Create(ctx, u)
}

// GetByEmail shares one in-flight store query among concurrent callers for the same email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	// detach so one caller's cancellation does not fail the others
	shared := context.WithoutCancel(ctx)

	result, err, coalesced := r.group.Do("email:"+email, func() (any, error) {
		return r.next.GetByEmail(shared, email)
	})
	if coalesced {
		r.log.Debug("email lookup coalesced", logger.Email(email))
	}
	if err != nil {
		return nil, err
	}

	u, _ := result.(*domain.User)
	if u == nil {
		return nil, nil
	}

	// callers must not share one mutable record
	cp := *u
	return &cp, nil
}
