package auth

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domain "auth-service/internal/domain/user"
	pkgerrors "auth-service/pkg/errors"
	"auth-service/pkg/logger"
	"auth-service/pkg/security"
)

// Repository defines the user record operations the gateway needs.
// Implementations report store failures as pkgerrors.ErrStoreUnavailable
// and unique-email violations on Create as pkgerrors.ErrDuplicateEmail.
type Repository interface {
	Create(ctx context.Context, u *domain.User) (string, error)         // Insert a record, returning the store-assigned ID
	GetByEmail(ctx context.Context, email string) (*domain.User, error) // Exact-match lookup; nil when absent
}

// SignupGuard serializes signups for the same email across processes.
type SignupGuard interface {
	// Acquire tries to take the lock for email. ok is false when another signup holds it.
	Acquire(ctx context.Context, email string) (token string, ok bool, err error)
	// Release drops the lock if it is still held with token.
	Release(ctx context.Context, email, token string) error
}

// Metrics receives outcome and latency observations.
type Metrics interface {
	ObserveSignup(outcome string)
	ObserveLogin(outcome string)
	ObserveHash(op string, d time.Duration)
}

// OutcomeSuccess labels a successful operation; failures use the error kind.
const OutcomeSuccess = "success"

// Usecase is the credential store gateway. It mediates every read and write
// of user records and owns hashing and comparison.
type Usecase struct {
	repo     Repository          // Repository for data access
	hasher   security.PasswordHasher
	guard    SignupGuard         // optional, nil disables cross-process signup locking
	metrics  Metrics             // optional
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation
}

// New creates a new Usecase. guard and metrics may be nil.
func New(r Repository, h security.PasswordHasher, g SignupGuard, m Metrics, log *zap.Logger) *Usecase {
	return &Usecase{
		repo:     r,
		hasher:   h,
		guard:    g,
		metrics:  m,
		log:      log,
		validate: security.NewValidator(),
	}
}

// FindByEmail returns the user with the given email, or nil if none exists.
func (uc *Usecase) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, asStoreError("failed to look up user", err)
	}
	return u, nil
}

// Signup creates a new account after validating the email and checking uniqueness.
func (uc *Usecase) Signup(ctx context.Context, in SignupRequest) (resp *SignupResponse, err error) {
	log := logger.WithContext(ctx, uc.log)
	defer func() { uc.observeSignup(err) }()

	log.Info("signup requested", logger.Email(in.Email))

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("signup rejected: invalid email", logger.Email(in.Email))
		return nil, pkgerrors.ErrInvalidEmail
	}

	if uc.guard != nil {
		token, ok, gerr := uc.guard.Acquire(ctx, in.Email)
		switch {
		case gerr != nil:
			// fail open, the unique index still holds
			log.Warn("signup guard unavailable, continuing without lock", logger.Email(in.Email), zap.Error(gerr))
		case !ok:
			log.Warn("concurrent signup in progress", logger.Email(in.Email))
			return nil, pkgerrors.ErrDuplicateEmail
		default:
			defer func() {
				if rerr := uc.guard.Release(context.WithoutCancel(ctx), in.Email, token); rerr != nil {
					log.Warn("failed to release signup guard", logger.Email(in.Email), zap.Error(rerr))
				}
			}()
		}
	}

	existing, err := uc.FindByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to check existing email", logger.Email(in.Email), zap.Error(err))
		return nil, err
	}
	if existing != nil {
		log.Warn("email already exists", logger.Email(in.Email))
		return nil, pkgerrors.ErrDuplicateEmail
	}

	start := time.Now()
	hash, err := uc.hasher.Hash(ctx, in.Password)
	uc.observeHash("hash", time.Since(start))
	if err != nil {
		log.Error("failed to hash password", zap.Error(err))
		return nil, pkgerrors.NewStoreUnavailableError("failed to hash password", err)
	}

	id, err := uc.repo.Create(ctx, &domain.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, pkgerrors.ErrDuplicateEmail) {
			log.Warn("email already exists (store constraint)", logger.Email(in.Email))
			return nil, pkgerrors.ErrDuplicateEmail
		}
		log.Error("failed to create user", logger.Email(in.Email), zap.Error(err))
		return nil, asStoreError("failed to insert user", err)
	}

	log.Info("user signed up", zap.String("user_id", id))
	return &SignupResponse{ID: id}, nil
}

// Login authenticates an email/password pair and returns the user ID.
// Unknown email and wrong password yield the same error.
func (uc *Usecase) Login(ctx context.Context, in LoginRequest) (resp *LoginResponse, err error) {
	log := logger.WithContext(ctx, uc.log)
	defer func() { uc.observeLogin(err) }()

	if err := uc.validate.Struct(in); err != nil {
		log.Warn("login rejected: missing credentials")
		return nil, pkgerrors.ErrMissingCredentials
	}

	u, err := uc.FindByEmail(ctx, in.Email)
	if err != nil {
		log.Error("failed to look up user for login", zap.Error(err))
		return nil, err
	}
	if u == nil {
		log.Info("login failed", zap.String("reason", "unknown email"))
		return nil, pkgerrors.ErrInvalidCredentials
	}

	start := time.Now()
	ok, err := uc.hasher.Compare(ctx, u.PasswordHash, in.Password)
	uc.observeHash("compare", time.Since(start))
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			log.Warn("password comparison abandoned", zap.String("user_id", u.ID), zap.Error(err))
			return nil, pkgerrors.NewStoreUnavailableError("password comparison abandoned", err)
		}
		log.Warn("password comparison failed", zap.String("user_id", u.ID), zap.Error(err))
		return nil, pkgerrors.ErrInvalidCredentials
	}
	if !ok {
		log.Info("login failed", zap.String("reason", "password mismatch"), zap.String("user_id", u.ID))
		return nil, pkgerrors.ErrInvalidCredentials
	}

	logger.WithContext(logger.WithUserID(ctx, u.ID), uc.log).Info("login succeeded")
	return &LoginResponse{UserID: u.ID}, nil
}

// asStoreError passes AuthErrors through and classifies anything else as StoreUnavailable.
func asStoreError(message string, err error) error {
	var ae *pkgerrors.AuthError
	if errors.As(err, &ae) {
		return err
	}
	return pkgerrors.NewStoreUnavailableError(message, err)
}

func outcome(err error) string {
	if err == nil {
		return OutcomeSuccess
	}
	return string(pkgerrors.KindOf(err))
}

func (uc *Usecase) observeSignup(err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveSignup(outcome(err))
	}
}

func (uc *Usecase) observeLogin(err error) {
	if uc.metrics != nil {
		uc.metrics.ObserveLogin(outcome(err))
	}
}

func (uc *Usecase) observeHash(op string, d time.Duration) {
	if uc.metrics != nil {
		uc.metrics.ObserveHash(op, d)
	}
}
