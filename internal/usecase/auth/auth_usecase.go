package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/infrastructure/realtime"
	"github.com/gdugdh24/collabswipe-backend/internal/repository"
	"github.com/gdugdh24/collabswipe-backend/internal/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	JWTSecret  string
	AccessTTL  time.Duration
	SessionTTL time.Duration
}

type AuthUseCase struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	sessionRepo repository.SessionRepository
	events      realtime.Publisher
	log         *zap.Logger

	jwtSecret  []byte
	accessTTL  time.Duration
	sessionTTL time.Duration
	hashCost   int
	now        func() time.Time
}

func NewAuthUseCase(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	sessionRepo repository.SessionRepository,
	events realtime.Publisher,
	log *zap.Logger,
	cfg Config,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		sessionRepo: sessionRepo,
		events:      events,
		log:         log,
		jwtSecret:   []byte(cfg.JWTSecret),
		accessTTL:   cfg.AccessTTL,
		sessionTTL:  cfg.SessionTTL,
		hashCost:    bcrypt.DefaultCost,
		now:         time.Now,
	}
}

// Credentials is the sign-up and sign-in request body
type Credentials struct {
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *domain.User `json:"user"`
	IsNewUser bool         `json:"is_new_user"`
}

type claims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}

// SignUp creates the account and signs it in
func (uc *AuthUseCase) SignUp(ctx context.Context, email, password string) (*AuthResponse, error) {
	email = normalizeEmail(email)
	if email == "" || len(password) < 8 {
		return nil, domain.ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{Email: email, PasswordHash: string(hash)}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := uc.startSession(ctx, user)
	if err != nil {
		return nil, err
	}
	resp.IsNewUser = true
	return resp, nil
}

// SignIn verifies the password and opens a new session
func (uc *AuthUseCase) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.startSession(ctx, user)
}

// SignOut deletes the session behind token. Signing out twice is not an error.
func (uc *AuthUseCase) SignOut(ctx context.Context, token string) error {
	c, err := uc.parse(token)
	if err != nil {
		return err
	}
	if err := uc.sessionRepo.Delete(ctx, c.SessionID); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	if userID, err := uuid.Parse(c.Subject); err == nil {
		uc.publish(ctx, userID, realtime.EventSignedOut, c.SessionID)
	}
	return nil
}

// Authenticate resolves a token into the request's session state
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*session.State, error) {
	c, err := uc.parse(token)
	if err != nil {
		return nil, err
	}
	userID, err := uuid.Parse(c.Subject)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	sess, err := uc.sessionRepo.Get(ctx, c.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if sess.UserID != userID {
		return nil, domain.ErrInvalidToken
	}
	if sess.ExpiresAt.Before(uc.now()) {
		return nil, domain.ErrSessionExpired
	}

	st := &session.State{UserID: userID, SessionID: sess.ID}
	profile, err := uc.profileRepo.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		st.Profile = profile
		st.HasProfile = true
		st.Onboarded = profile.IsOnboardingComplete
	case errors.Is(err, domain.ErrProfileNotFound):
	default:
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}

	return st, nil
}

// GetUser returns the account behind the current session
func (uc *AuthUseCase) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, userID)
}

func (uc *AuthUseCase) startSession(ctx context.Context, user *domain.User) (*AuthResponse, error) {
	now := uc.now()
	sess := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(uc.sessionTTL),
	}
	if err := uc.sessionRepo.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	expiresAt := now.Add(uc.accessTTL)
	if expiresAt.After(sess.ExpiresAt) {
		expiresAt = sess.ExpiresAt
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		SessionID: sess.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(uc.jwtSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	if err := uc.userRepo.UpdateLastSignIn(ctx, user.ID, now); err != nil {
		uc.log.Warn("failed to record sign-in time", zap.String("user_id", user.ID.String()), zap.Error(err))
	} else {
		user.LastSignInAt = &now
	}
	uc.publish(ctx, user.ID, realtime.EventSignedIn, sess.ID)

	return &AuthResponse{
		Token:     signed,
		ExpiresAt: expiresAt,
		User:      user,
	}, nil
}

func (uc *AuthUseCase) parse(token string) (*claims, error) {
	c := &claims{}
	parsed, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (interface{}, error) {
		return uc.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(uc.now),
	)
	if err != nil || !parsed.Valid || c.SessionID == "" {
		return nil, domain.ErrInvalidToken
	}
	return c, nil
}

func (uc *AuthUseCase) publish(ctx context.Context, userID uuid.UUID, eventType, sessionID string) {
	if uc.events == nil {
		return
	}
	err := uc.events.Publish(ctx, realtime.UserTopic(userID), realtime.Event{
		Type: eventType,
		Data: map[string]any{"session_id": sessionID},
	})
	if err != nil {
		uc.log.Warn("failed to publish session event", zap.String("type", eventType), zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
