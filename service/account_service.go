package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"legallyai-backend/models"
	"legallyai-backend/repository"
	"legallyai-backend/schema"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const defaultSessionTTL = 7 * 24 * time.Hour

// AccountStore persists users and their profiles
type AccountStore interface {
	CreateAccount(ctx context.Context, user *models.User, profile *models.UserProfile, lawyer *models.Lawyer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	UpdateAccount(ctx context.Context, user *models.User, profile *models.UserProfile, lawyer *models.Lawyer) error
}

// SessionStore persists login sessions
type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

// AccountService handles signup, login and profile management
type AccountService struct {
	accounts   AccountStore
	sessions   SessionStore
	lawyers    LawyerStore
	sessionTTL time.Duration
	bcryptCost int
	now        func() time.Time
	logger     *zap.Logger
}

// AccountServiceOption is a functional option for AccountService
type AccountServiceOption func(*AccountService)

// AccountWithStore sets the account store
func AccountWithStore(store AccountStore) AccountServiceOption {
	return func(s *AccountService) {
		s.accounts = store
	}
}

// AccountWithSessionStore sets the session store
func AccountWithSessionStore(store SessionStore) AccountServiceOption {
	return func(s *AccountService) {
		s.sessions = store
	}
}

// AccountWithLawyerStore sets the lawyer store used to keep a lawyer's
// directory record in sync with their profile
func AccountWithLawyerStore(store LawyerStore) AccountServiceOption {
	return func(s *AccountService) {
		s.lawyers = store
	}
}

// AccountWithSessionTTL sets how long sessions stay valid
func AccountWithSessionTTL(ttl time.Duration) AccountServiceOption {
	return func(s *AccountService) {
		if ttl > 0 {
			s.sessionTTL = ttl
		}
	}
}

// AccountWithBcryptCost sets the password hashing cost
func AccountWithBcryptCost(cost int) AccountServiceOption {
	return func(s *AccountService) {
		s.bcryptCost = cost
	}
}

// AccountWithClock sets the time source
func AccountWithClock(now func() time.Time) AccountServiceOption {
	return func(s *AccountService) {
		s.now = now
	}
}

// AccountWithLogger sets the logger
func AccountWithLogger(logger *zap.Logger) AccountServiceOption {
	return func(s *AccountService) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewAccountService creates a new account service
func NewAccountService(opts ...AccountServiceOption) *AccountService {
	s := &AccountService{
		sessionTTL: defaultSessionTTL,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SignupRequest represents a new account
type SignupRequest struct {
	FirstName string          `json:"first_name" validate:"notblank"`
	LastName  string          `json:"last_name" validate:"notblank"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"min=6"`
	UserType  models.UserType `json:"user_type" validate:"oneof=business lawyer"`
	Location  string          `json:"location"`
}

// AuthResult is a user with a fresh session
type AuthResult struct {
	User    *models.User
	Session *models.Session
}

// Signup creates the user and profile, plus a directory record for lawyers,
// and logs the user in
func (s *AccountService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	if s.accounts == nil || s.sessions == nil {
		return nil, errors.New("account service not fully configured")
	}
	if err := schema.Struct(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		UserType:     req.UserType,
		Location:     strings.TrimSpace(req.Location),
	}
	profile := &models.UserProfile{UserID: user.ID}

	var lawyer *models.Lawyer
	if user.UserType == models.UserTypeLawyer {
		lawyer = &models.Lawyer{
			Name:      user.DisplayName(),
			Expertise: []string{},
			Location:  user.Location,
		}
	}

	if err := s.accounts.CreateAccount(ctx, user, profile, lawyer); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User signed up", zap.Stringer("user_id", user.ID), zap.String("user_type", string(user.UserType)))
	return &AuthResult{User: user, Session: session}, nil
}

// LoginRequest represents a login attempt
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login checks credentials and opens a session. Unknown emails and wrong
// passwords fail the same way
func (s *AccountService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if s.accounts == nil || s.sessions == nil {
		return nil, errors.New("account service not fully configured")
	}
	if err := schema.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.accounts.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.issueSession(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Session: session}, nil
}

// Logout revokes a session
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if s.sessions == nil {
		return errors.New("session store not set")
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a bearer token to its user
func (s *AccountService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if s.accounts == nil || s.sessions == nil {
		return nil, errors.New("account service not fully configured")
	}
	if token == "" {
		return nil, ErrUnauthorized
	}

	session, err := s.sessions.Get(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("Failed to delete expired session", zap.Error(err))
		}
		return nil, ErrUnauthorized
	}

	user, err := s.accounts.GetByID(ctx, session.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUnauthorized
	}
	return user, err
}

func (s *AccountService) issueSession(ctx context.Context, userID uuid.UUID) (*models.Session, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	session := &models.Session{
		Token:     hex.EncodeToString(buf),
		UserID:    userID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ProfileResult is a user with their profile and, for lawyers, their
// directory record
type ProfileResult struct {
	User    *models.User        `json:"user"`
	Profile *models.UserProfile `json:"profile"`
	Lawyer  *models.Lawyer      `json:"lawyer,omitempty"`
}

// GetProfile loads the profile page data for a user
func (s *AccountService) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	if s.accounts == nil {
		return nil, errors.New("account store not set")
	}

	user, err := s.accounts.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	profile, err := s.accounts.GetProfile(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		profile = &models.UserProfile{UserID: userID, AreasOfExpertise: []string{}, Certifications: []string{}}
	} else if err != nil {
		return nil, err
	}

	result := &ProfileResult{User: user, Profile: profile}
	if user.UserType == models.UserTypeLawyer && s.lawyers != nil {
		lawyer, err := s.lawyers.GetByUserID(ctx, userID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		result.Lawyer = lawyer
	}
	return result, nil
}

// UpdateProfileRequest represents the editable profile fields
type UpdateProfileRequest struct {
	UserID           uuid.UUID `json:"-"`
	FirstName        string    `json:"first_name" validate:"notblank"`
	LastName         string    `json:"last_name" validate:"notblank"`
	Phone            string    `json:"phone"`
	Location         string    `json:"location"`
	Bio              string    `json:"bio"`
	Experience       string    `json:"experience"`
	AreasOfExpertise []string  `json:"areas_of_expertise" validate:"dive,notblank"`
	Certifications   []string  `json:"certifications" validate:"dive,notblank"`
	WebsiteURL       string    `json:"website_url" validate:"omitempty,url"`
	LinkedInURL      string    `json:"linkedin_url" validate:"omitempty,url"`
	HourlyRate       float64   `json:"hourly_rate" validate:"gte=0"`
}

// UpdateProfile saves profile edits. For lawyers the directory record's name,
// bio, location and expertise follow the profile
func (s *AccountService) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResult, error) {
	if s.accounts == nil {
		return nil, errors.New("account store not set")
	}
	if err := schema.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.accounts.GetByID(ctx, req.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = strings.TrimSpace(req.Phone)
	user.Location = strings.TrimSpace(req.Location)

	profile := &models.UserProfile{
		UserID:           user.ID,
		Bio:              req.Bio,
		Experience:       req.Experience,
		AreasOfExpertise: nonNil(req.AreasOfExpertise),
		Certifications:   nonNil(req.Certifications),
		WebsiteURL:       req.WebsiteURL,
		LinkedInURL:      req.LinkedInURL,
		HourlyRate:       req.HourlyRate,
	}

	var lawyer *models.Lawyer
	if user.UserType == models.UserTypeLawyer && s.lawyers != nil {
		lawyer, err = s.lawyers.GetByUserID(ctx, user.ID)
		if errors.Is(err, repository.ErrNotFound) {
			lawyer = nil
		} else if err != nil {
			return nil, err
		}
		if lawyer != nil {
			lawyer.Name = user.DisplayName()
			lawyer.Bio = profile.Bio
			lawyer.Location = user.Location
			lawyer.Expertise = profile.AreasOfExpertise
		}
	}

	if err := s.accounts.UpdateAccount(ctx, user, profile, lawyer); err != nil {
		return nil, err
	}

	return &ProfileResult{User: user, Profile: profile, Lawyer: lawyer}, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
