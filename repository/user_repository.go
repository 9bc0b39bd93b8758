package repository

import (
	"context"
	"strings"

	"legallyai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository handles database operations for users and their profiles
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// CreateAccount inserts a user, an empty profile and, for lawyers, their
// directory record in one transaction
func (r *UserRepository) CreateAccount(ctx context.Context, user *models.User, profile *models.UserProfile, lawyer *models.Lawyer) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if user.ID == uuid.Nil {
			user.ID = uuid.New()
		}
		user.Email = strings.ToLower(strings.TrimSpace(user.Email))

		err := tx.QueryRow(ctx, `
			INSERT INTO users (
				id, email, password_hash, first_name, last_name, user_type, phone, location
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING created_at, updated_at`,
			user.ID,
			user.Email,
			user.PasswordHash,
			user.FirstName,
			user.LastName,
			user.UserType,
			user.Phone,
			user.Location,
		).Scan(&user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return translate(err)
		}

		profile.UserID = user.ID
		if err := upsertProfile(ctx, tx, profile); err != nil {
			return err
		}

		if lawyer != nil {
			lawyer.UserID = &user.ID
			if err := createLawyer(ctx, tx, lawyer); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, email, password_hash, first_name, last_name, user_type,
			phone, location, created_at, updated_at
		FROM users ` + where

	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.UserType,
		&user.Phone,
		&user.Location,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}

	return user, nil
}

// GetProfile retrieves the profile for a user
func (r *UserRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	query := `
		SELECT user_id, bio, experience, areas_of_expertise, certifications,
			website_url, linkedin_url, hourly_rate, updated_at
		FROM user_profiles
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.Bio,
		&profile.Experience,
		&profile.AreasOfExpertise,
		&profile.Certifications,
		&profile.WebsiteURL,
		&profile.LinkedInURL,
		&profile.HourlyRate,
		&profile.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}

	return profile, nil
}

// UpdateAccount saves user and profile edits, and the owned lawyer record when
// one is given, in one transaction
func (r *UserRepository) UpdateAccount(ctx context.Context, user *models.User, profile *models.UserProfile, lawyer *models.Lawyer) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			UPDATE users SET
				first_name = $2,
				last_name = $3,
				phone = $4,
				location = $5,
				updated_at = NOW()
			WHERE id = $1
			RETURNING updated_at`,
			user.ID,
			user.FirstName,
			user.LastName,
			user.Phone,
			user.Location,
		).Scan(&user.UpdatedAt)
		if err != nil {
			return translate(err)
		}

		profile.UserID = user.ID
		if err := upsertProfile(ctx, tx, profile); err != nil {
			return err
		}

		if lawyer != nil {
			return updateLawyer(ctx, tx, lawyer)
		}
		return nil
	})
}

func upsertProfile(ctx context.Context, q querier, profile *models.UserProfile) error {
	if profile.AreasOfExpertise == nil {
		profile.AreasOfExpertise = []string{}
	}
	if profile.Certifications == nil {
		profile.Certifications = []string{}
	}
	err := q.QueryRow(ctx, `
		INSERT INTO user_profiles (
			user_id, bio, experience, areas_of_expertise, certifications,
			website_url, linkedin_url, hourly_rate
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = EXCLUDED.bio,
			experience = EXCLUDED.experience,
			areas_of_expertise = EXCLUDED.areas_of_expertise,
			certifications = EXCLUDED.certifications,
			website_url = EXCLUDED.website_url,
			linkedin_url = EXCLUDED.linkedin_url,
			hourly_rate = EXCLUDED.hourly_rate,
			updated_at = NOW()
		RETURNING updated_at`,
		profile.UserID,
		profile.Bio,
		profile.Experience,
		profile.AreasOfExpertise,
		profile.Certifications,
		profile.WebsiteURL,
		profile.LinkedInURL,
		profile.HourlyRate,
	).Scan(&profile.UpdatedAt)

	return translate(err)
}
