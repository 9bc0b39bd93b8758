package repository

import (
	"context"
	"fmt"
	"strings"

	"legallyai-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const lawyerColumns = `id, name, firm, expertise, location, rating, reviews,
	avatar_url, bio, user_id, created_at, updated_at`

// LawyerRepository handles database operations for the lawyer directory
type LawyerRepository struct {
	db *pgxpool.Pool
}

// NewLawyerRepository creates a new lawyer repository
func NewLawyerRepository(db *pgxpool.Pool) *LawyerRepository {
	return &LawyerRepository{db: db}
}

// Create inserts a lawyer, assigning an ID when none is set
func (r *LawyerRepository) Create(ctx context.Context, lawyer *models.Lawyer) error {
	return createLawyer(ctx, r.db, lawyer)
}

func createLawyer(ctx context.Context, q querier, lawyer *models.Lawyer) error {
	if lawyer.ID == uuid.Nil {
		lawyer.ID = uuid.New()
	}
	if lawyer.Expertise == nil {
		lawyer.Expertise = []string{}
	}
	query := `
		INSERT INTO lawyers (
			id, name, firm, expertise, location, rating, reviews,
			avatar_url, bio, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	err := q.QueryRow(
		ctx, query,
		lawyer.ID,
		lawyer.Name,
		lawyer.Firm,
		lawyer.Expertise,
		lawyer.Location,
		lawyer.Rating,
		lawyer.Reviews,
		lawyer.AvatarURL,
		lawyer.Bio,
		lawyer.UserID,
	).Scan(&lawyer.CreatedAt, &lawyer.UpdatedAt)

	return translate(err)
}

// Upsert inserts or fully replaces a lawyer by ID. Used for seeding
func (r *LawyerRepository) Upsert(ctx context.Context, lawyer *models.Lawyer) error {
	query := `
		INSERT INTO lawyers (
			id, name, firm, expertise, location, rating, reviews,
			avatar_url, bio, user_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			firm = EXCLUDED.firm,
			expertise = EXCLUDED.expertise,
			location = EXCLUDED.location,
			rating = EXCLUDED.rating,
			reviews = EXCLUDED.reviews,
			avatar_url = EXCLUDED.avatar_url,
			bio = EXCLUDED.bio,
			updated_at = NOW()
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(
		ctx, query,
		lawyer.ID,
		lawyer.Name,
		lawyer.Firm,
		lawyer.Expertise,
		lawyer.Location,
		lawyer.Rating,
		lawyer.Reviews,
		lawyer.AvatarURL,
		lawyer.Bio,
		lawyer.UserID,
	).Scan(&lawyer.CreatedAt, &lawyer.UpdatedAt)

	return translate(err)
}

// GetByID retrieves a lawyer by ID
func (r *LawyerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Lawyer, error) {
	query := `SELECT ` + lawyerColumns + ` FROM lawyers WHERE id = $1`
	return scanLawyer(r.db.QueryRow(ctx, query, id))
}

// GetByUserID retrieves the lawyer record owned by a user
func (r *LawyerRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Lawyer, error) {
	query := `SELECT ` + lawyerColumns + ` FROM lawyers WHERE user_id = $1`
	return scanLawyer(r.db.QueryRow(ctx, query, userID))
}

// FindByExpertise returns the first lawyer, in directory order, whose
// expertise array contains tag exactly. It issues a single query and returns
// ErrNotFound when nobody matches
func (r *LawyerRepository) FindByExpertise(ctx context.Context, tag string) (*models.Lawyer, error) {
	query := `
		SELECT ` + lawyerColumns + `
		FROM lawyers
		WHERE expertise @> ARRAY[$1]::text[]
		ORDER BY created_at, id
		LIMIT 1`
	return scanLawyer(r.db.QueryRow(ctx, query, tag))
}

// List retrieves lawyers matching the filter in directory order
func (r *LawyerRepository) List(ctx context.Context, filter models.LawyerFilter) ([]*models.Lawyer, error) {
	var (
		conds []string
		args  []interface{}
	)
	argIndex := 1

	if filter.Expertise != "" {
		conds = append(conds, fmt.Sprintf("expertise @> ARRAY[$%d]::text[]", argIndex))
		args = append(args, filter.Expertise)
		argIndex++
	}
	if filter.Location != "" {
		conds = append(conds, fmt.Sprintf("location = $%d", argIndex))
		args = append(args, filter.Location)
		argIndex++
	}
	if term := strings.TrimSpace(filter.Search); term != "" {
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR firm ILIKE $%d)", argIndex, argIndex))
		args = append(args, "%"+escapeLike(term)+"%")
		argIndex++
	}

	query := `SELECT ` + lawyerColumns + ` FROM lawyers`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at, id"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, filter.Limit)
		argIndex++
		if filter.Offset > 0 {
			query += fmt.Sprintf(" OFFSET $%d", argIndex)
			args = append(args, filter.Offset)
		}
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lawyers := make([]*models.Lawyer, 0)
	for rows.Next() {
		lawyer, err := scanLawyer(rows)
		if err != nil {
			return nil, err
		}
		lawyers = append(lawyers, lawyer)
	}

	return lawyers, rows.Err()
}

// Update saves the editable fields of a lawyer
func (r *LawyerRepository) Update(ctx context.Context, lawyer *models.Lawyer) error {
	return updateLawyer(ctx, r.db, lawyer)
}

func updateLawyer(ctx context.Context, q querier, lawyer *models.Lawyer) error {
	query := `
		UPDATE lawyers SET
			name = $2,
			firm = $3,
			expertise = $4,
			location = $5,
			avatar_url = $6,
			bio = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := q.QueryRow(
		ctx, query,
		lawyer.ID,
		lawyer.Name,
		lawyer.Firm,
		lawyer.Expertise,
		lawyer.Location,
		lawyer.AvatarURL,
		lawyer.Bio,
	).Scan(&lawyer.UpdatedAt)

	return translate(err)
}

// UpdateAvatar sets the avatar reference only
func (r *LawyerRepository) UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error {
	tag, err := r.db.Exec(ctx, `UPDATE lawyers SET avatar_url = $2, updated_at = NOW() WHERE id = $1`, id, avatarURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanLawyer(row pgx.Row) (*models.Lawyer, error) {
	lawyer := &models.Lawyer{}
	err := row.Scan(
		&lawyer.ID,
		&lawyer.Name,
		&lawyer.Firm,
		&lawyer.Expertise,
		&lawyer.Location,
		&lawyer.Rating,
		&lawyer.Reviews,
		&lawyer.AvatarURL,
		&lawyer.Bio,
		&lawyer.UserID,
		&lawyer.CreatedAt,
		&lawyer.UpdatedAt,
	)
	if err != nil {
		return nil, translate(err)
	}
	return lawyer, nil
}

// escapeLike escapes LIKE wildcards in user input
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
