package postgres

import (
	"context"
	"errors"
	"fmt"

	"go-advisory-contact/internal/domain"
	"go-advisory-contact/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes
const (
	pgUniqueViolation = "23505"
)

type contactRepo struct {
	db *pgxpool.Pool
}

func NewContactRepository(db *pgxpool.Pool) domain.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, s *domain.ContactSubmission) error {
	query := `INSERT INTO contact_submissions
              (id, first_name, last_name, email, phone, service, message, newsletter, source, submitted_at, created_at)
              VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, $8, $9, $10, $11)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.FirstName, s.LastName, s.Email, s.Phone, s.Service, s.Message,
		s.Newsletter, s.Source, s.SubmittedAt, s.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.Conflict("Submission already received")
		}
		return apperror.Internal(err)
	}
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, id string) (*domain.ContactSubmission, error) {
	query := `SELECT id, first_name, last_name, email, COALESCE(phone, ''), service, message,
                     newsletter, source, submitted_at, created_at
              FROM contact_submissions WHERE id = $1`
	var s domain.ContactSubmission
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.FirstName, &s.LastName, &s.Email, &s.Phone, &s.Service, &s.Message,
		&s.Newsletter, &s.Source, &s.SubmittedAt, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.NotFound("Submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get contact submission: %w", err)
	}
	return &s, nil
}
