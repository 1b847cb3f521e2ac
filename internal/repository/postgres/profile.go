package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnportal-backend/internal/domain"
	"learnportal-backend/internal/repository"
)

type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, p *domain.UserProfile) error {
	query := `INSERT INTO user_profiles (user_id, full_name, phone, bio, department, position, employee_id, profile_picture_url, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	p.CreatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, query,
		p.UserID, p.FullName, p.Phone, p.Bio, p.Department, p.Position, p.EmployeeID, p.ProfilePictureURL, p.CreatedAt)
	return err
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.UserProfile, error) {
	p := &domain.UserProfile{}
	query := `SELECT user_id, full_name, COALESCE(phone, ''), COALESCE(bio, ''), COALESCE(department, ''), COALESCE(position, ''), COALESCE(employee_id, ''), profile_picture_url, created_at
	          FROM user_profiles WHERE user_id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&p.UserID, &p.FullName, &p.Phone, &p.Bio, &p.Department, &p.Position, &p.EmployeeID, &p.ProfilePictureURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
