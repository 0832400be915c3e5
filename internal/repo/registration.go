package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/pkordes/product-registry/internal/domain"
)

// RegistrationRepo defines the persistence operations for Registrations.
// Registrations are append-only: there is no update or delete.
// The gateway depends on this interface, not on a concrete backend, so the
// remote and local stores are interchangeable.
type RegistrationRepo interface {
	// Create inserts a new registration and returns the persisted record.
	// The ID and display fields are assigned by the caller.
	Create(ctx context.Context, r domain.Registration) (domain.Registration, error)

	// List returns every registration, newest first.
	List(ctx context.Context) ([]domain.Registration, error)
}

// pgRegistrationRepo is the Postgres implementation of RegistrationRepo.
type pgRegistrationRepo struct {
	db db
}

// NewRegistrationRepo constructs a RegistrationRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewRegistrationRepo(db db) RegistrationRepo {
	return &pgRegistrationRepo{db: db}
}

const registrationColumns = `id::text, user_name, product, location, purpose,
		created_at, display_date, display_time, photo_url, qr_code`

// Create inserts a registration row and returns the full persisted record.
func (r *pgRegistrationRepo) Create(ctx context.Context, reg domain.Registration) (domain.Registration, error) {
	const q = `
		INSERT INTO registrations
			(id, user_name, product, location, purpose, created_at,
			 display_date, display_time, photo_url, qr_code)
		VALUES
			(@id, @user_name, @product, @location, @purpose, @created_at,
			 @display_date, @display_time, @photo_url, @qr_code)
		RETURNING ` + registrationColumns

	args := pgx.NamedArgs{
		"id":           reg.ID,
		"user_name":    reg.User,
		"product":      reg.Product,
		"location":     reg.Location,
		"purpose":      reg.Purpose,
		"created_at":   reg.CreatedAt,
		"display_date": reg.DisplayDate,
		"display_time": reg.DisplayTime,
		"photo_url":    reg.PhotoURL,
		"qr_code":      reg.QRCode,
	}

	result, err := scanRegistration(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Registration{}, classify("repo.RegistrationRepo.Create", err)
	}
	return result, nil
}

// List returns all registrations ordered by created_at descending (newest first).
func (r *pgRegistrationRepo) List(ctx context.Context) ([]domain.Registration, error) {
	const q = `
		SELECT ` + registrationColumns + `
		FROM registrations
		ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, classify("repo.RegistrationRepo.List", err)
	}
	defer rows.Close()

	regs := []domain.Registration{}
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, classify("repo.RegistrationRepo.List: scan", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("repo.RegistrationRepo.List: rows", err)
	}
	return regs, nil
}

// scanRegistration maps a single database row into a domain.Registration.
func scanRegistration(s scanner) (domain.Registration, error) {
	var reg domain.Registration
	err := s.Scan(
		&reg.ID, &reg.User, &reg.Product, &reg.Location, &reg.Purpose,
		&reg.CreatedAt, &reg.DisplayDate, &reg.DisplayTime, &reg.PhotoURL, &reg.QRCode,
	)
	if err != nil {
		return domain.Registration{}, err
	}
	return reg, nil
}
