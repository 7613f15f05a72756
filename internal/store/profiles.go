package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/findithq/findit/internal/model"
)

// CreateProfile creates a new profile with a generated ID.
func CreateProfile(ctx context.Context, db *sql.DB, email, passwordHash, fullName, phone string) (*model.Profile, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO profiles (id, email, password_hash, full_name, phone) VALUES (?, ?, ?, ?, ?)`,
		id, email, passwordHash, nullable(fullName), nullable(phone),
	)
	if err != nil {
		return nil, fmt.Errorf("creating profile: %w", err)
	}

	return GetProfile(ctx, db, id)
}

// GetProfile returns a profile by ID.
func GetProfile(ctx context.Context, db *sql.DB, id string) (*model.Profile, error) {
	return scanProfile(db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, full_name, phone, is_admin, created_at, updated_at
		 FROM profiles WHERE id = ?`, id,
	))
}

// GetProfileByEmail returns a profile by email address.
func GetProfileByEmail(ctx context.Context, db *sql.DB, email string) (*model.Profile, error) {
	return scanProfile(db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, full_name, phone, is_admin, created_at, updated_at
		 FROM profiles WHERE email = ?`, email,
	))
}

// ListProfiles returns all profiles, newest first.
func ListProfiles(ctx context.Context, db *sql.DB) ([]model.Profile, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, password_hash, full_name, phone, is_admin, created_at, updated_at
		 FROM profiles ORDER BY created_at DESC, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing profiles: %w", err)
	}
	defer rows.Close()

	var profiles []model.Profile
	for rows.Next() {
		var p model.Profile
		var fullName, phone sql.NullString
		if err := rows.Scan(&p.ID, &p.Email, &p.PasswordHash, &fullName, &phone, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning profile: %w", err)
		}
		p.FullName = fullName.String
		p.Phone = phone.String
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// SetProfileAdmin sets a profile's admin flag.
func SetProfileAdmin(ctx context.Context, db *sql.DB, id string, admin bool) error {
	_, err := db.ExecContext(ctx,
		`UPDATE profiles SET is_admin = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		admin, id,
	)
	if err != nil {
		return fmt.Errorf("setting profile admin flag: %w", err)
	}
	return nil
}

// UpdateProfile updates a profile's display fields.
func UpdateProfile(ctx context.Context, db *sql.DB, id, fullName, phone string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE profiles SET full_name = ?, phone = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		nullable(fullName), nullable(phone), id,
	)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// CountProfiles returns the total number of profiles.
func CountProfiles(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting profiles: %w", err)
	}
	return n, nil
}

func scanProfile(row *sql.Row) (*model.Profile, error) {
	p := &model.Profile{}
	var fullName, phone sql.NullString
	err := row.Scan(&p.ID, &p.Email, &p.PasswordHash, &fullName, &phone, &p.IsAdmin, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}
	p.FullName = fullName.String
	p.Phone = phone.String
	return p, nil
}

// nullable converts an empty string to NULL so optional columns stay NULL
// instead of storing empty strings.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
