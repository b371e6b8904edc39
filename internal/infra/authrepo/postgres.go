package authrepo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/akhilvs/sarvajna/internal/domain/auth"
)

// PostgresRepository persists staff accounts in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new staff row.
func (r *PostgresRepository) Create(ctx context.Context, email, name string, role auth.Role, passwordHash string) (auth.StaffUser, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff_users (email, name, role, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, email, name, role, password_hash, created_at
	`, email, name, string(role), passwordHash)
	return scanUser(row)
}

// GetByEmail fetches a staff account by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (auth.StaffUser, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM staff_users
		WHERE email = $1
		LIMIT 1
	`, email)
	if err != nil {
		return auth.StaffUser{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.StaffUser{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.StaffUser{}, false, err
	}
	return user, true, rows.Err()
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (auth.StaffUser, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, name, role, password_hash, created_at
		FROM staff_users
		WHERE id = $1
		LIMIT 1
	`, id)
	if err != nil {
		return auth.StaffUser{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.StaffUser{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return auth.StaffUser{}, false, err
	}
	return user, true, rows.Err()
}

// GetIdentity returns an identity by provider and subject.
func (r *PostgresRepository) GetIdentity(ctx context.Context, provider, providerSubject string) (auth.Identity, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM staff_identities
		WHERE provider = $1 AND provider_subject = $2
		LIMIT 1
	`, provider, providerSubject)
	if err != nil {
		return auth.Identity{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.Identity{}, false, rows.Err()
	}
	identity, err := scanIdentity(rows)
	if err != nil {
		return auth.Identity{}, false, err
	}
	return identity, true, rows.Err()
}

// GetIdentityByUser returns an identity by user and provider.
func (r *PostgresRepository) GetIdentityByUser(ctx context.Context, userID int64, provider string) (auth.Identity, bool, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
		FROM staff_identities
		WHERE user_id = $1 AND provider = $2
		LIMIT 1
	`, userID, provider)
	if err != nil {
		return auth.Identity{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return auth.Identity{}, false, rows.Err()
	}
	identity, err := scanIdentity(rows)
	if err != nil {
		return auth.Identity{}, false, err
	}
	return identity, true, rows.Err()
}

// UpsertIdentity stores or refreshes the provider linkage.
func (r *PostgresRepository) UpsertIdentity(ctx context.Context, identity auth.Identity) (auth.Identity, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO staff_identities (user_id, provider, provider_subject, provider_email, refresh_token)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (provider, provider_subject) DO UPDATE
		SET provider_email = COALESCE(NULLIF(EXCLUDED.provider_email, ''), staff_identities.provider_email),
		    refresh_token = COALESCE(NULLIF(EXCLUDED.refresh_token, ''), staff_identities.refresh_token),
		    updated_at = now()
		RETURNING id, user_id, provider, provider_subject, provider_email, refresh_token, created_at, updated_at
	`, identity.UserID, identity.Provider, identity.ProviderSubject, identity.ProviderEmail, identity.RefreshToken)
	return scanIdentity(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (auth.StaffUser, error) {
	var (
		user    auth.StaffUser
		role    string
		created time.Time
	)
	if err := row.Scan(&user.ID, &user.Email, &user.Name, &role, &user.PasswordHash, &created); err != nil {
		return auth.StaffUser{}, err
	}
	user.Role = auth.Role(role)
	user.CreatedAt = created.UTC()
	return user, nil
}

func scanIdentity(row rowScanner) (auth.Identity, error) {
	var (
		identity auth.Identity
		created  time.Time
		updated  time.Time
	)
	if err := row.Scan(&identity.ID, &identity.UserID, &identity.Provider, &identity.ProviderSubject, &identity.ProviderEmail, &identity.RefreshToken, &created, &updated); err != nil {
		return auth.Identity{}, err
	}
	identity.CreatedAt = created.UTC()
	identity.UpdatedAt = updated.UTC()
	return identity, nil
}

var _ auth.Repository = (*PostgresRepository)(nil)
