package auth

import "context"

// Repository abstracts staff account persistence.
type Repository interface {
	Create(ctx context.Context, email, name string, role Role, passwordHash string) (StaffUser, error)
	GetByEmail(ctx context.Context, email string) (StaffUser, bool, error)
	GetByID(ctx context.Context, id int64) (StaffUser, bool, error)
	GetIdentity(ctx context.Context, provider, providerSubject string) (Identity, bool, error)
	GetIdentityByUser(ctx context.Context, userID int64, provider string) (Identity, bool, error)
	UpsertIdentity(ctx context.Context, identity Identity) (Identity, error)
}
