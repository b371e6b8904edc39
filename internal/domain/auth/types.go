package auth

import "time"

// Role grades what a staff account may do.
type Role string

const (
	// RoleAdmin can manage knowledge base entries and accounts.
	RoleAdmin Role = "admin"
	// RoleEditor can edit knowledge base entries.
	RoleEditor Role = "editor"
)

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	// AllowedEmailDomains restricts staff registration, e.g. college.ac.in.
	// Empty means any domain.
	AllowedEmailDomains []string
	// AdminEmails are promoted to RoleAdmin on account creation.
	AdminEmails []string
	Google      GoogleConfig
}

// GoogleConfig holds OAuth settings for Google sign-in.
type GoogleConfig struct {
	ClientID             string
	ClientSecret         string
	RedirectURL          string
	TokenEncryptionKey   string
	PostLoginRedirectURL string
}

// StaffUser represents a persisted staff account.
type StaffUser struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity represents an external auth provider linkage.
type Identity struct {
	ID              int64
	UserID          int64
	Provider        string
	ProviderSubject string
	ProviderEmail   string
	RefreshToken    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest captures login details.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse returns the signed token.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    int64
	Email     string
	Role      Role
	TokenType string
	ExpiresAt time.Time
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
