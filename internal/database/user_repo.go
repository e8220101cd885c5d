package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/foxxcyber/healthy-food/internal/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailExists        = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// AccountStore persists user accounts
type AccountStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error)
	UpdateUserLastLogin(ctx context.Context, id int) error
}

const userColumns = `id, name, email, password_hash, phone, birth_date, address, dietary_restrictions,
	avatar, user_type, crn, created_at, updated_at, last_login_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.BirthDate,
		&user.Address,
		&user.DietaryRestrictions,
		&user.Avatar,
		&user.UserType,
		&user.CRN,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if user.DietaryRestrictions == nil {
		user.DietaryRestrictions = []string{}
	}
	return user, nil
}

// CreateUser inserts a user whose PasswordHash is already set
func (db *DB) CreateUser(ctx context.Context, u *models.User) (*models.User, error) {
	restrictions := u.DietaryRestrictions
	if restrictions == nil {
		restrictions = []string{}
	}
	userType := u.UserType
	if userType == "" {
		userType = models.UserTypeUser
	}

	user, err := scanUser(db.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password_hash, phone, birth_date, address, dietary_restrictions, avatar, user_type, crn, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING `+userColumns,
		u.Name, u.Email, u.PasswordHash, u.Phone, u.BirthDate, u.Address, restrictions, u.Avatar, userType, u.CRN,
	))
	if err != nil {
		if isUniqueViolation(err, "users_email_key") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	return user, nil
}

// GetUserByID retrieves a user by their ID
func (db *DB) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetUserByEmail retrieves a user by their email
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// UpdateUser updates a user's profile. Nil fields are left unchanged.
func (db *DB) UpdateUser(ctx context.Context, id int, req *models.UpdateUserRequest) (*models.User, error) {
	return scanUser(db.Pool.QueryRow(ctx, `
		UPDATE users
		SET name = COALESCE($2, name),
		    phone = COALESCE($3, phone),
		    birth_date = COALESCE($4, birth_date),
		    address = COALESCE($5, address),
		    dietary_restrictions = COALESCE($6, dietary_restrictions),
		    avatar = COALESCE($7, avatar),
		    crn = COALESCE($8, crn),
		    updated_at = NOW()
		WHERE id = $1
		RETURNING `+userColumns,
		id, req.Name, req.Phone, req.BirthDate, req.Address, req.DietaryRestrictions, req.Avatar, req.CRN,
	))
}

// UpdateUserLastLogin updates the last login timestamp
func (db *DB) UpdateUserLastLogin(ctx context.Context, id int) error {
	_, err := db.Pool.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1`, id)
	return err
}
