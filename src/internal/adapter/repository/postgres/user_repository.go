package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/api-sage/brokerage-ledger/src/internal/commons"
	"github.com/api-sage/brokerage-ledger/src/internal/domain"
	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

const userColumns = `u.id_user, u.email, u.full_name, u.birth_date, u.password_hash, r.role_description, u.created_at`

type UserRepository struct {
	db dbtx
}

func NewUserRepository(db dbtx) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	logger.Info("user repository create", logger.Fields{
		"email": user.Email,
		"role":  user.Role,
	})

	const query = `
INSERT INTO users (
	email,
	full_name,
	birth_date,
	password_hash,
	role_code
) VALUES ($1, $2, $3, $4, $5)
RETURNING id_user, created_at`

	if err := r.db.QueryRowContext(
		ctx,
		query,
		strings.ToLower(user.Email),
		user.FullName,
		user.BirthDate,
		user.PasswordHash,
		user.Role.Code(),
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, commons.ErrEmailTaken
		}
		logger.Error("user repository create failed", err, logger.Fields{
			"email": user.Email,
		})
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (domain.User, error) {
	return r.getOne(ctx, "u.id_user = $1", userID)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.getOne(ctx, "u.email = LOWER($1)", strings.TrimSpace(email))
}

func (r *UserRepository) getOne(ctx context.Context, where string, arg any) (domain.User, error) {
	query := `
SELECT ` + userColumns + `
FROM users u
JOIN user_role r ON r.role_code = u.role_code
WHERE ` + where

	var user domain.User
	if err := scanUser(r.db.QueryRowContext(ctx, query, arg), &user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, commons.ErrUserNotFound
		}
		logger.Error("user repository get failed", err, nil)
		return domain.User{}, fmt.Errorf("get user: %w", err)
	}

	return user, nil
}

func scanUser(row rowScanner, user *domain.User) error {
	var role string
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FullName,
		&user.BirthDate,
		&user.PasswordHash,
		&role,
		&user.CreatedAt,
	); err != nil {
		return err
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return err
	}
	user.Role = parsed
	return nil
}
