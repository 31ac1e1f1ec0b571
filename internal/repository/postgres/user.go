package postgres

import (
	"context"
	"database/sql"

	"iuran-rt-backend/internal/domain"
	"iuran-rt-backend/internal/logger"
	"iuran-rt-backend/internal/repository"
)

type userRepository struct {
	db DBTX
}

func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

// Create stores a new login. A username already taken, compared case-insensitively,
// is a conflict.
func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	logger.EnterMethod("userRepository.Create", "username", u.Username, "role", u.Role)

	query := `INSERT INTO users (username, password_hash, role, resident_id) VALUES ($1, $2, $3, $4) RETURNING id`
	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.Role, nullInt32(u.ResidentID)).Scan(&u.ID)
	if err != nil {
		logger.ExitMethodWithError("userRepository.Create", err)
		if isUniqueViolation(err) {
			return domain.NewConflictError("username is already taken")
		}
		return err
	}

	logger.ExitMethod("userRepository.Create", "userID", u.ID)
	return nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	u := &domain.User{}
	query := `SELECT id, username, password_hash, role, resident_id FROM users WHERE LOWER(username) = LOWER($1)`
	var residentID sql.NullInt32
	err := r.db.QueryRowContext(ctx, query, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Role, &residentID)
	if err != nil {
		return nil, translateError(err, "user not found")
	}
	u.ResidentID = int32Ptr(residentID)
	return u, nil
}

func (r *userRepository) UsernameTaken(ctx context.Context, username string) (bool, error) {
	var taken bool
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE LOWER(username) = LOWER($1))`
	err := r.db.QueryRowContext(ctx, query, username).Scan(&taken)
	return taken, err
}
