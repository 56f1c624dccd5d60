package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/linemk/marketplace-orders/internal/domain/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserStorage описывает методы для работы с таблицей пользователей.
type UserStorage interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

const userColumns = "id, name, address, city, state, zip, email, pass_hash, role, merchant_id"

// GetUserByEmail ищет пользователя по email (email уникален).
func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	if err := scanUser(row, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id)
	if err := scanUser(row, user); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (name, address, city, state, zip, email, pass_hash, role, merchant_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9) RETURNING id`,
		user.Name, user.Address, user.City, user.State, user.Zip,
		user.Email, user.PassHash, user.Role, user.MerchantID,
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	user.ID = id
	return user, nil
}

// scanUser заполняет модель из строки результата, merchant_id может быть NULL
func scanUser(row *sql.Row, user *models.User) error {
	var merchantID sql.NullInt64
	if err := row.Scan(
		&user.ID, &user.Name, &user.Address, &user.City, &user.State, &user.Zip,
		&user.Email, &user.PassHash, &user.Role, &merchantID,
	); err != nil {
		return err
	}
	if merchantID.Valid {
		user.MerchantID = &merchantID.Int64
	}
	return nil
}
