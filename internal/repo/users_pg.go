package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vyhuholl/order-management-rest-api/pkg/models"
)

type UsersPG struct {
	DB *pgxpool.Pool
}

func (r *UsersPG) Create(ctx context.Context, email, hashedPassword string) (models.User, error) {
	u := models.User{Email: email, HashedPassword: hashedPassword}
	err := r.DB.QueryRow(ctx, `
		insert into users (email, hashed_password)
		values ($1, $2)
		returning id
	`, email, hashedPassword).Scan(&u.ID)
	if isUniqueViolation(err) {
		return models.User{}, ErrEmailExists
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *UsersPG) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return r.getOne(ctx, `select id, email, hashed_password from users where email = $1`, email)
}

func (r *UsersPG) GetByID(ctx context.Context, id int64) (models.User, error) {
	return r.getOne(ctx, `select id, email, hashed_password from users where id = $1`, id)
}

// Delete removes the user; the orders foreign key cascades.
func (r *UsersPG) Delete(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `delete from users where id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UsersPG) getOne(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := r.DB.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.HashedPassword)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}
