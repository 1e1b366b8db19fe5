package sqlite

import (
	"context"
	"database/sql"

	"github.com/tabwriterlabs/identity/internal/identity/domain"
	"github.com/tabwriterlabs/identity/internal/identity/store"
)

const userColumns = `id, email, name, password_hash, role, provider,
	email_verified, active, blocked, refresh_token_hash, token_version,
	created_at, updated_at`

type usersRepo struct {
	db *sql.DB
}

func (r *usersRepo) Create(ctx context.Context, u domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (
			id, email, name, password_hash, role, provider,
			email_verified, active, blocked
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Email,
		u.Name,
		mapOptionalString(u.PasswordHash),
		string(u.Role),
		string(u.Provider),
		u.EmailVerified,
		u.Active,
		u.Blocked,
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE email = ?`, email)

	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) List(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) IsEmpty(ctx context.Context) (bool, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

func (r *usersRepo) UpdateProfile(
	ctx context.Context,
	id, name string,
	role domain.Role,
	active, blocked bool,
) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, role = ?, active = ?, blocked = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		name, string(role), active, blocked, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

// RotateRefreshTokenHash is the single conditional update that makes refresh
// rotation atomic: of N concurrent refreshes presenting the same old token,
// exactly one matches the WHERE clause.
func (r *usersRepo) RotateRefreshTokenHash(ctx context.Context, id, oldHash, newHash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND refresh_token_hash = ?`,
		newHash, id, oldHash)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrStaleRefreshToken
	}
	return nil
}

func (r *usersRepo) ClearRefreshTokenHash(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET refresh_token_hash = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) MarkSocialLogin(ctx context.Context, id string, provider domain.Provider) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET provider = ?, email_verified = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		string(provider), id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) ResetCredentials(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, token_version = token_version + 1,
			refresh_token_hash = NULL, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *usersRepo) ActivateWithPassword(ctx context.Context, id, hash string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET password_hash = ?, active = 1, email_verified = 1,
			token_version = token_version + 1, refresh_token_hash = NULL,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		hash, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}
