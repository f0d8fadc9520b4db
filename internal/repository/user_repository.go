package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/arnaupv/forum-api/internal/model"
	"github.com/arnaupv/forum-api/internal/utils"
)

// UserRepo persists rows of the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,username,password_hash,role,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash,
		&u.Role, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

// Create inserts a new member account and returns it with its generated
// id. Duplicate email/username violations are mapped to sentinels.
func (r *UserRepo) Create(ctx context.Context, name, email, username, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name,email,username,password_hash,role,created_at,updated_at) VALUES (?,?,?,?,?,?,?)",
		name, email, username, hash, model.RoleMember, now, now)
	if err != nil {
		if isDuplicate(err) {
			if strings.Contains(strings.ToLower(err.Error()), "username") {
				return model.User{}, ErrUsernameExists
			}
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return model.User{
		ID: uint64(id), Name: name, Email: email, Username: username,
		PasswordHash: hash, Role: model.RoleMember, CreatedAt: now, UpdatedAt: now,
	}, nil
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByIdentifier resolves the login identifier, which may be either an
// email address or a username.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	identifier = strings.TrimSpace(identifier)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? OR username=? LIMIT 1",
		strings.ToLower(identifier), identifier))
}

// UpdateDetails changes name, email and username of a user. Duplicates
// held by *other* users surface as ErrEmailExists/ErrUsernameExists.
func (r *UserRepo) UpdateDetails(ctx context.Context, id uint64, name, email, username string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)

	// The unique indexes would catch these too, but checking first gives
	// a field-accurate error regardless of which driver reports it.
	var other uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE email=? AND id<>? LIMIT 1", email, id).Scan(&other)
	if err == nil {
		return ErrEmailExists
	} else if err != sql.ErrNoRows {
		return err
	}
	err = r.DB.QueryRowContext(ctx,
		"SELECT id FROM users WHERE username=? AND id<>? LIMIT 1", username, id).Scan(&other)
	if err == nil {
		return ErrUsernameExists
	} else if err != sql.ErrNoRows {
		return err
	}

	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, username=?, updated_at=? WHERE id=?",
		name, email, username, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ToggleRole flips a user's role between member and admin and returns
// the new value. Unknown users yield ErrUserNotFound.
func (r *UserRepo) ToggleRole(ctx context.Context, id uint64) (uint8, error) {
	var role uint8
	err := r.DB.QueryRowContext(ctx,
		"SELECT role FROM users WHERE id=? LIMIT 1", id).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrUserNotFound
		}
		return 0, err
	}
	next := model.RoleAdmin
	if role == model.RoleAdmin {
		next = model.RoleMember
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET role=?, updated_at=? WHERE id=?", next, time.Now().UTC(), id)
	if err != nil {
		return 0, err
	}
	return next, nil
}

// ListAll returns every user, oldest first.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash,
			&u.Role, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Delete removes a user and everything hanging off them in one
// transaction: votes on responses under their threads, responses under
// their threads, their threads, votes on their own responses, their
// responses, votes they cast, ratings they gave or received, and their
// tokens. Either the whole cascade applies or none of it.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	steps := []struct {
		query string
		args  []any
	}{
		{"DELETE FROM votes WHERE response_id IN (SELECT id FROM responses WHERE thread_id IN (SELECT id FROM threads WHERE user_id=?))", []any{id}},
		{"DELETE FROM responses WHERE thread_id IN (SELECT id FROM threads WHERE user_id=?)", []any{id}},
		{"DELETE FROM threads WHERE user_id=?", []any{id}},
		{"DELETE FROM votes WHERE response_id IN (SELECT id FROM responses WHERE user_id=?)", []any{id}},
		{"DELETE FROM responses WHERE user_id=?", []any{id}},
		{"DELETE FROM votes WHERE user_id=?", []any{id}},
		{"DELETE FROM uratings WHERE user_id=? OR rater_id=?", []any{id, id}},
		{"DELETE FROM access_tokens WHERE user_id=?", []any{id}},
	}
	for _, s := range steps {
		if _, err := tx.ExecContext(ctx, s.query, s.args...); err != nil {
			return err
		}
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}
