package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mind-engage/mindengage-portal/internal/rbac"
)

var (
	ErrBadCredentials = errors.New("invalid credentials")
	ErrUnknownUser    = errors.New("user not found")
	ErrLastStaff      = errors.New("cannot demote the last staff user")
	ErrUnknownRole    = errors.New("unknown role")
	ErrInvalidUser    = errors.New("invalid user")
)

// Directory checks logins against the configured admin, the users table and,
// when enabled, the offline dev shortcut (password equals username).
type Directory struct {
	db        *sql.DB
	adminUser string
	adminHash string
	devLogin  bool
}

func NewDirectory(db *sql.DB, adminUser, adminPassHash string, devLogin bool) *Directory {
	return &Directory{db: db, adminUser: adminUser, adminHash: adminPassHash, devLogin: devLogin}
}

// Authenticate returns the subject and role for valid credentials.
func (d *Directory) Authenticate(ctx context.Context, username, password, wantRole string) (string, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", "", ErrBadCredentials
	}
	if d.adminUser != "" && username == d.adminUser {
		if bcrypt.CompareHashAndPassword([]byte(d.adminHash), []byte(password)) != nil {
			return "", "", ErrBadCredentials
		}
		return username, rbac.RoleStaff, nil
	}

	var id, hash, role string
	err := d.db.QueryRowContext(ctx,
		`SELECT id, password_hash, role FROM users WHERE username=$1`, username).Scan(&id, &hash, &role)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
			return "", "", ErrBadCredentials
		}
		return id, role, nil
	case errors.Is(err, sql.ErrNoRows):
		if d.devLogin && username == password && (wantRole == rbac.RoleStudent || wantRole == rbac.RoleTutor) {
			return username, wantRole, nil
		}
		return "", "", ErrBadCredentials
	default:
		return "", "", err
	}
}

// User is a row of the users table. Password is only read on upsert.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Password string `json:"password,omitempty"`
}

// AddUser stores a single user, replacing an existing row with the same id.
func (d *Directory) AddUser(ctx context.Context, id, username, password, role string) error {
	_, _, err := d.Upsert(ctx, []User{{ID: id, Username: username, Role: role, Password: password}})
	return err
}

// Upsert inserts or updates users in one transaction. New users need a
// password; existing users keep their hash when none is given. An empty role
// means student.
func (d *Directory) Upsert(ctx context.Context, users []User) (inserted, updated int, err error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			inserted, updated = 0, 0
			return
		}
		err = tx.Commit()
	}()

	for _, u := range users {
		u.Username = strings.TrimSpace(u.Username)
		u.Role = strings.ToLower(strings.TrimSpace(u.Role))
		if u.Role == "" {
			u.Role = rbac.RoleStudent
		}
		if u.ID == "" || u.Username == "" {
			return inserted, updated, fmt.Errorf("%w: id and username required", ErrInvalidUser)
		}
		if !rbac.ValidRole(u.Role) {
			return inserted, updated, fmt.Errorf("%w: %s", ErrUnknownRole, u.Role)
		}
		var hash string
		if u.Password != "" {
			b, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
			if err != nil {
				return inserted, updated, err
			}
			hash = string(b)
		}

		var exists bool
		switch err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=$1`, u.ID).Scan(new(int)); {
		case err == nil:
			exists = true
		case !errors.Is(err, sql.ErrNoRows):
			return inserted, updated, err
		}

		switch {
		case exists && hash != "":
			_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2, password_hash=$3 WHERE id=$4`,
				u.Username, u.Role, hash, u.ID)
		case exists:
			_, err = tx.ExecContext(ctx, `UPDATE users SET username=$1, role=$2 WHERE id=$3`,
				u.Username, u.Role, u.ID)
		case hash == "":
			return inserted, updated, fmt.Errorf("%w: password required for new user %s", ErrInvalidUser, u.Username)
		default:
			_, err = tx.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, role) VALUES ($1,$2,$3,$4)`,
				u.ID, u.Username, hash, u.Role)
		}
		if err != nil {
			return inserted, updated, err
		}
		if exists {
			updated++
		} else {
			inserted++
		}
	}
	return inserted, updated, nil
}

// List returns users ordered by username, optionally filtered by role.
func (d *Directory) List(ctx context.Context, role string) ([]User, error) {
	q := `SELECT id, username, role FROM users ORDER BY username`
	args := []any{}
	if role != "" {
		q = `SELECT id, username, role FROM users WHERE role=$1 ORDER BY username`
		args = append(args, role)
	}
	rows, err := d.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Username, &u.Role); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ChangePassword replaces the hash of user id after checking the old password.
func (d *Directory) ChangePassword(ctx context.Context, id, oldPassword, newPassword string) error {
	if newPassword == "" {
		return errors.New("new password required")
	}
	var stored string
	err := d.db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE id=$1`, id).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownUser
	}
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(oldPassword)) != nil {
		return ErrBadCredentials
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = d.db.ExecContext(ctx, `UPDATE users SET password_hash=$1 WHERE id=$2`, string(hash), id)
	return err
}

// SetRole changes the role of the user with the given id or username. The
// last stored staff user cannot be demoted.
func (d *Directory) SetRole(ctx context.Context, target, role string) error {
	role = strings.ToLower(strings.TrimSpace(role))
	if !rbac.ValidRole(role) {
		return fmt.Errorf("%w: %s", ErrUnknownRole, role)
	}
	var id, cur string
	err := d.db.QueryRowContext(ctx,
		`SELECT id, role FROM users WHERE id=$1 OR username=$1`, target).Scan(&id, &cur)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUnknownUser
	}
	if err != nil {
		return err
	}
	if cur == rbac.RoleStaff && role != rbac.RoleStaff {
		var n int
		if err := d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM users WHERE role=$1`, rbac.RoleStaff).Scan(&n); err != nil {
			return err
		}
		if n <= 1 {
			return ErrLastStaff
		}
	}
	_, err = d.db.ExecContext(ctx, `UPDATE users SET role=$1 WHERE id=$2`, role, id)
	return err
}
