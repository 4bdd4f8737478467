package repos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"

	"chronoworks/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = `id, username, email, full_name, hashed_password, is_active, is_admin,
  created_at, COALESCE(updated_at,'') AS updated_at`

func (r *UserRepo) Insert(u *domain.User) error {
	_, err := r.DB.Exec(`
	  INSERT INTO users(id, username, email, full_name, hashed_password, is_active, is_admin)
	  VALUES(?,?,?,?,?,?,?)`,
		u.ID, u.Username, u.Email, u.FullName, u.Hash, u.Active, u.Admin)
	return err
}

func (r *UserRepo) ByID(id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `SELECT `+userCols+` FROM users WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("user %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ByLogin finds an active user by username or email; checked as stored,
// case sensitively.
func (r *UserRepo) ByLogin(usernameOrEmail string) (*domain.User, error) {
	var u domain.User
	err := r.DB.Get(&u, `
	  SELECT `+userCols+` FROM users
	  WHERE (username = ? OR email = ?) AND is_active = 1`,
		usernameOrEmail, usernameOrEmail)
	if err == sql.ErrNoRows {
		return nil, domain.NotFoundf("user %s", usernameOrEmail)
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindConflict reports which of username/email is already taken, if either.
// The username match is preferred when both collide on different rows.
func (r *UserRepo) FindConflict(username, email string) (usernameTaken, emailTaken bool, err error) {
	var u domain.User
	err = r.DB.Get(&u, `
	  SELECT `+userCols+` FROM users WHERE username = ? OR email = ?
	  ORDER BY (username = ?) DESC LIMIT 1`, username, email, username)
	if err == sql.ErrNoRows {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}
	return u.Username == username, u.Email == email, nil
}

func (r *UserRepo) EmailTakenByOther(email, userID string) (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE email = ? AND id != ?`, email, userID); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) UpdateProfile(id, email, fullName string) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET email = ?, full_name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		email, fullName, id)
	return err
}

func (r *UserRepo) UpdatePassword(id, hash string) error {
	_, err := r.DB.Exec(`
	  UPDATE users SET hashed_password = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, hash, id)
	return err
}

// Touch bumps updated_at; used on successful authentication.
func (r *UserRepo) Touch(id string) error {
	_, err := r.DB.Exec(`UPDATE users SET updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
	return err
}

func (r *UserRepo) AdminExists() (bool, error) {
	var n int
	if err := r.DB.Get(&n, `SELECT COUNT(*) FROM users WHERE is_admin = 1`); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepo) List(limit, offset int) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.Select(&out, `SELECT `+userCols+` FROM users ORDER BY created_at LIMIT ? OFFSET ?`, limit, offset)
	return out, err
}
