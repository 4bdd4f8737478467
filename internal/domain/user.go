package domain

type User struct {
	ID        string `db:"id"`
	Username  string `db:"username"`
	Email     string `db:"email"`
	FullName  string `db:"full_name"`
	Hash      string `db:"hashed_password"`
	Active    bool   `db:"is_active"`
	Admin     bool   `db:"is_admin"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}
