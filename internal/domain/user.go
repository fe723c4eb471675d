package domain

type User struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Phone string `db:"phone"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

// Address is a saved shipping destination owned by one user.
type Address struct {
	ID        string `db:"id"`
	UserID    string `db:"user_id"`
	Recipient string `db:"recipient"`
	Phone     string `db:"phone"`
	Line1     string `db:"line1"`
	Ward      string `db:"ward"`
	District  string `db:"district"`
	City      string `db:"city"`
	IsDefault bool   `db:"is_default"`
	CreatedAt string `db:"created_at"`
}
