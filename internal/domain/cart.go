package domain

type Cart struct {
	ID         string `db:"id"`
	UserID     string `db:"user_id"`     // "" for guest carts
	GuestToken string `db:"guest_token"` // "" for user carts
	UpdatedAt  string `db:"updated_at"`
}

// CartItem is one (cart, variant) line. Quantity is always >= 1; setting it
// to 0 or below deletes the row instead.
type CartItem struct {
	ID        string `db:"id"`
	CartID    string `db:"cart_id"`
	VariantID string `db:"variant_id"`
	Quantity  int    `db:"quantity"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}
