package services

import (
	"database/sql"
	"errors"
	"time"

	"aolua/internal/domain"
	"aolua/internal/repos"
)

// Identity names the owner of a cart: a logged-in user, or an anonymous
// guest carrying a cookie token. Exactly one field is set.
type Identity struct {
	UserID     string
	GuestToken string
}

type CartService struct {
	Carts *repos.CartRepo
	Prods *repos.ProductRepo
	Users *repos.UserRepo
}

func NewCartService(carts *repos.CartRepo, prods *repos.ProductRepo, users *repos.UserRepo) *CartService {
	return &CartService{Carts: carts, Prods: prods, Users: users}
}

// ItemView is a cart line with its resolved unit price at view time.
type ItemView struct {
	repos.CartLine
	UnitPrice int64
	LineTotal int64
}

type CartView struct {
	Cart     domain.Cart
	Items    []ItemView
	Subtotal int64
}

// GetOrCreate resolves the identity's cart, creating one lazily. An unknown
// user id is an authentication problem, not a cue to create an orphan cart;
// a stale or missing guest token just gets a fresh empty cart.
func (s *CartService) GetOrCreate(id Identity) (domain.Cart, error) {
	if id.UserID != "" {
		if _, err := s.Users.ByID(id.UserID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.Cart{}, ErrUserNotFound
			}
			return domain.Cart{}, err
		}
		c, err := s.Carts.ByUser(id.UserID)
		if errors.Is(err, sql.ErrNoRows) {
			return s.Carts.Create(id.UserID, "")
		}
		return c, err
	}
	if id.GuestToken != "" {
		c, err := s.Carts.ByGuestToken(id.GuestToken)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return domain.Cart{}, err
		}
	}
	return s.Carts.Create("", id.GuestToken)
}

// View hydrates the cart for rendering.
func (s *CartService) View(id Identity) (CartView, error) {
	c, err := s.GetOrCreate(id)
	if err != nil {
		return CartView{}, err
	}
	return s.view(c)
}

func (s *CartService) view(c domain.Cart) (CartView, error) {
	lines, err := s.Carts.Lines(c.ID)
	if err != nil {
		return CartView{}, err
	}
	now := time.Now()
	cv := CartView{Cart: c, Items: make([]ItemView, 0, len(lines))}
	for _, l := range lines {
		price := l.Pricing().EffectiveAt(now)
		it := ItemView{CartLine: l, UnitPrice: price, LineTotal: price * int64(l.Quantity)}
		cv.Items = append(cv.Items, it)
		cv.Subtotal += it.LineTotal
	}
	return cv, nil
}

// AddItem adds (or increments) a variant line and returns the cart in its
// post-mutation state.
func (s *CartService) AddItem(id Identity, variantID string, qty int) (CartView, error) {
	if qty < 1 {
		qty = 1
	}
	c, err := s.GetOrCreate(id)
	if err != nil {
		return CartView{}, err
	}
	if _, err := s.Prods.GetVariant(variantID); err != nil {
		return CartView{}, err
	}
	if err := s.Carts.UpsertItem(c.ID, variantID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(c)
}

// UpdateQuantity sets an exact quantity; zero or below removes the line.
func (s *CartService) UpdateQuantity(id Identity, itemID string, qty int) (CartView, error) {
	c, err := s.GetOrCreate(id)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.SetQuantity(c.ID, itemID, qty); err != nil {
		return CartView{}, err
	}
	return s.view(c)
}

func (s *CartService) RemoveItem(id Identity, itemID string) (CartView, error) {
	c, err := s.GetOrCreate(id)
	if err != nil {
		return CartView{}, err
	}
	if err := s.Carts.RemoveItem(c.ID, itemID); err != nil {
		return CartView{}, err
	}
	return s.view(c)
}
