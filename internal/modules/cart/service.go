// README: Cart service implements session cart mutations on top of a Repository.
package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("cart not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("cart changed concurrently, retry")
)

// maxUpdateAttempts bounds the read-modify-write retries of a single mutation.
const maxUpdateAttempts = 50

// Repository persists carts. *Store is the Redis implementation.
type Repository interface {
	Get(ctx context.Context, id string) (*Cart, error)
	Save(ctx context.Context, c *Cart) error
	// UpdateVersion stores c only if the stored cart is still at version.
	// It reports false when another writer got there first.
	UpdateVersion(ctx context.Context, c *Cart, version int) (bool, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	store Repository
	now   func() time.Time
}

func NewService(store Repository) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) Create(ctx context.Context) (*Cart, error) {
	c := &Cart{ID: uuid.NewString(), Items: []Item{}, UpdatedAt: s.now()}
	if err := s.store.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Cart, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrBadRequest
	}
	return s.store.Get(ctx, id)
}

// AddItem appends item, or increases the quantity when the product is already in the cart.
func (s *Service) AddItem(ctx context.Context, id string, item Item) (*Cart, error) {
	if item.ProductID == "" || item.Quantity < 1 || item.UnitPrice < 0 || item.WholesalePrice < 0 {
		return nil, ErrBadRequest
	}
	return s.mutate(ctx, id, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ProductID == item.ProductID {
				c.Items[i].Quantity += item.Quantity
				return nil
			}
		}
		c.Items = append(c.Items, item)
		return nil
	})
}

// SetQuantity replaces a line's quantity; a quantity of zero or less removes the line.
func (s *Service) SetQuantity(ctx context.Context, id, productID string, quantity int) (*Cart, error) {
	if quantity <= 0 {
		return s.Remove(ctx, id, productID)
	}
	return s.mutate(ctx, id, func(c *Cart) error {
		for i := range c.Items {
			if c.Items[i].ProductID == productID {
				c.Items[i].Quantity = quantity
				return nil
			}
		}
		return ErrNotFound
	})
}

func (s *Service) Remove(ctx context.Context, id, productID string) (*Cart, error) {
	return s.mutate(ctx, id, func(c *Cart) error {
		kept := c.Items[:0]
		for _, it := range c.Items {
			if it.ProductID != productID {
				kept = append(kept, it)
			}
		}
		c.Items = kept
		return nil
	})
}

func (s *Service) Clear(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrBadRequest
	}
	return s.store.Delete(ctx, id)
}

// mutate applies change to a fresh copy of the cart and stores it with a
// version check, re-reading and re-applying when a concurrent write wins.
func (s *Service) mutate(ctx context.Context, id string, change func(*Cart) error) (*Cart, error) {
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		c, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := change(c); err != nil {
			return nil, err
		}
		version := c.Version
		c.Version++
		c.UpdatedAt = s.now()
		ok, err := s.store.UpdateVersion(ctx, c, version)
		if err != nil {
			return nil, err
		}
		if ok {
			return c, nil
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}
	return nil, ErrConflict
}
