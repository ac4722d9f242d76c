// Package session bundles the four storefront stores that belong to one
// origin and loads them on demand.
package session

import (
	"context"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
	"github.com/srabonmojumder/velora-Ecommerce/internal/persist"
	"github.com/srabonmojumder/velora-Ecommerce/internal/state"
)

// Store names double as persistence keys.
const (
	CartStore           = "cart-storage"
	WishlistStore       = "wishlist-storage"
	CompareStore        = "compare-storage"
	RecentlyViewedStore = "recently-viewed-storage"
)

// Session is the application state of one origin. Each store is persisted
// under its own key after every applied change.
type Session struct {
	Origin         string
	Cart           *state.Store[domain.Cart]
	Wishlist       *state.Store[domain.Wishlist]
	Compare        *state.Store[domain.CompareSet]
	RecentlyViewed *state.Store[domain.RecentlyViewed]
}

// Load rehydrates every store of origin from p and attaches the persistence
// observers. It fails if any store cannot be read.
func Load(ctx context.Context, p *persist.Persister, origin string) (*Session, error) {
	s := &Session{Origin: origin}
	var err error
	if s.Cart, err = open(ctx, p, CartStore, origin, normalizeCart); err != nil {
		return nil, err
	}
	if s.Wishlist, err = open(ctx, p, WishlistStore, origin, normalizeWishlist); err != nil {
		return nil, err
	}
	if s.Compare, err = open(ctx, p, CompareStore, origin, normalizeCompare); err != nil {
		return nil, err
	}
	if s.RecentlyViewed, err = open(ctx, p, RecentlyViewedStore, origin, normalizeRecentlyViewed); err != nil {
		return nil, err
	}
	return s, nil
}

func open[S any](ctx context.Context, p *persist.Persister, name, origin string, normalize func(S) S) (*state.Store[S], error) {
	var zero S
	key := persist.Key(name, origin)
	loaded, err := persist.Load(ctx, p, name, key, normalize(zero))
	if err != nil {
		return nil, err
	}
	return state.New(name, normalize(loaded), persist.Observer[S](p, name, key)), nil
}

// Blobs written by older clients may omit a collection; an absent list is
// treated as empty so responses never carry null.

func normalizeCart(c domain.Cart) domain.Cart {
	if c.Items == nil {
		c.Items = []domain.CartItem{}
	}
	return c
}

func normalizeWishlist(w domain.Wishlist) domain.Wishlist {
	if w.Items == nil {
		w.Items = []domain.Product{}
	}
	return w
}

func normalizeCompare(c domain.CompareSet) domain.CompareSet {
	if c.Products == nil {
		c.Products = []domain.Product{}
	}
	// A blob edited outside the app may exceed the cap.
	if len(c.Products) > domain.MaxCompareProducts {
		c.Products = c.Products[:domain.MaxCompareProducts]
	}
	return c
}

func normalizeRecentlyViewed(r domain.RecentlyViewed) domain.RecentlyViewed {
	if r.Products == nil {
		r.Products = []domain.Product{}
	}
	if len(r.Products) > domain.MaxRecentlyViewed {
		r.Products = r.Products[:domain.MaxRecentlyViewed]
	}
	return r
}
