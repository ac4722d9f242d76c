package service

import (
	"context"
	"log/slog"

	"github.com/srabonmojumder/velora-Ecommerce/internal/domain"
)

// WishlistView is the wishlist projection returned to clients.
type WishlistView struct {
	Items   []domain.Product `json:"items"`
	Count   int              `json:"count"`
	Applied bool             `json:"applied"`
}

func newWishlistView(w domain.Wishlist, applied bool) *WishlistView {
	return &WishlistView{Items: w.Items, Count: len(w.Items), Applied: applied}
}

// WishlistToggleView reports the wishlist after a toggle and whether the
// product ended up saved.
type WishlistToggleView struct {
	WishlistView
	InWishlist bool `json:"inWishlist"`
}

// CompareView is the compare set projection returned to clients.
type CompareView struct {
	Products []domain.Product `json:"products"`
	Count    int              `json:"count"`
	Full     bool             `json:"full"`
	Applied  bool             `json:"applied"`
}

func newCompareView(c domain.CompareSet, applied bool) *CompareView {
	return &CompareView{Products: c.Products, Count: len(c.Products), Full: c.Full(), Applied: applied}
}

// RecentlyViewedView is the recently viewed projection, most recent first.
type RecentlyViewedView struct {
	Products []domain.Product `json:"products"`
	Applied  bool             `json:"applied"`
}

// GetWishlist returns the wishlist of origin.
func (s *StorefrontService) GetWishlist(ctx context.Context, origin string) (*WishlistView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}
	return newWishlistView(sess.Wishlist.Snapshot(), false), nil
}

// AddToWishlist saves a product. Saving it twice changes nothing.
func (s *StorefrontService) AddToWishlist(ctx context.Context, origin string, productID int) (*WishlistView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	w, applied := dispatch(ctx, sess.Wishlist, "add", func(w domain.Wishlist) (domain.Wishlist, bool) {
		return w.Add(p)
	})
	if applied {
		s.logger.InfoContext(ctx, "product added to wishlist",
			slog.String("origin_id", origin),
			slog.Int("product_id", p.ID),
		)
	}
	return newWishlistView(w, applied), nil
}

// RemoveFromWishlist drops a saved product.
func (s *StorefrontService) RemoveFromWishlist(ctx context.Context, origin string, productID int) (*WishlistView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	w, applied := dispatch(ctx, sess.Wishlist, "remove", func(w domain.Wishlist) (domain.Wishlist, bool) {
		return w.Remove(p.ID)
	})
	if applied {
		s.logger.InfoContext(ctx, "product removed from wishlist",
			slog.String("origin_id", origin),
			slog.Int("product_id", p.ID),
		)
	}
	return newWishlistView(w, applied), nil
}

// IsInWishlist reports whether origin saved the product.
func (s *StorefrontService) IsInWishlist(ctx context.Context, origin string, productID int) (bool, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return false, err
	}
	return sess.Wishlist.Snapshot().Contains(p.ID), nil
}

// ToggleWishlist saves the product when absent and drops it when present.
func (s *StorefrontService) ToggleWishlist(ctx context.Context, origin string, productID int) (*WishlistToggleView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	w, applied := dispatch(ctx, sess.Wishlist, "toggle", func(w domain.Wishlist) (domain.Wishlist, bool) {
		return w.Toggle(p)
	})
	return &WishlistToggleView{
		WishlistView: *newWishlistView(w, applied),
		InWishlist:   w.Contains(p.ID),
	}, nil
}

// GetCompare returns the compare set of origin.
func (s *StorefrontService) GetCompare(ctx context.Context, origin string) (*CompareView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}
	return newCompareView(sess.Compare.Snapshot(), false), nil
}

// AddToCompare appends a product to the compare set. A full set or a product
// already compared is reported as not applied.
func (s *StorefrontService) AddToCompare(ctx context.Context, origin string, productID int) (*CompareView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	c, applied := dispatch(ctx, sess.Compare, "add", func(c domain.CompareSet) (domain.CompareSet, bool) {
		return c.Add(p)
	})
	if !applied && c.Full() {
		s.logger.DebugContext(ctx, "compare set full, product not added",
			slog.String("origin_id", origin),
			slog.Int("product_id", p.ID),
		)
	}
	return newCompareView(c, applied), nil
}

// RemoveFromCompare drops a product from the compare set.
func (s *StorefrontService) RemoveFromCompare(ctx context.Context, origin string, productID int) (*CompareView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	c, applied := dispatch(ctx, sess.Compare, "remove", func(c domain.CompareSet) (domain.CompareSet, bool) {
		return c.Remove(p.ID)
	})
	return newCompareView(c, applied), nil
}

// ClearCompare empties the compare set.
func (s *StorefrontService) ClearCompare(ctx context.Context, origin string) (*CompareView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}

	c, applied := dispatch(ctx, sess.Compare, "clear", domain.CompareSet.Clear)
	return newCompareView(c, applied), nil
}

// GetRecentlyViewed returns the recently viewed products of origin.
func (s *StorefrontService) GetRecentlyViewed(ctx context.Context, origin string) (*RecentlyViewedView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}
	return &RecentlyViewedView{Products: sess.RecentlyViewed.Snapshot().Products}, nil
}

// RecordView moves the product to the front of the recently viewed list.
func (s *StorefrontService) RecordView(ctx context.Context, origin string, productID int) (*RecentlyViewedView, error) {
	sess, p, err := s.resolve(ctx, origin, productID)
	if err != nil {
		return nil, err
	}

	r, applied := dispatch(ctx, sess.RecentlyViewed, "add", func(r domain.RecentlyViewed) (domain.RecentlyViewed, bool) {
		return r.Add(p)
	})
	return &RecentlyViewedView{Products: r.Products, Applied: applied}, nil
}

// ClearRecentlyViewed empties the recently viewed list.
func (s *StorefrontService) ClearRecentlyViewed(ctx context.Context, origin string) (*RecentlyViewedView, error) {
	sess, err := s.session(ctx, origin)
	if err != nil {
		return nil, err
	}

	r, applied := dispatch(ctx, sess.RecentlyViewed, "clear", domain.RecentlyViewed.Clear)
	return &RecentlyViewedView{Products: r.Products, Applied: applied}, nil
}
