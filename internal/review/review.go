// Package review stores shopper reviews and derives per-product rating
// statistics from them.
package review

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"Sportivo/internal/kv"
	"Sportivo/pkg/kit"
)

const (
	MinRating = 1
	MaxRating = 5

	DefaultUserName = "Customer"
)

var (
	ErrInvalidRating  = errors.New("review: rating out of range")
	ErrInvalidProduct = errors.New("review: empty product id")
)

type Review struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"productId"`
	UserName   string    `json:"userName"`
	Rating     int       `json:"rating"`
	ReviewText string    `json:"reviewText"`
	Date       time.Time `json:"date"`
	Helpful    int       `json:"helpful"`
}

type Statistics struct {
	TotalReviews       int         `json:"totalReviews"`
	AverageRating      float64     `json:"averageRating"`
	RatingDistribution map[int]int `json:"ratingDistribution"`
}

type Book struct {
	store   kv.Store
	log     *zap.Logger
	now     func() time.Time
	newID   func() (uuid.UUID, error)
	reviews []Review
}

func Load(ctx context.Context, store kv.Store, log *zap.Logger) (*Book, error) {
	b := &Book{store: store, log: kit.OrNop(log), now: time.Now, newID: uuid.NewV7}

	var reviews []Review
	err := kv.LoadJSON(ctx, store, kv.KeyReviews, &reviews)
	switch {
	case err == nil:
		b.reviews = b.sanitize(reviews)
	case errors.Is(err, kv.ErrNotFound):
	case errors.Is(err, kv.ErrCorrupt):
		b.log.Warn("discarding corrupt reviews", zap.Error(err))
	default:
		return nil, err
	}
	return b, nil
}

func (b *Book) sanitize(reviews []Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, r := range reviews {
		if r.ID == "" || r.Rating < MinRating || r.Rating > MaxRating || r.Helpful < 0 {
			b.log.Warn("dropping invalid review", zap.String("review_id", r.ID), zap.Int("rating", r.Rating))
			continue
		}
		out = append(out, r)
	}
	return out
}

// Add validates and appends a review. An empty userName is recorded as
// DefaultUserName.
func (b *Book) Add(ctx context.Context, productID string, rating int, text, userName string) (Review, error) {
	if strings.TrimSpace(productID) == "" {
		return Review{}, ErrInvalidProduct
	}
	if rating < MinRating || rating > MaxRating {
		return Review{}, fmt.Errorf("%w: %d", ErrInvalidRating, rating)
	}
	if strings.TrimSpace(userName) == "" {
		userName = DefaultUserName
	}
	id, err := b.newID()
	if err != nil {
		return Review{}, fmt.Errorf("review: new id: %w", err)
	}

	r := Review{
		ID:         id.String(),
		ProductID:  productID,
		UserName:   userName,
		Rating:     rating,
		ReviewText: text,
		Date:       b.now().UTC(),
	}
	if err := b.commit(ctx, append(slices.Clone(b.reviews), r)); err != nil {
		return Review{}, err
	}
	return r, nil
}

// ForProduct returns the product's reviews, most recent first.
func (b *Book) ForProduct(productID string) []Review {
	var out []Review
	for _, r := range b.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, func(x, y Review) int { return y.Date.Compare(x.Date) })
	return out
}

// AverageRating is the mean rating, or 0 when the product has no reviews.
func (b *Book) AverageRating(productID string) float64 {
	return average(b.ForProduct(productID))
}

func average(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// MarkHelpful bumps the helpful counter. Unknown ids are ignored.
func (b *Book) MarkHelpful(ctx context.Context, reviewID string) error {
	i := slices.IndexFunc(b.reviews, func(r Review) bool { return r.ID == reviewID })
	if i < 0 {
		return nil
	}
	next := slices.Clone(b.reviews)
	next[i].Helpful++
	return b.commit(ctx, next)
}

func (b *Book) Statistics(productID string) Statistics {
	reviews := b.ForProduct(productID)
	dist := make(map[int]int, MaxRating)
	for star := MinRating; star <= MaxRating; star++ {
		dist[star] = 0
	}
	for _, r := range reviews {
		dist[r.Rating]++
	}
	return Statistics{
		TotalReviews:       len(reviews),
		AverageRating:      average(reviews),
		RatingDistribution: dist,
	}
}

func (b *Book) All() []Review { return slices.Clone(b.reviews) }

func (b *Book) commit(ctx context.Context, next []Review) error {
	if err := kv.SaveJSON(ctx, b.store, kv.KeyReviews, next); err != nil {
		return err
	}
	b.reviews = next
	return nil
}
