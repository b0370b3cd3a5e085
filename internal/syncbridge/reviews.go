package syncbridge

import (
	"context"
	"log"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/example/sassynary-shop/internal/infrastructure/docstore"
)

const (
	reviewsCollection = "reviews"
	// WallSize is how many reviews the wall keeps besides the seeds.
	WallSize = 5
	// wallOwner keys the local copy of reviews that never reached the remote.
	wallOwner = "wall"
)

type Review struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Location  string    `json:"location,omitempty"`
	Rating    int       `json:"rating"`
	Text      string    `json:"text"`
	Static    bool      `json:"static,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (r Review) Validate() map[string]string {
	fields := map[string]string{}
	if strings.TrimSpace(r.Author) == "" {
		fields["author"] = "required"
	}
	if strings.TrimSpace(r.Text) == "" {
		fields["text"] = "required"
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func (r Review) normalized() Review {
	r.Author = strings.TrimSpace(r.Author)
	r.Location = strings.TrimSpace(r.Location)
	r.Text = strings.TrimSpace(r.Text)
	r.Rating = min(max(r.Rating, 1), 5)
	r.Static = false
	return r
}

func (r Review) document() map[string]any {
	return map[string]any{
		"author":   r.Author,
		"location": r.Location,
		"rating":   int64(r.Rating),
		"text":     r.Text,
	}
}

func reviewFromDocument(doc docstore.Document) Review {
	rating, _ := toInt(doc.Data["rating"])
	return Review{
		ID:        doc.ID,
		Author:    toString(doc.Data["author"]),
		Location:  toString(doc.Data["location"]),
		Rating:    rating,
		Text:      toString(doc.Data["text"]),
		CreatedAt: doc.CreatedAt,
	}
}

// SeedReviews are always shown after any fetched reviews.
var SeedReviews = []Review{
	{
		ID:       "static-1",
		Author:   "Sravya Reddy",
		Location: "Vijayawada",
		Rating:   5,
		Text:     "The paper quality is actually incredible. My fountain pen glides, and the cover design brings me so much joy daily.",
		Static:   true,
	},
	{
		ID:       "static-2",
		Author:   "Karthik K.",
		Location: "Guntur",
		Rating:   5,
		Text:     "Finally, stationery that feels grown-up but still fun. The packaging was so thoughtful, I didn't want to open it!",
		Static:   true,
	},
	{
		ID:       "static-3",
		Author:   "Sneha P.",
		Location: "Vizag",
		Rating:   5,
		Text:     "Gifted these cards to my best friends and they absolutely loved the wit. Arrived safely in Vizag.",
		Static:   true,
	},
}

// ReviewWall is the shared, newest-first list of customer reviews.
type ReviewWall struct {
	bridge *Bridge
	gate   loadGate

	mu      sync.RWMutex
	fetched []Review
}

func NewReviewWall(b *Bridge) *ReviewWall {
	return &ReviewWall{bridge: b}
}

func (rw *ReviewWall) Load(ctx context.Context) {
	rw.gate.do(ctx, reviewsCollection, func() {
		q := docstore.Query{OrderBy: docstore.CreatedAtField, Desc: true, Limit: WallSize}
		err := rw.bridge.watch(ctx, reviewsCollection, func(watchCtx context.Context, delivered func()) error {
			return rw.bridge.remote.WatchCollection(watchCtx, reviewsCollection, q, func(docs []docstore.Document) {
				list := make([]Review, len(docs))
				for i, d := range docs {
					list[i] = reviewFromDocument(d)
				}
				rw.mu.Lock()
				rw.fetched = list
				rw.mu.Unlock()
				delivered()
			})
		})
		if err == nil {
			return
		}
		log.Printf("[SyncBridge] Review wall has no live feed, reading local reviews: %v", err)

		var stored []Review // oldest first
		if !rw.bridge.loadLocal(ctx, NamespaceReviews, wallOwner, &stored) {
			return
		}
		slices.Reverse(stored)
		if len(stored) > WallSize {
			stored = stored[:WallSize]
		}
		rw.mu.Lock()
		rw.fetched = stored
		rw.mu.Unlock()
	})
}

// Submit posts a review. Locally stored reviews are appended to the shared
// reviews_wall key, so a restarted process without a remote still shows them.
func (rw *ReviewWall) Submit(ctx context.Context, userID string, r Review) (Review, Outcome) {
	rw.Load(ctx)
	r = r.normalized()
	r.CreatedAt = rw.bridge.now()

	outcome := rw.bridge.write(ctx, NamespaceReviews, userID,
		func(ctx context.Context, remote docstore.Store) error {
			id, err := remote.Add(ctx, reviewsCollection, r.document())
			if err != nil {
				return err
			}
			r.ID = id
			rw.prepend(r)
			return nil
		},
		func(ctx context.Context) error {
			r.ID = strconv.FormatInt(r.CreatedAt.UnixMilli(), 10)
			rw.prepend(r)
			return rw.bridge.appendLocal(ctx, NamespaceReviews, wallOwner, r)
		},
	)
	return r, outcome
}

// Recent returns up to limit reviews: fetched ones first, then the seeds.
func (rw *ReviewWall) Recent(ctx context.Context, limit int) []Review {
	rw.Load(ctx)

	rw.mu.RLock()
	list := slices.Concat(rw.fetched, SeedReviews)
	rw.mu.RUnlock()

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}
	return list
}

func (rw *ReviewWall) prepend(r Review) {
	rw.mu.Lock()
	defer rw.mu.Unlock()
	if slices.ContainsFunc(rw.fetched, func(x Review) bool { return x.ID == r.ID }) {
		return
	}
	rw.fetched = append([]Review{r}, rw.fetched...)
	if len(rw.fetched) > WallSize {
		rw.fetched = rw.fetched[:WallSize]
	}
}
