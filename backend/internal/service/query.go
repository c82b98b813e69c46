package service

import (
	"context"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/itchan-dev/wall/shared/domain"
	internal_errors "github.com/itchan-dev/wall/shared/errors"
	"github.com/itchan-dev/wall/shared/logger"
	"github.com/itchan-dev/wall/shared/middleware/metrics"
)

const maxParallelSigning = 8

type QueryService interface {
	Query(ctx context.Context, opts domain.QueryOptions) (domain.QueryResult, error)
}

type QueryStorage interface {
	// ListSubmissions returns every submission, newest first.
	ListSubmissions(ctx context.Context) ([]domain.Submission, error)
}

type URLSigner interface {
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
}

type Query struct {
	storage QueryStorage
	signer  URLSigner
	ttl     time.Duration
}

func NewQuery(storage QueryStorage, signer URLSigner, ttl time.Duration) *Query {
	return &Query{storage: storage, signer: signer, ttl: ttl}
}

// Query filters by text and visibility, then pages. Order from storage is kept as is.
// Links are resolved only for the returned page; resolution never changes what is filtered or counted.
func (q *Query) Query(ctx context.Context, opts domain.QueryOptions) (domain.QueryResult, error) {
	if opts.PageSize < 1 {
		return domain.QueryResult{}, internal_errors.Validation("page size must be positive")
	}
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.VisibilityFilter == "" {
		opts.VisibilityFilter = domain.VisibilityAll
	}

	all, err := q.storage.ListSubmissions(ctx)
	if err != nil {
		return domain.QueryResult{}, err
	}

	filtered := filterSubmissions(all, opts.TextFilter, opts.VisibilityFilter)
	totalPages := pageCount(len(filtered), opts.PageSize)

	page := pageOf(filtered, opts.Page, opts.PageSize, totalPages)
	items := make([]domain.SubmissionView, len(page))
	for i, s := range page {
		items[i] = domain.SubmissionView{Submission: s}
	}
	q.resolveImages(ctx, items)

	return domain.QueryResult{Items: items, TotalPages: totalPages}, nil
}

func filterSubmissions(all []domain.Submission, text string, visibility domain.VisibilityFilter) []domain.Submission {
	needle := strings.ToLower(strings.TrimSpace(text))
	out := make([]domain.Submission, 0, len(all))
	for _, s := range all {
		if needle != "" &&
			!strings.Contains(strings.ToLower(s.Name), needle) &&
			!strings.Contains(strings.ToLower(s.Message), needle) {
			continue
		}
		switch visibility {
		case domain.VisibilityPublic:
			if !s.IsVisible {
				continue
			}
		case domain.VisibilityHidden:
			if s.IsVisible {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

// pageCount is ceil(n / pageSize) without the n+pageSize-1 overflow.
func pageCount(n, pageSize int) int {
	pages := n / pageSize
	if n%pageSize != 0 {
		pages++
	}
	return pages
}

// pageOf returns the 1-indexed page. Pages past totalPages are empty; the bound is checked
// before multiplying so huge page numbers can't wrap around.
func pageOf(items []domain.Submission, page, pageSize, totalPages int) []domain.Submission {
	if page > totalPages {
		return nil
	}
	start := (page - 1) * pageSize
	end := start + min(pageSize, len(items)-start)
	return items[start:end]
}

// resolveImages fills Images for every item. Keys that fail to sign are dropped, the rest keep their order.
func (q *Query) resolveImages(ctx context.Context, items []domain.SubmissionView) {
	urls := make([][]string, len(items))

	g := new(errgroup.Group)
	g.SetLimit(maxParallelSigning)
	for i := range items {
		urls[i] = make([]string, len(items[i].ImageKeys))
		for j, key := range items[i].ImageKeys {
			g.Go(func() error {
				url, err := q.signer.SignedURL(ctx, key, q.ttl)
				metrics.MediaOpsTotal.WithLabelValues("sign", metrics.Result(err)).Inc()
				if err != nil {
					logger.Log.Warn("dropping unresolvable image", "submission", items[i].Id, "key", key, "error", err)
					return nil
				}
				urls[i][j] = url
				return nil
			})
		}
	}
	_ = g.Wait()

	for i := range items {
		images := make([]domain.ResolvedImage, 0, len(urls[i]))
		for j, url := range urls[i] {
			if url != "" {
				images = append(images, domain.ResolvedImage{Key: items[i].ImageKeys[j], URL: url})
			}
		}
		items[i].Images = images
	}
}
