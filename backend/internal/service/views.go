package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/itchan-dev/wall/shared/domain"
	"github.com/itchan-dev/wall/shared/logger"
)

// RecentViewsLimit is how many raw views the admin stats return.
const RecentViewsLimit = 50

const maxSourceLen = 200

type ViewsService interface {
	Record(ctx context.Context, source domain.ViewSource)
	Stats(ctx context.Context) (domain.ViewStats, error)
}

type ViewsStorage interface {
	RecordPageView(ctx context.Context, source domain.ViewSource) error
	PageViewStats(ctx context.Context, recentLimit int) (domain.ViewStats, error)
}

type Views struct {
	storage ViewsStorage
}

func NewViews(storage ViewsStorage) *Views {
	return &Views{storage: storage}
}

// Record appends a view. Empty sources are ignored and failures are only logged.
func (v *Views) Record(ctx context.Context, source domain.ViewSource) {
	source = strings.TrimSpace(source)
	if source == "" {
		return
	}
	if utf8.RuneCountInString(source) > maxSourceLen {
		source = string([]rune(source)[:maxSourceLen])
	}
	if err := v.storage.RecordPageView(ctx, source); err != nil {
		logger.Log.Warn("failed to record page view", "source", source, "error", err)
	}
}

func (v *Views) Stats(ctx context.Context) (domain.ViewStats, error) {
	return v.storage.PageViewStats(ctx, RecentViewsLimit)
}
