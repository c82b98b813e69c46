package pg

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/itchan-dev/wall/shared/domain"
)

func (s *Storage) RecordPageView(ctx context.Context, source domain.ViewSource) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO page_views (id, source) VALUES ($1, $2)`, uuid.NewString(), source)
	if err != nil {
		return fmt.Errorf("failed to insert page view: %w", err)
	}
	return nil
}

// PageViewStats returns the total count and the most recent views, newest first.
func (s *Storage) PageViewStats(ctx context.Context, recentLimit int) (domain.ViewStats, error) {
	stats := domain.ViewStats{Recent: []domain.PageView{}}

	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM page_views`).Scan(&stats.Total); err != nil {
		return domain.ViewStats{}, fmt.Errorf("failed to count page views: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, source, visited_at FROM page_views ORDER BY visited_at DESC, id DESC LIMIT $1`, recentLimit)
	if err != nil {
		return domain.ViewStats{}, fmt.Errorf("failed to list page views: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v domain.PageView
		if err := rows.Scan(&v.Id, &v.Source, &v.VisitedAt); err != nil {
			return domain.ViewStats{}, fmt.Errorf("failed to scan page view: %w", err)
		}
		stats.Recent = append(stats.Recent, v)
	}
	if err := rows.Err(); err != nil {
		return domain.ViewStats{}, fmt.Errorf("failed to iterate page views: %w", err)
	}
	return stats, nil
}
