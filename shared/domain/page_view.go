package domain

import "time"

type PageView struct {
	Id        PageViewId `json:"id"`
	Source    ViewSource `json:"source"`
	VisitedAt time.Time  `json:"visited_at"`
}

type ViewStats struct {
	Total  int        `json:"total"`
	Recent []PageView `json:"recent"`
}
