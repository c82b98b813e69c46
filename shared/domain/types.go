package domain

import "github.com/lib/pq"

type (
	SubmissionId = string
	PageViewId   = string

	Name    = string
	MsgText = string

	// ImageKey is an opaque object storage key, unique per uploaded file.
	ImageKey  = string
	ImageKeys = pq.StringArray // stored as text[] in postgres, order is display order

	ViewSource = string
)

// VisibilityFilter selects which submissions a query keeps.
type VisibilityFilter string

const (
	VisibilityAll    VisibilityFilter = "all"
	VisibilityPublic VisibilityFilter = "public"
	VisibilityHidden VisibilityFilter = "hidden"
)

// ParseVisibilityFilter maps a user supplied value to a filter. Empty means all.
func ParseVisibilityFilter(s string) (VisibilityFilter, bool) {
	switch VisibilityFilter(s) {
	case "", VisibilityAll:
		return VisibilityAll, true
	case VisibilityPublic:
		return VisibilityPublic, true
	case VisibilityHidden:
		return VisibilityHidden, true
	}
	return "", false
}
