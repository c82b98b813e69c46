package domain

import "time"

type Submission struct {
	Id        SubmissionId `json:"id"`
	Name      Name         `json:"name"`
	Message   MsgText      `json:"message"`
	ImageKeys ImageKeys    `json:"image_keys"`
	IsVisible bool         `json:"is_visible"`
	CreatedAt time.Time    `json:"created_at"`
}

type SubmissionCreationData struct {
	Name      Name
	Message   MsgText
	ImageKeys ImageKeys
	IsVisible bool
}

type SubmissionUpdateData struct {
	Id      SubmissionId
	Name    Name
	Message MsgText
}

// ResolvedImage pairs a storage key with its temporary display URL.
// Keeping them together means a dropped URL can never shift the others out of line.
type ResolvedImage struct {
	Key ImageKey `json:"key"`
	URL string   `json:"url"`
}

// SubmissionView is a submission as seen by readers: stored fields plus resolved image links.
type SubmissionView struct {
	Submission
	Images []ResolvedImage `json:"images"`
}

// QueryOptions drive SubmissionQuery. Page is 1-indexed.
type QueryOptions struct {
	TextFilter       string
	VisibilityFilter VisibilityFilter
	Page             int
	PageSize         int
}

type QueryResult struct {
	Items      []SubmissionView
	TotalPages int
}

// SubmissionIntakeData is what an anonymous visitor sends to the wall.
type SubmissionIntakeData struct {
	Name         Name
	Message      MsgText
	CaptchaToken string
	Files        []*PendingFile
}
