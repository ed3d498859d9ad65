package models

import "time"

// AdminUserRow is the read-only projection of a user as listed on the admin
// dashboard. It is owned and mutated by the server only; the client merely
// displays rows and issues commands referencing UserID.
type AdminUserRow struct {
	UserProfile

	UserID    string    `json:"userId"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// PagedUsers is one server-provided window over the user list. Nothing is
// cached beyond the currently displayed page.
type PagedUsers struct {
	Items []AdminUserRow `json:"items"`
	Total int            `json:"total"`
	Page  int            `json:"page"`
	Size  int            `json:"size"`
}

// AdminStats is the server-computed aggregate snapshot shown on the
// dashboard. It is recomputed remotely on every load; the client never
// derives any of these numbers itself.
type AdminStats struct {
	TotalUsers int `json:"totalUsers"`
	Members    int `json:"members"`
	VoterCards int `json:"voterCards"`
	NonVote    int `json:"nonVote"`
	NonInscrit int `json:"nonInscrit"`
}
