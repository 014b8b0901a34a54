package models

import (
	"fmt"
	"strings"
	"time"
)

// PostResponse is the wire representation of a post as seen by a
// particular viewer. Viewer-dependent flags are resolved here so
// handlers never leak author identity.
type PostResponse struct {
	ID             uint      `json:"id"`
	Nickname       string    `json:"nickname"`
	Content        string    `json:"content"`
	Category       string    `json:"category"`
	Status         string    `json:"status"`
	SympathyCount  int       `json:"sympathy_count"`
	ReplyCount     int       `json:"reply_count"`
	IsResolved     bool      `json:"is_resolved"`
	IsMine         bool      `json:"is_mine"`
	HasSympathized bool      `json:"has_sympathized"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewPostResponse builds the viewer-scoped representation of a post.
// viewerID is zero for anonymous requests.
func NewPostResponse(post *Post, viewerID uint) *PostResponse {
	return &PostResponse{
		ID:             post.ID,
		Nickname:       post.Nickname,
		Content:        post.Content,
		Category:       post.Category,
		Status:         string(post.Status),
		SympathyCount:  post.SympathyCount,
		ReplyCount:     post.ReplyCount,
		IsResolved:     post.Status == PostStatusResolved,
		IsMine:         viewerID != 0 && post.UserID == viewerID,
		HasSympathized: post.Sympathized,
		CreatedAt:      post.CreatedAt,
		UpdatedAt:      post.UpdatedAt,
	}
}

// NewPostResponses maps a page of posts for one viewer.
func NewPostResponses(posts []*Post, viewerID uint) []*PostResponse {
	out := make([]*PostResponse, len(posts))
	for i, p := range posts {
		out[i] = NewPostResponse(p, viewerID)
	}
	return out
}

// ReplyResponse is the wire representation of a reply. Reply authors are
// always rendered under the ID-derived pseudonym, never their profile
// nickname.
type ReplyResponse struct {
	ID           uint      `json:"id"`
	PostID       uint      `json:"post_id"`
	Content      string    `json:"content"`
	IsBest       bool      `json:"is_best"`
	UserNickname string    `json:"user_nickname"`
	IsMine       bool      `json:"is_mine"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewReplyResponse builds the viewer-scoped representation of a reply.
func NewReplyResponse(reply *Reply, viewerID uint) *ReplyResponse {
	return &ReplyResponse{
		ID:           reply.ID,
		PostID:       reply.PostID,
		Content:      reply.Content,
		IsBest:       reply.IsBest,
		UserNickname: fmt.Sprintf("智者#%04d", reply.UserID),
		IsMine:       viewerID != 0 && reply.UserID == viewerID,
		CreatedAt:    reply.CreatedAt,
		UpdatedAt:    reply.UpdatedAt,
	}
}

// NewReplyResponses maps replies for one viewer.
func NewReplyResponses(replies []*Reply, viewerID uint) []*ReplyResponse {
	out := make([]*ReplyResponse, len(replies))
	for i, r := range replies {
		out[i] = NewReplyResponse(r, viewerID)
	}
	return out
}

// UserResponse is the wire representation of an account.
type UserResponse struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Nickname    string    `json:"nickname"`
	TotalPoints int       `json:"total_points"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse builds the wire representation of a user.
func NewUserResponse(user *User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		Nickname:    user.DisplayNickname(),
		TotalPoints: user.TotalPoints,
		CreatedAt:   user.CreatedAt,
	}
}

// ProfileStats summarizes a user's activity for the profile screen.
type ProfileStats struct {
	TotalPosts              int64 `json:"total_posts"`
	ActivePosts             int64 `json:"active_posts"`
	ResolvedPosts           int64 `json:"resolved_posts"`
	TotalReplies            int64 `json:"total_replies"`
	BestReplies             int64 `json:"best_replies"`
	TotalSympathiesGiven    int64 `json:"total_sympathies_given"`
	TotalSympathiesReceived int64 `json:"total_sympathies_received"`
}

// RankingEntry is one row of the points leaderboard. Emails are masked
// before leaving the server.
type RankingEntry struct {
	Rank        int    `json:"rank"`
	ID          uint   `json:"id"`
	Nickname    string `json:"nickname"`
	Email       string `json:"email"`
	TotalPoints int    `json:"total_points"`
}

// MaskEmail hides all but the first two characters of the local part.
func MaskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 0 {
		return email
	}
	local, domain := email[:at], email[at:]
	runes := []rune(local)
	if len(runes) <= 2 {
		return local + "***" + domain
	}
	return string(runes[:2]) + strings.Repeat("*", len(runes)-2) + domain
}

// PaginationMeta describes one page of a listing.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalCount  int64 `json:"total_count"`
	PerPage     int   `json:"per_page"`
}

// NewPaginationMeta computes page counts for a listing. TotalPages is
// at least 1 even when the result set is empty.
func NewPaginationMeta(page, perPage int, total int64) *PaginationMeta {
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		pages = 1
	}
	return &PaginationMeta{
		CurrentPage: page,
		TotalPages:  pages,
		TotalCount:  total,
		PerPage:     perPage,
	}
}
