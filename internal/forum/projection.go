package forum

import (
	"time"

	"github.com/keshan-spec/Discussion-Board-API/internal/models"
)

// Author is the only user projection the views expose.
type Author struct {
	ID     uint   `json:"id"`
	Handle string `json:"handle"`
}

// AuthorOf projects a user row to its public author block.
func AuthorOf(u models.User) Author {
	return Author{ID: u.ID, Handle: u.Handle}
}

// Profile is the public view of an account. Credentials and email never leave through it.
type Profile struct {
	ID        uint   `json:"id"`
	Handle    string `json:"handle"`
	FirstName string `json:"fname"`
	LastName  string `json:"lname"`
}

func ProfileOf(u models.User) Profile {
	return Profile{ID: u.ID, Handle: u.Handle, FirstName: u.FirstName, LastName: u.LastName}
}

// ProfilesOf projects a list of users; it never returns nil.
func ProfilesOf(users []models.User) []Profile {
	out := make([]Profile, len(users))
	for i, u := range users {
		out[i] = ProfileOf(u)
	}
	return out
}

// PostFields are the stored post attributes shared by both views.
type PostFields struct {
	ID                uint      `json:"id"`
	Title             string    `json:"title"`
	Text              string    `json:"text"`
	ContainsProfanity bool      `json:"contains_profanity"`
	IsClosed          bool      `json:"is_closed"`
	CreatedOn         time.Time `json:"created_on"`
}

// VerbosePost is the single-post view with the full comment tree.
type VerbosePost struct {
	PostFields
	HTML     string         `json:"html,omitempty"`
	Author   Author         `json:"author"`
	Upvotes  int64          `json:"upvotes"`
	Comments []*CommentNode `json:"comments"`
}

// SummaryPost is the listing view. It carries counts only.
type SummaryPost struct {
	PostFields
	Author       Author `json:"author"`
	UpvoteCount  int64  `json:"upvote_count"`
	CommentCount int64  `json:"comment_count"`
}

func fieldsOf(p models.Post) PostFields {
	return PostFields{
		ID:                p.ID,
		Title:             p.Title,
		Text:              p.Text,
		ContainsProfanity: p.ContainsProfanity,
		IsClosed:          p.IsClosed,
		CreatedOn:         p.CreatedOn,
	}
}

// Verbose renders the single-post view.
func Verbose(p models.Post, author Author, upvotes int64, comments []*CommentNode) VerbosePost {
	if comments == nil {
		comments = []*CommentNode{}
	}
	return VerbosePost{
		PostFields: fieldsOf(p),
		Author:     author,
		Upvotes:    upvotes,
		Comments:   comments,
	}
}

// Summary renders the listing view.
func Summary(p models.Post, author Author, upvotes, comments int64) SummaryPost {
	return SummaryPost{
		PostFields:   fieldsOf(p),
		Author:       author,
		UpvoteCount:  upvotes,
		CommentCount: comments,
	}
}
