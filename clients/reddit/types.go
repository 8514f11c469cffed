package reddit

import (
	"encoding/json"

	"chainbreak/models"
)

// Wire-format envelopes for the subset of the Reddit JSON API the bot uses.

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type listingData struct {
	Children []thing `json:"children"`
	After    string  `json:"after"`
}

type commentData struct {
	ID        string `json:"id"`
	Name      string `json:"name"` // t1_ prefixed
	Body      string `json:"body"`
	Author    string `json:"author"`
	Subreddit string `json:"subreddit"`
	Score     int    `json:"score"`
	LinkID    string `json:"link_id"`   // t3_ prefixed
	ParentID  string `json:"parent_id"` // t1_ or t3_ prefixed
}

type messageData struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Author     string `json:"author"`
	Subreddit  string `json:"subreddit"`
	Type       string `json:"type"`
	WasComment bool   `json:"was_comment"`
	New        bool   `json:"new"`
}

type karmaEntry struct {
	Subreddit    string `json:"sg"`
	CommentKarma int    `json:"comment_karma"`
	LinkKarma    int    `json:"link_karma"`
}

type karmaList struct {
	Kind string       `json:"kind"`
	Data []karmaEntry `json:"data"`
}

type accountData struct {
	Name string `json:"name"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// apiJSONResponse is the envelope returned by write endpoints like
// /api/comment when called with api_type=json.
type apiJSONResponse struct {
	JSON struct {
		Errors [][]any `json:"errors"`
	} `json:"json"`
}

func (c commentData) toModel() models.Comment {
	return models.Comment{
		ID:           c.ID,
		FullID:       c.Name,
		Body:         c.Body,
		Author:       c.Author,
		Subreddit:    c.Subreddit,
		Score:        c.Score,
		LinkFullID:   c.LinkID,
		ParentFullID: c.ParentID,
	}
}
