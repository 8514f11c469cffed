package models

// Mention is a username-mention entry from the bot's inbox feed.
type Mention struct {
	MessageFullID string `json:"message_full_id"` // inbox item ID, used for read-marking
	CommentID     string `json:"comment_id"`      // bare ID of the mentioning comment
	Author        string `json:"author"`
	Subreddit     string `json:"subreddit"`
	New           bool   `json:"new"`
}

// ReplyReason says which capability triggered a reply.
type ReplyReason string

const (
	ReplyReasonChain   ReplyReason = "chain"
	ReplyReasonMention ReplyReason = "mention"
)
