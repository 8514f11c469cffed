package models

// Comment is a read-only view of a single comment delivered by the Reddit
// API. Instances are owned by the client; the bot never mutates them.
type Comment struct {
	ID           string `json:"id"`
	FullID       string `json:"full_id"` // t1_ prefixed thing ID
	Body         string `json:"body"`
	Author       string `json:"author"` // empty when the account is deleted
	Subreddit    string `json:"subreddit"`
	Score        int    `json:"score"`
	LinkFullID   string `json:"link_full_id"`   // t3_ prefixed submission ID
	ParentFullID string `json:"parent_full_id"` // t1_ (comment) or t3_ (submission)
}

// ParentKind tags the three possible shapes of a resolved parent.
type ParentKind string

const (
	// ParentComment means the parent is another comment.
	ParentComment ParentKind = "comment"
	// ParentSubmission means the comment is a top-level reply to the
	// submission itself.
	ParentSubmission ParentKind = "submission"
	// ParentUnresolvable means the parent was deleted, removed, or could
	// not be fetched in a usable shape.
	ParentUnresolvable ParentKind = "unresolvable"
)

// ParentLink is the result of resolving a comment's parent. The tri-state
// is deliberate: chain-length decisions must distinguish "walked up to the
// submission root" from "the thread changed shape under us".
type ParentLink struct {
	Kind    ParentKind
	Comment *Comment // set only when Kind == ParentComment
}

func CommentParent(c *Comment) ParentLink {
	return ParentLink{Kind: ParentComment, Comment: c}
}

func SubmissionParent() ParentLink {
	return ParentLink{Kind: ParentSubmission}
}

func UnresolvableParent() ParentLink {
	return ParentLink{Kind: ParentUnresolvable}
}
