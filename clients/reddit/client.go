package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"chainbreak/clients"
	"chainbreak/core"
	"chainbreak/models"
)

const (
	tokenURL = "https://www.reddit.com/api/v1/access_token"
	apiBase  = "https://oauth.reddit.com"

	// tokenExpirySlack refreshes the OAuth token slightly before Reddit
	// invalidates it, so no in-flight request races the expiry.
	tokenExpirySlack = time.Minute
)

// Config holds the credentials and tuning knobs for the Reddit client.
type Config struct {
	ClientID          string
	ClientSecret      string
	Username          string
	Password          string
	UserAgent         string
	RequestsPerSecond float64
}

// RedditClient implements the clients.RedditClient interface over Reddit's
// OAuth2 password-grant JSON API. All requests share one rate limiter so the
// three bot loops collectively stay inside Reddit's quota.
type RedditClient struct {
	config     Config
	httpClient *http.Client
	limiter    *rate.Limiter

	tokenMu     sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// NewRedditClient creates a new client with the provided credentials.
func NewRedditClient(config Config) clients.RedditClient {
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 0.8
	}
	return &RedditClient{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Me returns the username of the authenticated bot account.
func (c *RedditClient) Me(ctx context.Context) (string, error) {
	var account accountData
	if err := c.getJSON(ctx, "/api/v1/me", nil, &account); err != nil {
		return "", fmt.Errorf("failed to fetch authenticated account: %w", err)
	}
	return account.Name, nil
}

// ResolveParent fetches the parent of a comment as a tagged ParentLink.
func (c *RedditClient) ResolveParent(
	ctx context.Context,
	comment *models.Comment,
) (models.ParentLink, error) {
	parentID := comment.ParentFullID
	switch {
	case strings.HasPrefix(parentID, "t3_"):
		return models.SubmissionParent(), nil
	case strings.HasPrefix(parentID, "t1_"):
		parent, err := c.fetchThing(ctx, parentID)
		if err != nil {
			return models.ParentLink{}, fmt.Errorf("failed to fetch parent %s: %w", parentID, err)
		}
		if parent == nil {
			return models.UnresolvableParent(), nil
		}
		return models.CommentParent(parent), nil
	default:
		return models.UnresolvableParent(), nil
	}
}

// GetComment fetches a single comment by its bare ID.
func (c *RedditClient) GetComment(ctx context.Context, commentID string) (*models.Comment, error) {
	comment, err := c.fetchThing(ctx, "t1_"+commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comment %s: %w", commentID, err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %s: %w", commentID, core.ErrNotFound)
	}
	return comment, nil
}

// PollMentions returns the unread username mentions from the inbox.
// Other unread message kinds are left untouched.
func (c *RedditClient) PollMentions(ctx context.Context) ([]models.Mention, error) {
	var envelope thing
	query := url.Values{"mark": {"false"}, "limit": {"100"}}
	if err := c.getJSON(ctx, "/message/unread", query, &envelope); err != nil {
		return nil, fmt.Errorf("failed to poll inbox: %w", err)
	}

	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode inbox listing: %w", err)
	}

	var mentions []models.Mention
	for _, child := range listing.Children {
		if child.Kind != "t1" {
			continue
		}
		var message messageData
		if err := json.Unmarshal(child.Data, &message); err != nil {
			return nil, fmt.Errorf("failed to decode inbox entry: %w", err)
		}
		if message.Type != "username_mention" || !message.WasComment {
			continue
		}
		mentions = append(mentions, models.Mention{
			MessageFullID: message.Name,
			CommentID:     message.ID,
			Author:        message.Author,
			Subreddit:     message.Subreddit,
			New:           message.New,
		})
	}
	return mentions, nil
}

// MarkRead marks one inbox entry as read.
func (c *RedditClient) MarkRead(ctx context.Context, mention models.Mention) error {
	form := url.Values{"id": {mention.MessageFullID}}
	if err := c.postForm(ctx, "/api/read_message", form, nil); err != nil {
		return fmt.Errorf("failed to mark mention %s read: %w", mention.MessageFullID, err)
	}
	return nil
}

// PostReply posts a reply under the thing identified by parentFullID.
func (c *RedditClient) PostReply(ctx context.Context, parentFullID, text string) error {
	form := url.Values{
		"api_type": {"json"},
		"thing_id": {parentFullID},
		"text":     {text},
	}
	var response apiJSONResponse
	if err := c.postForm(ctx, "/api/comment", form, &response); err != nil {
		return fmt.Errorf("failed to post reply to %s: %w", parentFullID, err)
	}
	if len(response.JSON.Errors) > 0 {
		return fmt.Errorf("reddit rejected reply to %s: %v", parentFullID, response.JSON.Errors[0])
	}
	return nil
}

// ListOwnRecentComments returns the bot's most recent comments, newest first.
func (c *RedditClient) ListOwnRecentComments(
	ctx context.Context,
	username string,
	limit int,
) ([]models.Comment, error) {
	var envelope thing
	query := url.Values{"limit": {strconv.Itoa(limit)}, "sort": {"new"}}
	path := fmt.Sprintf("/user/%s/comments", url.PathEscape(username))
	if err := c.getJSON(ctx, path, query, &envelope); err != nil {
		return nil, fmt.Errorf("failed to list comments for u/%s: %w", username, err)
	}

	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode comment listing: %w", err)
	}

	var comments []models.Comment
	for _, child := range listing.Children {
		if child.Kind != "t1" {
			continue
		}
		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		comments = append(comments, data.toModel())
	}
	return comments, nil
}

// DeleteComment removes one of the bot's own comments.
func (c *RedditClient) DeleteComment(ctx context.Context, fullID string) error {
	form := url.Values{"id": {fullID}}
	if err := c.postForm(ctx, "/api/del", form, nil); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", fullID, err)
	}
	return nil
}

// KarmaBySubreddit returns the bot's comment karma per subreddit.
func (c *RedditClient) KarmaBySubreddit(ctx context.Context) (map[string]int, error) {
	var list karmaList
	if err := c.getJSON(ctx, "/api/v1/me/karma", nil, &list); err != nil {
		return nil, fmt.Errorf("failed to fetch karma breakdown: %w", err)
	}

	karma := make(map[string]int, len(list.Data))
	for _, entry := range list.Data {
		karma[entry.Subreddit] = entry.CommentKarma
	}
	return karma, nil
}

// RandomSubreddit returns the name of a random subreddit.
func (c *RedditClient) RandomSubreddit(ctx context.Context) (string, error) {
	var envelope thing
	query := url.Values{"limit": {"1"}}
	if err := c.getJSON(ctx, "/r/random/hot", query, &envelope); err != nil {
		return "", fmt.Errorf("failed to fetch random subreddit: %w", err)
	}

	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return "", fmt.Errorf("failed to decode random subreddit listing: %w", err)
	}
	for _, child := range listing.Children {
		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			continue
		}
		if data.Subreddit != "" {
			return data.Subreddit, nil
		}
	}
	return "", fmt.Errorf("random subreddit listing was empty")
}

// fetchThing looks up a single thing via /api/info. A nil result with nil
// error means the thing does not exist or is no longer visible.
func (c *RedditClient) fetchThing(ctx context.Context, fullID string) (*models.Comment, error) {
	var envelope thing
	query := url.Values{"id": {fullID}}
	if err := c.getJSON(ctx, "/api/info", query, &envelope); err != nil {
		return nil, err
	}

	var listing listingData
	if err := json.Unmarshal(envelope.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to decode info listing: %w", err)
	}
	for _, child := range listing.Children {
		if child.Kind != "t1" {
			continue
		}
		var data commentData
		if err := json.Unmarshal(child.Data, &data); err != nil {
			return nil, fmt.Errorf("failed to decode comment: %w", err)
		}
		comment := data.toModel()
		return &comment, nil
	}
	return nil, nil
}

func (c *RedditClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	endpoint := apiBase + path
	if raw := query.Encode(); raw != "" {
		endpoint += "?" + raw
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, out)
}

func (c *RedditClient) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, apiBase+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *RedditClient) do(req *http.Request, out any) error {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return fmt.Errorf("rate limiter wait aborted: %w", err)
	}

	token, err := c.token(req.Context())
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request to %s returned status %d: %s",
			req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", req.URL.Path, err)
	}
	return nil
}

// token returns a valid OAuth token, refreshing it when close to expiry.
func (c *RedditClient) token(ctx context.Context) (string, error) {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	if c.accessToken != "" && time.Until(c.tokenExpiry) > tokenExpirySlack {
		return c.accessToken, nil
	}

	form := url.Values{
		"grant_type": {"password"},
		"username":   {c.config.Username},
		"password":   {c.config.Password},
	}
	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.SetBasicAuth(c.config.ClientID, c.config.ClientSecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request returned status %d", resp.StatusCode)
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response did not include an access token")
	}

	c.accessToken = token.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	log.Printf("✅ Refreshed Reddit OAuth token, valid for %ds", token.ExpiresIn)
	return c.accessToken, nil
}
