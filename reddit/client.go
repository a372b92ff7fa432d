package reddit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL     = "https://oauth.reddit.com"
	defaultAuthBaseURL = "https://www.reddit.com"
	defaultUserAgent   = "reddit-persona/1.0"

	defaultMaxPosts    = 50
	defaultMaxComments = 100

	// Reddit caps listing pages at 100 items.
	maxPageSize = 100
)

// ErrUserNotFound is returned when a profile lookup fails. Suspended,
// deleted, and nonexistent accounts are indistinguishable here.
var ErrUserNotFound = errors.New("user not found or suspended")

// Credentials holds the script-app OAuth credentials.
type Credentials struct {
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	UserAgent    string
}

// Client is a read-only Reddit API client. It authenticates lazily with
// the password grant and caches the bearer token until it expires.
type Client struct {
	creds       Credentials
	httpClient  *http.Client
	baseURL     string
	authBaseURL string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithAuthBaseURL sets a custom token-endpoint base URL (for testing).
func WithAuthBaseURL(u string) Option {
	return func(c *Client) {
		c.authBaseURL = u
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// NewClient creates a Reddit API client.
func NewClient(creds Credentials, opts ...Option) *Client {
	if creds.UserAgent == "" {
		creds.UserAgent = defaultUserAgent
	}
	c := &Client{
		creds:       creds,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		baseURL:     defaultBaseURL,
		authBaseURL: defaultAuthBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type tokenResponse struct {
	AccessToken string  `json:"access_token"`
	TokenType   string  `json:"token_type"`
	ExpiresIn   float64 `json:"expires_in"`
	Error       string  `json:"error"`
}

// token returns a valid access token, requesting a new one when the
// cached token is missing or about to expire.
func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "password")
	form.Set("username", c.creds.Username)
	form.Set("password", c.creds.Password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.authBaseURL+"/api/v1/access_token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(c.creds.ClientID, c.creds.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request access token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tok tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tok); err != nil {
		return "", fmt.Errorf("decode token response: %w", err)
	}
	if tok.Error != "" {
		return "", fmt.Errorf("authentication rejected: %s", tok.Error)
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	c.accessToken = tok.AccessToken
	ttl := time.Duration(tok.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = time.Hour
	}
	// Refresh slightly early so a token never expires mid-request.
	c.tokenExpiry = time.Now().Add(ttl - 30*time.Second)

	return c.accessToken, nil
}

// get performs an authenticated GET against a /user/... endpoint and
// decodes the JSON body into v. A 404 maps to ErrUserNotFound since every
// path this client requests is scoped to a user.
func (c *Client) get(ctx context.Context, path string, query url.Values, v any) error {
	token, err := c.token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "bearer "+token)
	req.Header.Set("User-Agent", c.creds.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrUserNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status for %s: %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

type aboutResponse struct {
	Kind string `json:"kind"`
	Data struct {
		ID               string  `json:"id"`
		Name             string  `json:"name"`
		CreatedUTC       float64 `json:"created_utc"`
		CommentKarma     int     `json:"comment_karma"`
		LinkKarma        int     `json:"link_karma"`
		IsGold           bool    `json:"is_gold"`
		IsMod            bool    `json:"is_mod"`
		HasVerifiedEmail bool    `json:"has_verified_email"`
		IsSuspended      bool    `json:"is_suspended"`
	} `json:"data"`
}

// About fetches a user's profile metadata. Suspended profiles come back
// without an id, so both cases surface as ErrUserNotFound.
func (c *Client) About(ctx context.Context, username string) (*UserInfo, error) {
	var about aboutResponse
	if err := c.get(ctx, "/user/"+url.PathEscape(username)+"/about", nil, &about); err != nil {
		return nil, err
	}

	if about.Data.IsSuspended || about.Data.ID == "" {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, username)
	}

	return &UserInfo{
		Username:         username,
		CreatedUTC:       about.Data.CreatedUTC,
		CommentKarma:     about.Data.CommentKarma,
		LinkKarma:        about.Data.LinkKarma,
		IsGold:           about.Data.IsGold,
		IsMod:            about.Data.IsMod,
		HasVerifiedEmail: about.Data.HasVerifiedEmail,
	}, nil
}

// Listing envelope shared by the submitted and comments endpoints.
type listing struct {
	Kind string `json:"kind"`
	Data struct {
		After    string  `json:"after"`
		Children []thing `json:"children"`
	} `json:"data"`
}

type thing struct {
	Kind string          `json:"kind"`
	Data json.RawMessage `json:"data"`
}

type postThing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	SelfText    string  `json:"selftext"`
	Subreddit   string  `json:"subreddit"`
	Score       int     `json:"score"`
	UpvoteRatio float64 `json:"upvote_ratio"`
	NumComments int     `json:"num_comments"`
	CreatedUTC  float64 `json:"created_utc"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	IsSelf      bool    `json:"is_self"`
}

type commentThing struct {
	ID         string  `json:"id"`
	Body       string  `json:"body"`
	Subreddit  string  `json:"subreddit"`
	Score      int     `json:"score"`
	CreatedUTC float64 `json:"created_utc"`
	Permalink  string  `json:"permalink"`
	ParentID   string  `json:"parent_id"`
}

// Submissions fetches up to limit of the user's newest posts. Items whose
// fields cannot be extracted are skipped and counted, not fatal; the
// second return value is that skip count.
func (c *Client) Submissions(ctx context.Context, username string, limit int) ([]Post, int, error) {
	if limit <= 0 {
		limit = defaultMaxPosts
	}

	var (
		posts   []Post
		skipped int
		after   string
	)
	for len(posts) < limit {
		page, err := c.listingPage(ctx, "/user/"+url.PathEscape(username)+"/submitted", after, limit-len(posts))
		if err != nil {
			return nil, skipped, fmt.Errorf("fetch submissions: %w", err)
		}
		if len(page.Data.Children) == 0 {
			break
		}

		for _, child := range page.Data.Children {
			if len(posts) >= limit {
				break
			}
			p, err := decodePost(child)
			if err != nil {
				skipped++
				slog.Warn("skipping submission item", "username", username, "error", err)
				continue
			}
			posts = append(posts, p)
		}

		after = page.Data.After
		if after == "" {
			break
		}
	}
	return posts, skipped, nil
}

// Comments fetches up to limit of the user's newest comments, with the
// same skip semantics as Submissions.
func (c *Client) Comments(ctx context.Context, username string, limit int) ([]Comment, int, error) {
	if limit <= 0 {
		limit = defaultMaxComments
	}

	var (
		comments []Comment
		skipped  int
		after    string
	)
	for len(comments) < limit {
		page, err := c.listingPage(ctx, "/user/"+url.PathEscape(username)+"/comments", after, limit-len(comments))
		if err != nil {
			return nil, skipped, fmt.Errorf("fetch comments: %w", err)
		}
		if len(page.Data.Children) == 0 {
			break
		}

		for _, child := range page.Data.Children {
			if len(comments) >= limit {
				break
			}
			cm, err := decodeComment(child)
			if err != nil {
				skipped++
				slog.Warn("skipping comment item", "username", username, "error", err)
				continue
			}
			comments = append(comments, cm)
		}

		after = page.Data.After
		if after == "" {
			break
		}
	}
	return comments, skipped, nil
}

func (c *Client) listingPage(ctx context.Context, path, after string, want int) (*listing, error) {
	if want > maxPageSize {
		want = maxPageSize
	}

	q := url.Values{}
	q.Set("sort", "new")
	q.Set("limit", strconv.Itoa(want))
	q.Set("raw_json", "1")
	if after != "" {
		q.Set("after", after)
	}

	var page listing
	if err := c.get(ctx, path, q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func decodePost(t thing) (Post, error) {
	var p postThing
	if err := json.Unmarshal(t.Data, &p); err != nil {
		return Post{}, fmt.Errorf("decode post: %w", err)
	}
	if p.ID == "" {
		return Post{}, fmt.Errorf("post missing id")
	}
	return Post{
		ID:          p.ID,
		Title:       p.Title,
		SelfText:    p.SelfText,
		Subreddit:   p.Subreddit,
		Score:       p.Score,
		UpvoteRatio: p.UpvoteRatio,
		NumComments: p.NumComments,
		CreatedUTC:  p.CreatedUTC,
		URL:         p.URL,
		Permalink:   p.Permalink,
		IsSelf:      p.IsSelf,
	}, nil
}

func decodeComment(t thing) (Comment, error) {
	var cm commentThing
	if err := json.Unmarshal(t.Data, &cm); err != nil {
		return Comment{}, fmt.Errorf("decode comment: %w", err)
	}
	if cm.ID == "" {
		return Comment{}, fmt.Errorf("comment missing id")
	}
	return Comment{
		ID:         cm.ID,
		Body:       cm.Body,
		Subreddit:  cm.Subreddit,
		Score:      cm.Score,
		CreatedUTC: cm.CreatedUTC,
		Permalink:  cm.Permalink,
		ParentID:   cm.ParentID,
	}, nil
}

// CollectUserData assembles the full snapshot for one run: profile
// metadata plus capped, newest-first posts and comments. Caps at or
// below zero fall back to the defaults (50 posts, 100 comments).
// Collection-level failures propagate; per-item failures are skipped.
func (c *Client) CollectUserData(ctx context.Context, username string, maxPosts, maxComments int) (*UserData, error) {
	if maxPosts <= 0 {
		maxPosts = defaultMaxPosts
	}
	if maxComments <= 0 {
		maxComments = defaultMaxComments
	}

	slog.Info("collecting user data", "username", username, "max_posts", maxPosts, "max_comments", maxComments)

	info, err := c.About(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("look up user: %w", err)
	}

	posts, skippedPosts, err := c.Submissions(ctx, username, maxPosts)
	if err != nil {
		return nil, fmt.Errorf("collect posts: %w", err)
	}

	comments, skippedComments, err := c.Comments(ctx, username, maxComments)
	if err != nil {
		return nil, fmt.Errorf("collect comments: %w", err)
	}

	slog.Info("collected user data",
		"username", username,
		"posts", len(posts),
		"comments", len(comments),
		"skipped_posts", skippedPosts,
		"skipped_comments", skippedComments,
	)

	return &UserData{
		User:            info,
		Posts:           posts,
		Comments:        comments,
		SkippedPosts:    skippedPosts,
		SkippedComments: skippedComments,
	}, nil
}
