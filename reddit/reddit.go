// Package reddit provides a minimal read-only client for the Reddit OAuth
// API (script-app password grant) and the data model the rest of the
// pipeline consumes.
package reddit

// UserInfo is an immutable snapshot of a user's public profile metadata,
// fetched once per run.
type UserInfo struct {
	Username         string
	CreatedUTC       float64
	CommentKarma     int
	LinkKarma        int
	IsGold           bool
	IsMod            bool
	HasVerifiedEmail bool
}

// Post is a single submission. Timestamps are epoch seconds as returned
// by the API.
type Post struct {
	ID          string
	Title       string
	SelfText    string
	Subreddit   string
	Score       int
	UpvoteRatio float64
	NumComments int
	CreatedUTC  float64
	URL         string
	Permalink   string
	IsSelf      bool
}

// Comment is a single comment.
type Comment struct {
	ID         string
	Body       string
	Subreddit  string
	Score      int
	CreatedUTC float64
	Permalink  string
	ParentID   string
}

// UserData is the collected snapshot for one run: profile metadata plus
// newest-first posts and comments up to the configured caps. The skip
// counters record items dropped because their fields could not be
// extracted; those are logged, never fatal.
type UserData struct {
	User            *UserInfo
	Posts           []Post
	Comments        []Comment
	SkippedPosts    int
	SkippedComments int
}
