package model

// Post is a piece of content authored by exactly one user.
//
// CreatedAt is a sortable timestamp string (RFC 3339). We keep it as a
// string rather than time.Time because the store sorts on the raw value
// and the feed never does arithmetic on it — parsing would only add a
// failure mode.
type Post struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// FeedPostAuthor is the minimal author projection embedded in feed items.
// Deliberately NOT the full User — the feed needs just enough to render
// an attribution line, and returning less keeps the payload small.
type FeedPostAuthor struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// FeedPost is a post as it appears in a user's feed: the post itself plus
// the author projection.
type FeedPost struct {
	ID        string         `json:"id"`
	Content   string         `json:"content"`
	CreatedAt string         `json:"createdAt"`
	Author    FeedPostAuthor `json:"author"`
}
