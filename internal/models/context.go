package models

// RepoInfo summarizes the repository the query is scoped to.
type RepoInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	Stars         int    `json:"stars"`
	Language      string `json:"language"`
	OpenIssues    int    `json:"open_issues"`
	DefaultBranch string `json:"default_branch"`
}

// IssueRef is an open issue kept after relevance filtering.
type IssueRef struct {
	Number    int      `json:"number"`
	Title     string   `json:"title"`
	State     string   `json:"state"`
	Labels    []string `json:"labels"`
	URL       string   `json:"url"`
	CreatedAt string   `json:"created_at"`
	Comments  int      `json:"comments"`
}

// CommitRef is a commit kept after relevance filtering.
type CommitRef struct {
	SHA         string `json:"sha"`
	FullSHA     string `json:"full_sha"`
	Message     string `json:"message"`
	FullMessage string `json:"full_message"`
	Author      string `json:"author"`
	Date        string `json:"date"`
	URL         string `json:"url"`
}

// TrendingRepo is a cross-repository search hit.
type TrendingRepo struct {
	Name        string `json:"name"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	Language    string `json:"language"`
	URL         string `json:"url"`
}

// RepoContext bundles everything fetched from the issue tracker for one request.
type RepoContext struct {
	RepoInfo RepoInfo       `json:"repo_info"`
	Issues   []IssueRef     `json:"issues"`
	Commits  []CommitRef    `json:"commits"`
	Trending []TrendingRepo `json:"trending"`
}

// Question is a Q&A search result.
type Question struct {
	Title       string   `json:"title"`
	Score       int      `json:"score"`
	Link        string   `json:"link"`
	Answered    bool     `json:"answered"`
	AnswerCount int      `json:"answer_count"`
	Tags        []string `json:"tags"`
}
