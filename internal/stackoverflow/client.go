// Package stackoverflow queries the Stack Exchange search API for highly
// voted questions matching a profile's search terms.
package stackoverflow

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"codewhisper/internal/models"
)

const searchTimeout = 10 * time.Second

// Client talks to the Stack Exchange REST API. No credential is required.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// New creates a Stack Overflow search client.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: searchTimeout},
	}
}

type searchResult struct {
	Items []struct {
		Title       string   `json:"title"`
		Score       int      `json:"score"`
		Link        string   `json:"link"`
		IsAnswered  bool     `json:"is_answered"`
		AnswerCount int      `json:"answer_count"`
		Tags        []string `json:"tags"`
	} `json:"items"`
}

// Search returns the top 5 questions by votes matching the given terms.
func (c *Client) Search(ctx context.Context, terms string) ([]models.Question, error) {
	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	q := url.Values{}
	q.Set("order", "desc")
	q.Set("sort", "votes")
	q.Set("q", terms)
	q.Set("site", "stackoverflow")
	q.Set("pagesize", "5")
	q.Set("filter", "withbody")

	fullURL := c.baseURL + "/2.3/search/advanced?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("stackexchange: search returned %d: %s", resp.StatusCode, body)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	questions := make([]models.Question, 0, len(result.Items))
	for _, item := range result.Items {
		questions = append(questions, models.Question{
			Title:       item.Title,
			Score:       item.Score,
			Link:        item.Link,
			Answered:    item.IsAnswered,
			AnswerCount: item.AnswerCount,
			Tags:        item.Tags,
		})
	}
	return questions, nil
}
