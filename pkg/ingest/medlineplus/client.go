package medlineplus

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"vytalcare-rag-be/internal/apperror"
)

const defaultBaseURL = "https://connect.medlineplus.gov/service"

// Topic is a single health topic entry returned by MedlinePlus Connect.
type Topic struct {
	Title   string
	Summary string
	Url     string
}

// Client queries the MedlinePlus Connect knowledge service for consumer
// health topics by terminology code.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 8 * time.Second,
		},
	}
}

// NewClientWithBaseURL is used by tests to point the client at a stub server.
func NewClientWithBaseURL(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

// Lookup fetches health topics for a coded concept. A code the service
// does not know yields an empty slice, not an error.
func (c *Client) Lookup(ctx context.Context, code, system string) ([]Topic, error) {
	params := url.Values{}
	params.Set("mainSearchCriteria.v.cs", system)
	params.Set("mainSearchCriteria.v.c", code)
	params.Set("knowledgeResponseType", "application/json")
	params.Set("informationRecipient.languageCode.c", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, apperror.Upstream("building MedlinePlus request: %v", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, apperror.Timeout("MedlinePlus request timed out")
		}
		return nil, apperror.Upstream("calling MedlinePlus: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.Upstream("MedlinePlus returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.Upstream("reading MedlinePlus response: %v", err)
	}

	return parseFeed(body)
}

// The Connect service wraps values inconsistently: some fields arrive as
// plain strings, others as {"_value": "..."} objects, and summaries nest
// arbitrarily. The parse layer below normalizes all of that.

type feedResponse struct {
	Feed struct {
		Entry []feedEntry `json:"entry"`
	} `json:"feed"`
}

type feedEntry struct {
	Title   json.RawMessage `json:"title"`
	Summary json.RawMessage `json:"summary"`
	Link    []struct {
		Href string `json:"href"`
	} `json:"link"`
}

func parseFeed(body []byte) ([]Topic, error) {
	var parsed feedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, apperror.Upstream("decoding MedlinePlus response: %v", err)
	}

	topics := make([]Topic, 0, len(parsed.Feed.Entry))
	for _, entry := range parsed.Feed.Entry {
		t := Topic{
			Title:   stripTags(flattenText(entry.Title)),
			Summary: stripTags(flattenText(entry.Summary)),
		}
		if len(entry.Link) > 0 {
			t.Url = entry.Link[0].Href
		}
		if t.Title == "" && t.Summary == "" {
			continue
		}
		topics = append(topics, t)
	}
	return topics, nil
}

// flattenText collects every string leaf of a value that may be a plain
// string, a {"_value": ...} wrapper, an array, or a deeper object.
func flattenText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return ""
	}
	var parts []string
	collectStrings(v, &parts)
	return strings.TrimSpace(strings.Join(parts, " "))
}

func collectStrings(v interface{}, out *[]string) {
	switch val := v.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			*out = append(*out, s)
		}
	case map[string]interface{}:
		if inner, ok := val["_value"]; ok {
			collectStrings(inner, out)
			return
		}
		for _, inner := range val {
			collectStrings(inner, out)
		}
	case []interface{}:
		for _, inner := range val {
			collectStrings(inner, out)
		}
	}
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

func stripTags(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(s), " ")
}

// DescribeQuery renders the lookup parameters for log lines.
func DescribeQuery(code, system string) string {
	return fmt.Sprintf("code=%s system=%s", code, system)
}
