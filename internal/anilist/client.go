// Package anilist is a minimal client for the AniList GraphQL API, covering
// the watch-list pull and the progress-push mutations Mondo needs.
package anilist

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultEndpoint is the fixed AniList GraphQL endpoint.
const DefaultEndpoint = "https://graphql.anilist.co"

// Config holds client settings.
type Config struct {
	Username string
	Token    string // optional for reads, required for mutations
	Endpoint string
	Timeout  time.Duration
}

// Client talks to the AniList GraphQL API.
type Client struct {
	http     *resty.Client
	username string
	token    string
	endpoint string
}

// NewClient creates an AniList client.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	http := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:     http,
		username: cfg.Username,
		token:    cfg.Token,
		endpoint: endpoint,
	}
}

type graphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type graphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphQLError  `json:"errors"`
}

// do posts one GraphQL document and decodes the data payload into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, authed bool, out interface{}) error {
	req := c.http.R().
		SetContext(ctx).
		SetBody(graphQLRequest{Query: query, Variables: variables})

	if authed {
		if c.token == "" {
			return fmt.Errorf("anilist: operation requires an access token")
		}
		req.SetHeader("Authorization", "Bearer "+c.token)
	} else if c.token != "" {
		req.SetHeader("Authorization", "Bearer "+c.token)
	}

	resp, err := req.Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("anilist request failed: %w", err)
	}

	var decoded graphQLResponse
	if err := json.Unmarshal(resp.Body(), &decoded); err != nil {
		return fmt.Errorf("anilist: unable to decode response: %w", err)
	}
	if len(decoded.Errors) > 0 {
		return fmt.Errorf("anilist: %s", decoded.Errors[0].Message)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("anilist: unexpected status %d", resp.StatusCode())
	}

	if out != nil {
		if err := json.Unmarshal(decoded.Data, out); err != nil {
			return fmt.Errorf("anilist: unable to decode data: %w", err)
		}
	}
	return nil
}

const mediaListCollectionQuery = `
query ($username: String) {
  MediaListCollection(userName: $username, type: ANIME) {
    lists {
      name
      entries {
        status
        score
        progress
        updatedAt
        media {
          id
          title {
            english(stylised: false)
            romaji
            native
          }
          synonyms
          episodes
        }
      }
    }
  }
}`

// MediaListCollection pulls the user's full anime list, flattened across
// AniList's per-status lists.
func (c *Client) MediaListCollection(ctx context.Context) ([]ListEntry, error) {
	if c.username == "" {
		return nil, fmt.Errorf("anilist: no username configured")
	}

	var data struct {
		MediaListCollection struct {
			Lists []struct {
				Name    string      `json:"name"`
				Entries []ListEntry `json:"entries"`
			} `json:"lists"`
		} `json:"MediaListCollection"`
	}

	vars := map[string]interface{}{"username": c.username}
	if err := c.do(ctx, mediaListCollectionQuery, vars, false, &data); err != nil {
		return nil, err
	}

	var entries []ListEntry
	for _, list := range data.MediaListCollection.Lists {
		entries = append(entries, list.Entries...)
	}
	return entries, nil
}

const saveProgressMutation = `
mutation ($mediaId: Int, $progress: Int) {
  SaveMediaListEntry(mediaId: $mediaId, progress: $progress) {
    id
    status
  }
}`

// SaveProgress records that the user has watched up to progress episodes.
func (c *Client) SaveProgress(ctx context.Context, mediaID, progress int) error {
	vars := map[string]interface{}{
		"mediaId":  mediaID,
		"progress": progress,
	}
	return c.do(ctx, saveProgressMutation, vars, true, nil)
}

const completeMediaMutation = `
mutation ($mediaId: Int, $progress: Int, $status: MediaListStatus) {
  SaveMediaListEntry(mediaId: $mediaId, progress: $progress, status: $status) {
    id
    status
  }
}`

// CompleteMedia marks a media COMPLETED after its final episode was watched.
func (c *Client) CompleteMedia(ctx context.Context, mediaID, episodes int) error {
	vars := map[string]interface{}{
		"mediaId":  mediaID,
		"progress": episodes,
		"status":   StatusCompleted,
	}
	return c.do(ctx, completeMediaMutation, vars, true, nil)
}

const deleteEntryMutation = `
mutation ($id: Int) {
  DeleteMediaListEntry(id: $id) {
    deleted
  }
}`

// DeleteEntry removes a list entry from AniList.
func (c *Client) DeleteEntry(ctx context.Context, entryID int) error {
	vars := map[string]interface{}{"id": entryID}
	return c.do(ctx, deleteEntryMutation, vars, true, nil)
}
