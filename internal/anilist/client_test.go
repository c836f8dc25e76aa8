package anilist

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, token string, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(Config{
		Username: "tester",
		Token:    token,
		Endpoint: srv.URL,
	})
}

func TestMediaListCollection(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "tester", req.Variables["username"])
		assert.Contains(t, req.Query, "MediaListCollection")

		w.Write([]byte(`{"data":{"MediaListCollection":{"lists":[
			{"name":"Watching","entries":[
				{"status":"CURRENT","progress":3,"media":{"id":21,"title":{"romaji":"One Piece"},"synonyms":["OP"],"episodes":0}}
			]},
			{"name":"Completed","entries":[
				{"status":"COMPLETED","progress":26,"media":{"id":55,"title":{"romaji":"Finished Show"},"episodes":26}}
			]}
		]}}}`))
	})

	entries, err := client.MediaListCollection(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2, "entries are flattened across lists")

	assert.Equal(t, 21, entries[0].Media.ID)
	assert.Equal(t, StatusCurrent, entries[0].Status)
	assert.Equal(t, []string{"OP"}, entries[0].Media.Synonyms)
	assert.Equal(t, 55, entries[1].Media.ID)
}

func TestMediaListCollection_NoUsername(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.MediaListCollection(context.Background())
	assert.Error(t, err)
}

func TestMediaListCollection_GraphQLError(t *testing.T) {
	client := newTestClient(t, "", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"errors":[{"message":"User not found"}]}`))
	})

	_, err := client.MediaListCollection(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "User not found")
}

func TestSaveProgress(t *testing.T) {
	client := newTestClient(t, "secret-token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))

		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "SaveMediaListEntry")
		assert.EqualValues(t, 21, req.Variables["mediaId"])
		assert.EqualValues(t, 4, req.Variables["progress"])

		w.Write([]byte(`{"data":{"SaveMediaListEntry":{"id":1,"status":"CURRENT"}}}`))
	})

	require.NoError(t, client.SaveProgress(context.Background(), 21, 4))
}

func TestSaveProgress_RequiresToken(t *testing.T) {
	client := NewClient(Config{Username: "tester"})
	err := client.SaveProgress(context.Background(), 21, 4)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token")
}

func TestCompleteMedia(t *testing.T) {
	client := newTestClient(t, "secret-token", func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, StatusCompleted, req.Variables["status"])
		assert.EqualValues(t, 12, req.Variables["progress"])

		w.Write([]byte(`{"data":{"SaveMediaListEntry":{"id":1,"status":"COMPLETED"}}}`))
	})

	require.NoError(t, client.CompleteMedia(context.Background(), 101, 12))
}

func TestDeleteEntry(t *testing.T) {
	client := newTestClient(t, "secret-token", func(w http.ResponseWriter, r *http.Request) {
		var req graphQLRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "DeleteMediaListEntry")

		w.Write([]byte(`{"data":{"DeleteMediaListEntry":{"deleted":true}}}`))
	})

	require.NoError(t, client.DeleteEntry(context.Background(), 7))
}

func TestTitlesAndSynonyms(t *testing.T) {
	media := MediaData{
		Title:    Title{English: "Cool Show", Romaji: "Kakkoii Bangumi", Native: ""},
		Synonyms: []string{"Cool Show", "KB"},
	}

	assert.Equal(t, []string{"Cool Show", "Kakkoii Bangumi", "KB"}, media.TitlesAndSynonyms())
}
