package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mondohq/mondo/internal/anilist"
	"github.com/mondohq/mondo/internal/config"
	"github.com/mondohq/mondo/internal/database"
	"github.com/mondohq/mondo/internal/library"
	"github.com/mondohq/mondo/internal/match"
	"github.com/mondohq/mondo/internal/player"
)

const watchListResponse = `{"data":{"MediaListCollection":{"lists":[
	{"name":"Watching","entries":[
		{"status":"CURRENT","progress":3,"media":{"id":101,"title":{"romaji":"Cool Show"},"episodes":12}}
	]}
]}}}`

type testEnv struct {
	server  *Server
	store   *library.Store
	cache   *database.ListDB
	handler http.Handler
	root    string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	tracker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query string `json:"query"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if bytes.Contains([]byte(req.Query), []byte("SaveMediaListEntry")) {
			w.Write([]byte(`{"data":{"SaveMediaListEntry":{"id":1,"status":"CURRENT"}}}`))
			return
		}
		w.Write([]byte(watchListResponse))
	}))
	t.Cleanup(tracker.Close)

	client := anilist.NewClient(anilist.Config{
		Username: "tester",
		Token:    "secret",
		Endpoint: tracker.URL,
	})

	cache, err := database.OpenPath(filepath.Join(t.TempDir(), "list.db"))
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })

	list := database.NewListStore(client, cache, nil)
	engine := match.NewEngine(list)
	store := library.Open(filepath.Join(t.TempDir(), "anime-files.json"), engine, list, nil)

	cfg := config.DefaultConfig()
	launcher := player.New("true", nil, nil)

	server := NewServer(store, list, client, launcher, cfg, nil, "test")

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Cool Show"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cool Show", "Cool Show - 01.mkv"), []byte("x"), 0644))

	return &testEnv{
		server:  server,
		store:   store,
		cache:   cache,
		handler: server.Handler(),
		root:    root,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "test", body["version"])
}

func TestAddAndListFolders(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/folders", map[string]string{"path": env.root})
	require.Equal(t, http.StatusOK, rec.Code)

	var folders []library.RootFolder
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&folders))
	require.Len(t, folders, 1)
	assert.Equal(t, env.root, folders[0].Path)

	// The subfolder must have been matched against the tracker list.
	require.Len(t, folders[0].SubFolders, 1)
	require.NotNil(t, folders[0].SubFolders[0].ID)
	assert.Equal(t, 101, *folders[0].SubFolders[0].ID)
}

func TestAddFolder_MissingPath(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/folders", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveFolder(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodDelete, "/api/v1/folders", map[string]string{"path": env.root})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, env.store.Folders())
}

func TestMediaFolder(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodGet, "/api/v1/media/101/folder", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, filepath.Join(env.root, "Cool Show"), body["path"])
}

func TestMediaFolder_NotFound(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/media/424242/folder", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMediaFolder_BadID(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/media/abc/folder", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUnassignFolder(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodDelete, "/api/v1/media/101/folder", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "", env.store.FolderByID(101))
}

func TestEpisodePath(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodGet, "/api/v1/media/101/episodes/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, filepath.Join(env.root, "Cool Show", "Cool Show - 01.mkv"), body["path"])
}

func TestEpisodePath_NotFound(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodGet, "/api/v1/media/101/episodes/99", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSync(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	entries, err := env.cache.Watching()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 101, entries[0].MediaID)
}

func TestWatching(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/watching", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []database.Entry
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Cool Show", entries[0].TitleRomaji)
}

func TestProgress(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.server.list.Refresh(context.Background()))

	rec := env.do(t, http.MethodPost, "/api/v1/media/101/progress", map[string]int{"progress": 4})
	require.Equal(t, http.StatusOK, rec.Code)

	entry, err := env.cache.Entry(101)
	require.NoError(t, err)
	assert.Equal(t, 4, entry.Progress)
	assert.Equal(t, anilist.StatusCurrent, entry.Status)
}

func TestProgress_FinalEpisodeCompletes(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.server.list.Refresh(context.Background()))

	rec := env.do(t, http.MethodPost, "/api/v1/media/101/progress", map[string]int{"progress": 12})
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "completed", body["status"])

	entry, err := env.cache.Entry(101)
	require.NoError(t, err)
	assert.Equal(t, anilist.StatusCompleted, entry.Status)
}

func TestProgress_Invalid(t *testing.T) {
	env := setupEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/media/101/progress", map[string]int{"progress": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlay_EpisodeNotFound(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodPost, "/api/v1/media/101/play",
		map[string]string{"episode": "99"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPlay(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, env.store.AddFolder(context.Background(), env.root))

	rec := env.do(t, http.MethodPost, "/api/v1/media/101/play",
		map[string]string{"episode": "1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, filepath.Join(env.root, "Cool Show", "Cool Show - 01.mkv"), body["path"])
}
