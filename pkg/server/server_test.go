package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymatsuda/clubmatch/internal/store"
	"github.com/ymatsuda/clubmatch/pkg/recommend"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.SQLiteStore) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	srv := httptest.NewServer(New(s, recommend.NewEngine(s, 3), 0).Handler())
	t.Cleanup(srv.Close)
	return srv, s
}

func seedFixtures(t *testing.T, s *store.SQLiteStore) {
	t.Helper()
	ctx := context.Background()

	_, err := s.SeedClubs(ctx, []store.ClubSeed{
		{Name: "Kawasaki Frontale", ShortName: "Kawasaki", Division: 1, Location: "Kanagawa"},
		{Name: "Machida Zelvia", ShortName: "Machida", Division: 1, Location: "Tokyo"},
	})
	require.NoError(t, err)

	_, err = s.UpdateClubFeatures(ctx, store.NormalizeKey("Kawasaki Frontale"),
		map[string]float64{"domestic_titles": 1.0})
	require.NoError(t, err)
	_, err = s.UpdateClubFeatures(ctx, store.NormalizeKey("Machida Zelvia"),
		map[string]float64{"domestic_titles": 0.2})
	require.NoError(t, err)

	require.NoError(t, s.ReplaceQuestions(ctx, []store.QuestionSeed{
		{
			ID: 1, Text: "What matters most?", Order: 1,
			Choices: []store.ChoiceSeed{
				{ID: 1, Text: "Silverware", Order: 1, Weights: map[string]float64{"domestic_titles": 1.0}},
				{ID: 2, Text: "Atmosphere", Order: 2, Weights: map[string]float64{"supporter_heat": 1.0}},
			},
		},
	}))
}

func getJSON(t *testing.T, url string) map[string]any {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	body := getJSON(t, srv.URL+"/health")
	assert.Equal(t, "ok", body["status"])
}

func TestClubs(t *testing.T) {
	srv, s := newTestServer(t)
	seedFixtures(t, s)

	body := getJSON(t, srv.URL+"/api/v1/clubs")
	assert.Equal(t, float64(2), body["count"])

	clubs := body["data"].([]any)
	first := clubs[0].(map[string]any)
	assert.Equal(t, "Kawasaki Frontale", first["name"])
	features := first["features"].(map[string]any)
	assert.Equal(t, 1.0, features["domestic_titles"])
}

func TestQuestions(t *testing.T) {
	srv, s := newTestServer(t)
	seedFixtures(t, s)

	body := getJSON(t, srv.URL+"/api/v1/questions")
	assert.Equal(t, float64(1), body["count"])

	question := body["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "What matters most?", question["text"])
	assert.Len(t, question["choices"].([]any), 2)
}

func TestRecommend(t *testing.T) {
	srv, s := newTestServer(t)
	seedFixtures(t, s)

	req := `{"answers":[{"question_id":1,"choice_id":1}]}`
	resp, err := http.Post(srv.URL+"/api/v1/recommend", "application/json", strings.NewReader(req))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data  []recommend.Result `json:"data"`
		Count int                `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	require.Equal(t, 2, body.Count)
	assert.Equal(t, "Kawasaki Frontale", body.Data[0].Club.Name)
	assert.Equal(t, 100.0, body.Data[0].Score)
	assert.Equal(t, "Machida Zelvia", body.Data[1].Club.Name)
	assert.Equal(t, 20.0, body.Data[1].Score)
}

func TestRecommendRejectsBadBody(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/recommend", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/recommend")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
