package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveballot/elect/internal/core/domain"
)

func (app *TestApp) createPosition(t *testing.T, token string, payload map[string]any) *domain.Position {
	t.Helper()

	body, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", app.Server.URL+"/api/positions", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: token})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var position domain.Position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&position))
	return &position
}

func TestCreateAndListPositions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createUserAndToken(t, "admin")

	position := app.createPosition(t, adminToken, map[string]any{
		"title":    "Head Boy",
		"category": "Sports",
		"type":     "Head",
		"candidates": []map[string]string{
			{"name": "Alice", "description": "Team captain"},
			{"name": "Bob"},
		},
	})
	require.Len(t, position.Candidates, 2)
	assert.Equal(t, int64(0), position.Candidates[0].Votes)

	// Listing is public.
	resp, err := app.Client.Get(app.Server.URL + "/api/positions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var positions []domain.Position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&positions))
	require.Len(t, positions, 1)
	assert.Equal(t, position.ID, positions[0].ID)
}

func TestCreatePositionRequiresAdminRole(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, voterToken := app.createUserAndToken(t, "voter")

	body, _ := json.Marshal(map[string]any{
		"title":    "Head Girl",
		"category": "Literary",
		"type":     "Head",
	})
	req, err := http.NewRequest("POST", app.Server.URL+"/api/positions", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: voterToken})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Without a token the request never reaches the service.
	resp, err = app.Client.Post(app.Server.URL+"/api/positions", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAddCandidateAppendsAtEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createUserAndToken(t, "admin")
	position := app.createPosition(t, adminToken, map[string]any{
		"title":      "Deputy Head Girl",
		"category":   "STEM",
		"type":       "Deputy Head",
		"candidates": []map[string]string{{"name": "Carol"}},
	})

	body, _ := json.Marshal(map[string]string{"name": "Dana", "description": "Robotics lead"})
	req, err := http.NewRequest("POST",
		fmt.Sprintf("%s/api/positions/%s/candidates", app.Server.URL, position.ID), bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var updated domain.Position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
	require.Len(t, updated.Candidates, 2)
	assert.Equal(t, "Dana", updated.Candidates[1].Name)
	assert.Equal(t, int64(0), updated.Candidates[1].Votes)
}

func TestDeletePositionHidesItFromListing(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	_, adminToken := app.createUserAndToken(t, "admin")
	position := app.createPosition(t, adminToken, map[string]any{
		"title":      "Head Boy",
		"category":   "Sports",
		"type":       "Head",
		"candidates": []map[string]string{{"name": "Alice"}},
	})

	req, err := http.NewRequest("DELETE",
		fmt.Sprintf("%s/api/positions/%s", app.Server.URL, position.ID), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken})

	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Deleting again still succeeds.
	req, err = http.NewRequest("DELETE",
		fmt.Sprintf("%s/api/positions/%s", app.Server.URL, position.ID), nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: adminToken})
	resp, err = app.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Client.Get(app.Server.URL + "/api/positions")
	require.NoError(t, err)
	defer resp.Body.Close()
	var positions []domain.Position
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&positions))
	assert.Empty(t, positions)
}
