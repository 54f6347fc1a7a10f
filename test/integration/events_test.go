package integration

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liveballot/elect/internal/core/domain"
)

type sseEvent struct {
	Name string
	Data domain.ChangeEvent
}

// readSSEEvents decodes up to n events from the stream, skipping comments.
func readSSEEvents(t *testing.T, r *bufio.Reader, n int) []sseEvent {
	t.Helper()

	var out []sseEvent
	var current sseEvent
	for len(out) < n {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")

		switch {
		case strings.HasPrefix(line, ":"):
		case strings.HasPrefix(line, "event: "):
			current.Name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &current.Data))
		case line == "":
			if current.Name != "" {
				out = append(out, current)
				current = sseEvent{}
			}
		}
	}
	return out
}

func TestEventStreamDeliversChangesInOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	app := setupTestApp(t)
	defer app.Teardown(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", app.Server.URL+"/api/events", nil)
	require.NoError(t, err)
	resp, err := app.Client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)

	_, adminToken := app.createUserAndToken(t, "admin")
	position := app.createPosition(t, adminToken, map[string]any{
		"title":      "Head Boy",
		"category":   "Sports",
		"type":       "Head",
		"candidates": []map[string]string{{"name": "Alice"}, {"name": "Bob"}},
	})

	_, token := app.createUserAndToken(t, "voter")
	voteResp := app.castVote(t, token, position.ID, 0)
	voteResp.Body.Close()
	require.Equal(t, http.StatusCreated, voteResp.StatusCode)

	events := readSSEEvents(t, reader, 2)

	assert.Equal(t, string(domain.EventPositionCreated), events[0].Name)
	assert.Equal(t, position.ID, events[0].Data.PositionID)

	assert.Equal(t, string(domain.EventVoteRecorded), events[1].Name)
	assert.Equal(t, position.ID, events[1].Data.PositionID)
	assert.Equal(t, int64(1), events[1].Data.NewTally)
	require.NotNil(t, events[1].Data.Position)
	assert.Equal(t, int64(1), events[1].Data.Position.Candidates[0].Votes)
}
