//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The e2e suite drives a running server over HTTP only; it needs no
// direct database access because every account it touches is created
// fresh through the API.

var (
	baseURL string
	client  = &http.Client{Timeout: 10 * time.Second}
)

func TestMain(m *testing.M) {
	baseURL = os.Getenv("API_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	// Fail fast when the server is not up.
	resp, err := client.Get(baseURL + "/")
	if err != nil {
		panic(fmt.Sprintf("API not reachable at %s: %v", baseURL, err))
	}
	resp.Body.Close()

	os.Exit(m.Run())
}

type authPayload struct {
	ID    string `json:"id"`
	Token string `json:"token"`
}

func registerUser(t *testing.T) authPayload {
	t.Helper()

	body := map[string]string{
		"name":     "E2E User",
		"email":    fmt.Sprintf("e2e-%s@example.com", uuid.NewString()),
		"password": "s3cret!",
	}
	var out authPayload
	doJSON(t, http.MethodPost, "/api/auth/register", "", body, http.StatusCreated, &out)
	require.NotEmpty(t, out.Token)
	return out
}

func doJSON(t *testing.T, method, path, token string, body interface{}, wantStatus int, out interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, baseURL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, wantStatus, resp.StatusCode, "%s %s", method, path)

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

type snapshotPayload struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Entries []struct {
		Name  string          `json:"name"`
		Gross decimal.Decimal `json:"gross"`
		Net   decimal.Decimal `json:"net"`
	} `json:"entries"`
}

type savePayload struct {
	Summary struct {
		Inserted int `json:"inserted"`
		Matched  int `json:"matched"`
	} `json:"summary"`
}

func TestSnapshotLifecycle(t *testing.T) {
	user := registerUser(t)

	// Insert two dates, out of chronological order.
	batch := map[string][]map[string]interface{}{
		"2024-10-17": {{"nome": "Reserva", "bruto": 110, "liquido": 104}},
		"2024-10-16": {{"nome": "Reserva", "bruto": 100, "liquido": 95}},
	}
	var saved savePayload
	doJSON(t, http.MethodPost, "/api/assets", user.Token, batch, http.StatusCreated, &saved)
	assert.Equal(t, 2, saved.Summary.Inserted)
	assert.Equal(t, 0, saved.Summary.Matched)

	// Same batch again: idempotent, everything matched.
	doJSON(t, http.MethodPost, "/api/assets", user.Token, batch, http.StatusCreated, &saved)
	assert.Equal(t, 0, saved.Summary.Inserted)
	assert.Equal(t, 2, saved.Summary.Matched)

	// Replace-not-merge: a new list for an existing date wins wholesale.
	replacement := map[string][]map[string]interface{}{
		"2024-10-16": {{"nome": "Tesouro", "bruto": 500, "liquido": 480}},
	}
	doJSON(t, http.MethodPost, "/api/assets", user.Token, replacement, http.StatusCreated, &saved)
	assert.Equal(t, 1, saved.Summary.Matched)

	var history []snapshotPayload
	doJSON(t, http.MethodGet, "/api/assets", user.Token, nil, http.StatusOK, &history)
	require.Len(t, history, 2)
	assert.Equal(t, "2024-10-16", history[0].Date)
	assert.Equal(t, "2024-10-17", history[1].Date)
	require.Len(t, history[0].Entries, 1)
	assert.Equal(t, "Tesouro", history[0].Entries[0].Name)

	// Delete the older snapshot, then confirm a repeat delete is 404.
	doJSON(t, http.MethodDelete, "/api/assets/"+history[0].ID, user.Token, nil, http.StatusOK, nil)
	doJSON(t, http.MethodDelete, "/api/assets/"+history[0].ID, user.Token, nil, http.StatusNotFound, nil)

	doJSON(t, http.MethodGet, "/api/assets", user.Token, nil, http.StatusOK, &history)
	require.Len(t, history, 1)
}

func TestOwnershipIsolation(t *testing.T) {
	owner := registerUser(t)
	intruder := registerUser(t)

	batch := map[string][]map[string]interface{}{
		"2024-11-01": {{"nome": "Reserva", "bruto": 100, "liquido": 95}},
	}
	doJSON(t, http.MethodPost, "/api/assets", owner.Token, batch, http.StatusCreated, nil)

	var history []snapshotPayload
	doJSON(t, http.MethodGet, "/api/assets", owner.Token, nil, http.StatusOK, &history)
	require.Len(t, history, 1)

	// Another user can neither see nor delete it.
	var foreign []snapshotPayload
	doJSON(t, http.MethodGet, "/api/assets", intruder.Token, nil, http.StatusOK, &foreign)
	assert.Empty(t, foreign)

	doJSON(t, http.MethodDelete, "/api/assets/"+history[0].ID, intruder.Token, nil, http.StatusNotFound, nil)

	// Still there for the owner.
	doJSON(t, http.MethodGet, "/api/assets", owner.Token, nil, http.StatusOK, &history)
	require.Len(t, history, 1)
}

func TestSameDateDifferentUsers(t *testing.T) {
	first := registerUser(t)
	second := registerUser(t)

	batch := map[string][]map[string]interface{}{
		"2024-12-01": {{"nome": "Reserva", "bruto": 100, "liquido": 95}},
	}

	var saved savePayload
	doJSON(t, http.MethodPost, "/api/assets", first.Token, batch, http.StatusCreated, &saved)
	assert.Equal(t, 1, saved.Summary.Inserted)

	// The uniqueness key is (owner, date), so the same date inserts
	// cleanly for a different user.
	doJSON(t, http.MethodPost, "/api/assets", second.Token, batch, http.StatusCreated, &saved)
	assert.Equal(t, 1, saved.Summary.Inserted)
}

func TestReports(t *testing.T) {
	user := registerUser(t)

	batch := map[string][]map[string]interface{}{
		"2024-01-01": {
			{"nome": "Stocks", "bruto": 60, "liquido": 55},
			{"nome": "Bonds", "bruto": 40, "liquido": 38},
		},
		"2024-01-02": {
			{"nome": "Stocks", "bruto": 150, "liquido": 137},
		},
	}
	doJSON(t, http.MethodPost, "/api/assets", user.Token, batch, http.StatusCreated, nil)

	var totals struct {
		Rows []struct {
			TotalGross decimal.Decimal `json:"totalGross"`
		} `json:"rows"`
		InsufficientData bool `json:"insufficientData"`
	}
	doJSON(t, http.MethodGet, "/api/assets/reports/totals", user.Token, nil, http.StatusOK, &totals)
	require.Len(t, totals.Rows, 2)
	assert.False(t, totals.InsufficientData)
	assert.True(t, totals.Rows[0].TotalGross.Equal(decimal.NewFromInt(100)))

	var deltas struct {
		Rows []struct {
			DeltaGross decimal.Decimal `json:"deltaGross"`
		} `json:"rows"`
	}
	doJSON(t, http.MethodGet, "/api/assets/reports/deltas", user.Token, nil, http.StatusOK, &deltas)
	require.Len(t, deltas.Rows, 1)
	assert.True(t, deltas.Rows[0].DeltaGross.Equal(decimal.NewFromInt(50)))

	var categories struct {
		Names []string `json:"names"`
		Rows  []struct {
			Values map[string]struct {
				Gross decimal.Decimal `json:"gross"`
			} `json:"values"`
		} `json:"rows"`
	}
	doJSON(t, http.MethodGet, "/api/assets/reports/categories", user.Token, nil, http.StatusOK, &categories)
	assert.Equal(t, []string{"Bonds", "Stocks"}, categories.Names)
	require.Len(t, categories.Rows, 2)
	assert.NotContains(t, categories.Rows[1].Values, "Bonds")
}

func TestAuthGate(t *testing.T) {
	doJSON(t, http.MethodGet, "/api/assets", "", nil, http.StatusUnauthorized, nil)
	doJSON(t, http.MethodGet, "/api/assets", "bogus-token", nil, http.StatusUnauthorized, nil)
}
