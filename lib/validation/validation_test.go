package validation

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppearanceRequest(t *testing.T) {
	req, err := ParseAppearanceRequest([]byte(`{"rating": 5, "episode_id": 2, "guest_id": 3}`))
	require.NoError(t, err)
	assert.Equal(t, &AppearanceRequest{Rating: 5, EpisodeID: 2, GuestID: 3}, req)
}

func TestParseAppearanceRequestKeepsOutOfRangeRating(t *testing.T) {
	// Range checks happen in the model, not here.
	req, err := ParseAppearanceRequest([]byte(`{"rating": 0, "episode_id": 1, "guest_id": 1}`))
	require.NoError(t, err)
	assert.Equal(t, 0, req.Rating)
}

func TestParseAppearanceRequestRejectsBadBodies(t *testing.T) {
	bodies := map[string]string{
		"not json":         `rating=5`,
		"array":            `[]`,
		"missing guest_id": `{"rating": 5, "episode_id": 1}`,
		"string rating":    `{"rating": "5", "episode_id": 1, "guest_id": 1}`,
		"fractional id":    `{"rating": 5, "episode_id": 1.5, "guest_id": 1}`,
		"negative id":      `{"rating": 5, "episode_id": -1, "guest_id": 1}`,
	}
	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAppearanceRequest([]byte(body))
			var serr *SchemaError
			require.True(t, errors.As(err, &serr), "got %v", err)
			assert.NotEmpty(t, serr.Problems)
		})
	}
}

func TestParseID(t *testing.T) {
	cases := map[string]struct {
		id uint
		ok bool
	}{
		"1":   {1, true},
		"42":  {42, true},
		"0":   {0, false},
		"-3":  {0, false},
		"abc": {0, false},
		"":    {0, false},
	}
	for raw, want := range cases {
		id, ok := ParseID(raw)
		assert.Equal(t, want.ok, ok, raw)
		assert.Equal(t, want.id, id, raw)
	}
}

func TestWriteErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrors(w, nil, http.StatusBadRequest)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"errors": []}`, w.Body.String())
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, "Episode not found", http.StatusNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error": "Episode not found"}`, w.Body.String())
}
