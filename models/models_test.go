package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAppearanceAcceptsValidRatings(t *testing.T) {
	for r := MinRating; r <= MaxRating; r++ {
		a, err := NewAppearance(r, 1, 2)
		require.NoError(t, err, "rating %d", r)
		assert.Equal(t, r, a.Rating)
		assert.Equal(t, uint(1), a.EpisodeID)
		assert.Equal(t, uint(2), a.GuestID)
	}
}

func TestNewAppearanceRejectsOutOfRange(t *testing.T) {
	for _, r := range []int{-1, 0, 6, 100} {
		a, err := NewAppearance(r, 1, 1)
		assert.Nil(t, a)

		var verr *ValidationError
		require.True(t, errors.As(err, &verr), "rating %d", r)
		assert.Equal(t, "rating", verr.Field)
		assert.Equal(t, "Rating must be between 1 and 5 (inclusive).", verr.Error())
	}
}

func TestSetRatingLeavesValueOnError(t *testing.T) {
	a := &Appearance{Rating: 3}
	require.Error(t, a.SetRating(0))
	assert.Equal(t, 3, a.Rating)

	require.NoError(t, a.SetRating(5))
	assert.Equal(t, 5, a.Rating)
}

func TestBeforeSaveRejectsInvalidRating(t *testing.T) {
	a := &Appearance{Rating: 9}
	assert.Error(t, a.BeforeSave(nil))

	a.Rating = 1
	assert.NoError(t, a.BeforeSave(nil))
}

func fixture() (*Episode, *Guest) {
	ep := &Episode{ID: 1, Date: "1/11/99", Number: 1}
	fox := &Guest{ID: 1, Name: "Michael J. Fox", Occupation: "actor"}
	rock := &Guest{ID: 2, Name: "Chris Rock", Occupation: "Comedian"}

	ep.Appearances = []Appearance{
		{ID: 1, Rating: 4, EpisodeID: 1, GuestID: 1, Guest: fox},
		{ID: 2, Rating: 5, EpisodeID: 1, GuestID: 2, Guest: rock},
		{ID: 3, Rating: 2, EpisodeID: 1, GuestID: 1, Guest: fox},
	}
	fox.Appearances = []Appearance{
		{ID: 1, Rating: 4, EpisodeID: 1, GuestID: 1, Episode: ep},
	}
	return ep, fox
}

func TestEpisodeGuestsFollowsAppearanceOrder(t *testing.T) {
	ep, _ := fixture()

	names := []string{}
	for _, g := range ep.Guests() {
		names = append(names, g.Name)
	}
	assert.Equal(t, []string{"Michael J. Fox", "Chris Rock", "Michael J. Fox"}, names)
}

func TestGuestEpisodes(t *testing.T) {
	_, fox := fixture()

	eps := fox.Episodes()
	require.Len(t, eps, 1)
	assert.Equal(t, 1, eps[0].Number)
}

func TestFlatViewsOmitRelationships(t *testing.T) {
	ep, fox := fixture()

	raw, err := json.Marshal(FlatEpisodes([]Episode{*ep}))
	require.NoError(t, err)
	var episodes []map[string]any
	require.NoError(t, json.Unmarshal(raw, &episodes))
	require.Len(t, episodes, 1)
	assert.NotContains(t, episodes[0], "appearances")
	assert.Equal(t, "1/11/99", episodes[0]["date"])

	raw, err = json.Marshal(FlatGuests([]Guest{*fox}))
	require.NoError(t, err)
	var guests []map[string]any
	require.NoError(t, json.Unmarshal(raw, &guests))
	assert.NotContains(t, guests[0], "appearances")
	assert.Equal(t, "Michael J. Fox", guests[0]["name"])
}

func TestFlatListsAreNeverNull(t *testing.T) {
	raw, err := json.Marshal(FlatEpisodes(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw))
}

func TestEpisodeNestedStopsAtGuest(t *testing.T) {
	ep, _ := fixture()

	raw, err := json.Marshal(ep.Nested())
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	apps, ok := body["appearances"].([]any)
	require.True(t, ok)
	require.Len(t, apps, 3)

	first := apps[0].(map[string]any)
	assert.NotContains(t, first, "episode")
	guest := first["guest"].(map[string]any)
	assert.Equal(t, "Michael J. Fox", guest["name"])
	assert.NotContains(t, guest, "appearances")
}

func TestGuestNestedStopsAtEpisode(t *testing.T) {
	_, fox := fixture()

	raw, err := json.Marshal(fox.Nested())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 1, "name": "Michael J. Fox", "occupation": "actor",
		"appearances": [
			{"id": 1, "rating": 4, "episode_id": 1, "guest_id": 1,
			 "episode": {"id": 1, "date": "1/11/99", "number": 1}}
		]
	}`, string(raw))
}

func TestAppearanceNested(t *testing.T) {
	ep, fox := fixture()
	a := Appearance{ID: 7, Rating: 5, EpisodeID: ep.ID, GuestID: fox.ID, Episode: ep, Guest: fox}

	raw, err := json.Marshal(a.Nested())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 7, "rating": 5, "episode_id": 1, "guest_id": 1,
		"episode": {"id": 1, "date": "1/11/99", "number": 1},
		"guest": {"id": 1, "name": "Michael J. Fox", "occupation": "actor"}
	}`, string(raw))
}

func TestNestedWithoutAppearancesIsEmptyArray(t *testing.T) {
	ep := &Episode{ID: 4, Date: "1/14/99", Number: 4}

	raw, err := json.Marshal(ep.Nested())
	require.NoError(t, err)
	assert.JSONEq(t, `{"id": 4, "date": "1/14/99", "number": 4, "appearances": []}`, string(raw))
}
