package models

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalUnits(t *testing.T) {
	anime := MediaRef{Type: MediaTypeAnime, Episodes: 12, Chapters: 99}
	manga := MediaRef{Type: MediaTypeManga, Episodes: 12, Chapters: 99}
	unknown := MediaRef{Type: MediaTypeAnime}

	assert.Equal(t, 12, anime.TotalUnits())
	assert.Equal(t, 99, manga.TotalUnits())
	assert.Equal(t, 0, unknown.TotalUnits())
}

func TestTitleDisplay(t *testing.T) {
	assert.Equal(t, "Frieren", MediaTitle{Romaji: "Sousou no Frieren", English: "Frieren"}.Display())
	assert.Equal(t, "Sousou no Frieren", MediaTitle{Romaji: "Sousou no Frieren"}.Display())
}

func TestStatusIndex(t *testing.T) {
	entries := []ListEntry{
		{ID: 1, Media: MediaRef{ID: 10}, Status: StatusCurrent},
		{ID: 2, Media: MediaRef{ID: 20}, Status: StatusDropped},
		{ID: 3, Media: MediaRef{ID: 30}, Status: StatusCompleted},
	}

	idx := NewStatusIndex(entries)
	assert.Equal(t, 3, idx.Len())

	s, ok := idx.Lookup(20)
	assert.True(t, ok)
	assert.Equal(t, StatusDropped, s)

	_, ok = idx.Lookup(99)
	assert.False(t, ok)

	assert.True(t, idx.Highlighted(10))
	assert.True(t, idx.Highlighted(30))
	assert.False(t, idx.Highlighted(20))
	assert.False(t, idx.Highlighted(99))
}

func TestStatusIndexZeroValue(t *testing.T) {
	var idx StatusIndex
	_, ok := idx.Lookup(1)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Len())
}

func TestSeasonalRank(t *testing.T) {
	d := MediaDetails{
		Season:     SeasonFall,
		SeasonYear: 2023,
		Rankings: []Ranking{
			{ID: 1, Rank: 3, Type: "POPULAR", Season: SeasonFall, Year: 2023},
			{ID: 2, Rank: 1, Type: "RATED", Season: SeasonFall, Year: 2023},
			{ID: 3, Rank: 9, Type: "RATED", AllTime: true},
		},
	}
	r := d.SeasonalRank()
	require.NotNil(t, r)
	assert.Equal(t, 2, r.ID)

	d.Rankings = d.Rankings[:1]
	r = d.SeasonalRank()
	require.NotNil(t, r)
	assert.Equal(t, 1, r.ID)

	assert.Nil(t, MediaDetails{}.SeasonalRank())
}

func TestStatusValid(t *testing.T) {
	for _, s := range ListStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ListStatus("WATCHING").Valid())
	assert.True(t, SeasonSpring.Valid())
	assert.False(t, Season("AUTUMN").Valid())
}

func TestCredentials(t *testing.T) {
	db, err := NewDatabase(filepath.Join(t.TempDir(), "credentials.db"))
	require.NoError(t, err)
	defer db.Close()

	_, err = db.GetCredential("token")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	require.NoError(t, db.SetCredential("token", "abc"))
	v, err := db.GetCredential("token")
	require.NoError(t, err)
	assert.Equal(t, "abc", v)

	require.NoError(t, db.SetCredential("token", "def"))
	v, err = db.GetCredential("token")
	require.NoError(t, err)
	assert.Equal(t, "def", v)

	require.NoError(t, db.DeleteCredential("token"))
	_, err = db.GetCredential("token")
	assert.ErrorIs(t, err, ErrCredentialNotFound)

	assert.NoError(t, db.DeleteCredential("token"))
}
