package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWordSerialization(t *testing.T) {
	word := Word{Word: "apple", Type: WordTypeObject}

	data, err := json.Marshal(word)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"object"`)

	var decoded Word
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "apple", decoded.Word)
	assert.Equal(t, WordTypeObject, decoded.Type)
}

func TestDaysOperations(t *testing.T) {
	days := NewDays()
	days.AddDay("2024-01-01", 1)
	days.AddDay("2024-01-02", 2)

	assert.Equal(t, uint32(2), days.MaxID())
	assert.NotNil(t, days.FindByDate("2024-01-01"))
	assert.Nil(t, days.FindByDate("2024-01-03"))
}

func TestDaysMaxIDEmpty(t *testing.T) {
	assert.Equal(t, uint32(0), NewDays().MaxID())
}

func TestParseDays(t *testing.T) {
	t.Run("valid index", func(t *testing.T) {
		days, err := ParseDays([]byte(`{"days":[{"date":"2024-01-01","id":1}]}`))
		require.NoError(t, err)
		require.Len(t, days.Days, 1)
		assert.Equal(t, uint32(1), days.Days[0].ID)
	})

	t.Run("missing days field yields empty slice", func(t *testing.T) {
		days, err := ParseDays([]byte(`{}`))
		require.NoError(t, err)
		assert.NotNil(t, days.Days)
		assert.Empty(t, days.Days)
	})

	t.Run("malformed json", func(t *testing.T) {
		_, err := ParseDays([]byte(`{"days": [`))
		assert.Error(t, err)
	})
}

func TestDayJSONShape(t *testing.T) {
	day := Day{
		Date: "2099-01-01",
		ID:   7,
		Challenges: Challenges{
			Easy: Challenge{
				Words:        []Word{{Word: "clock", Type: WordTypeObject}},
				ImagePath:    "images/easy_x.jpg",
				ImageURLJPG:  "https://cdn.test/images/easy_x.jpg",
				ImageURLWebP: "https://cdn.test/images/easy_x.webp",
				Prompt:       "a dream",
			},
		},
	}

	data, err := json.Marshal(day)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Contains(t, raw, "date")
	assert.Contains(t, raw, "id")
	assert.Contains(t, raw, "challenges")

	var challenges map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw["challenges"], &challenges))
	for _, key := range []string{"easy", "medium", "hard", "dreaming"} {
		assert.Contains(t, challenges, key)
	}

	var easy map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(challenges["easy"], &easy))
	for _, key := range []string{"words", "image_path", "image_url_jpg", "image_url_webp", "prompt"} {
		assert.Contains(t, easy, key)
	}
}
