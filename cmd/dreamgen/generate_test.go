package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTargetDate(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 0, 0, 0, time.UTC)

	t.Run("defaults to today", func(t *testing.T) {
		target, err := parseTargetDate(nil, now)
		require.NoError(t, err)
		assert.Equal(t, "2026-08-30", target.Format(dateLayout))
	})

	t.Run("accepts explicit date", func(t *testing.T) {
		target, err := parseTargetDate([]string{"2099-01-01"}, now)
		require.NoError(t, err)
		assert.Equal(t, "2099-01-01", target.Format(dateLayout))
	})

	t.Run("rejects malformed dates", func(t *testing.T) {
		for _, arg := range []string{"2099-1-1", "01-01-2099", "2099/01/01", "tomorrow", "2099-13-01"} {
			_, err := parseTargetDate([]string{arg}, now)
			assert.Error(t, err, "input %q", arg)
			assert.ErrorContains(t, err, "expected YYYY-MM-DD")
		}
	})
}
