package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindEvents(t *testing.T) {
	t.Parallel()
	result, err := FindEvents(context.Background(), map[string]any{
		"city":  "sydney",
		"month": "march",
		"genre": "jazz",
	})
	require.NoError(t, err)
	require.Equal(t, "Sydney", result["city"])
	require.Equal(t, "March", result["month"])
	require.Equal(t, "Jazz", result["genre"])

	events, ok := result["events"].([]map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, events)
	for _, e := range events {
		require.Equal(t, "Jazz", e["genre"])
		require.Regexp(t, `^2025-03-\d{2}$`, e["date"])
		require.NotEmpty(t, e["venue"])
	}
}

func TestFindEventsAllGenresWhenUnfiltered(t *testing.T) {
	t.Parallel()
	result, err := FindEvents(context.Background(), map[string]any{
		"city":  "Melbourne",
		"month": "December",
	})
	require.NoError(t, err)
	require.Equal(t, "All genres", result["genre"])
}

func TestFindEventsValidation(t *testing.T) {
	t.Parallel()
	_, err := FindEvents(context.Background(), map[string]any{"month": "March"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "city is required")

	_, err = FindEvents(context.Background(), map[string]any{"city": "Sydney", "month": "Smarch"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid month")
}

func TestFindEventsUnknownCityFallsBack(t *testing.T) {
	t.Parallel()
	result, err := FindEvents(context.Background(), map[string]any{
		"city":  "Gotham",
		"month": "June",
	})
	require.NoError(t, err)
	events := result["events"].([]map[string]any)
	require.NotEmpty(t, events)
}
