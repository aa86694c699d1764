package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchFlightsDeterministicForSameTrip(t *testing.T) {
	t.Parallel()
	args := map[string]any{
		"origin":      "Sydney",
		"destination": "Melbourne",
		"dateDepart":  "2025-04-01",
		"dateReturn":  "2025-04-08",
	}
	first, err := SearchFlights(context.Background(), args)
	require.NoError(t, err)
	second, err := SearchFlights(context.Background(), args)
	require.NoError(t, err)
	require.Equal(t, first["flights"], second["flights"], "same trip must yield the same options")

	flights, ok := first["flights"].([]map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, flights)
	for _, fl := range flights {
		require.Equal(t, "Sydney", fl["origin"])
		require.Equal(t, "Melbourne", fl["destination"])
		require.Equal(t, "USD", fl["currency"])
	}
}

func TestSearchFlightsRequiresCities(t *testing.T) {
	t.Parallel()
	_, err := SearchFlights(context.Background(), map[string]any{"origin": "Sydney"})
	require.Error(t, err)
}

func TestSearchTrains(t *testing.T) {
	t.Parallel()
	result, err := SearchTrains(context.Background(), map[string]any{
		"origin":        "London",
		"destination":   "Manchester",
		"outbound_time": "09:00",
	})
	require.NoError(t, err)
	journeys, ok := result["journeys"].([]map[string]any)
	require.True(t, ok)
	require.GreaterOrEqual(t, len(journeys), 3)
	for _, j := range journeys {
		require.Equal(t, "GBP", j["currency"])
		require.NotEmpty(t, j["departure"])
		require.NotEmpty(t, j["id"])
	}
}

func TestBookTrains(t *testing.T) {
	t.Parallel()
	result, err := BookTrains(context.Background(), map[string]any{"train_ids": "T100, T101"})
	require.NoError(t, err)
	require.Equal(t, []string{"T100", "T101"}, result["booked_train_ids"])
	require.Regexp(t, `^TRN-\d{6}$`, result["booking_reference"])

	_, err = BookTrains(context.Background(), map[string]any{})
	require.Error(t, err)
}

func TestCreateInvoice(t *testing.T) {
	t.Parallel()
	result, err := CreateInvoice(context.Background(), map[string]any{
		"amount":      128.50,
		"tripDetails": "London to Manchester return",
	})
	require.NoError(t, err)
	require.Equal(t, "generated", result["invoiceStatus"])
	require.Equal(t, 128.50, result["amount"])
	require.Regexp(t, `^INV-\d{5}$`, result["reference"])
	require.Contains(t, result["invoiceURL"], result["reference"])

	_, err = CreateInvoice(context.Background(), map[string]any{"amount": "lots"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid amount")
}
