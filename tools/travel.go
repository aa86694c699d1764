package tools

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"time"

	"github.com/harmonia-ai/harmonia/agent"
)

// Mock travel tools. Data is generated pseudo-randomly but seeded from the
// arguments so repeated searches for the same trip return the same results
// within a session transcript.

var airlines = []string{"Qantas", "Air New Zealand", "Jetstar", "Virgin Australia", "Emirates"}

// SearchFlights returns mock return-flight options between two cities.
func SearchFlights(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	origin, _ := args["origin"].(string)
	destination, _ := args["destination"].(string)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}
	dateDepart, _ := args["dateDepart"].(string)
	dateReturn, _ := args["dateReturn"].(string)

	rng := seededRand("flights", origin, destination, dateDepart)
	count := 2 + rng.Intn(3)
	flights := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		carrier := airlines[rng.Intn(len(airlines))]
		flights = append(flights, map[string]any{
			"flight_number": fmt.Sprintf("%s%d", carrierCode(carrier), 100+rng.Intn(900)),
			"carrier":       carrier,
			"origin":        origin,
			"destination":   destination,
			"date_depart":   dateDepart,
			"date_return":   dateReturn,
			"price":         float64(250+rng.Intn(1200)) + 0.99,
			"currency":      "USD",
		})
	}
	return agent.ToolResult{
		"status":      "success",
		"origin":      origin,
		"destination": destination,
		"flights":     flights,
	}, nil
}

// SearchTrains returns mock train journeys between two English cities.
// Runs on the legacy task queue.
func SearchTrains(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	origin, _ := args["origin"].(string)
	destination, _ := args["destination"].(string)
	if origin == "" || destination == "" {
		return nil, fmt.Errorf("origin and destination are required")
	}
	outbound, _ := args["outbound_time"].(string)
	returnTime, _ := args["return_time"].(string)

	rng := seededRand("trains", origin, destination, outbound)
	count := 3 + rng.Intn(3)
	journeys := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		depart := time.Date(2025, 1, 1, 6+rng.Intn(14), 15*rng.Intn(4), 0, 0, time.UTC)
		journeys = append(journeys, map[string]any{
			"id":          fmt.Sprintf("T%d", 100+i),
			"origin":      origin,
			"destination": destination,
			"departure":   depart.Format("15:04"),
			"arrival":     depart.Add(time.Duration(90+rng.Intn(120)) * time.Minute).Format("15:04"),
			"price":       float64(30 + rng.Intn(120)),
			"currency":    "GBP",
		})
	}
	return agent.ToolResult{
		"status":        "success",
		"origin":        origin,
		"destination":   destination,
		"outbound_time": outbound,
		"return_time":   returnTime,
		"journeys":      journeys,
	}, nil
}

// BookTrains books the selected journeys and returns a booking reference.
// Runs on the legacy task queue.
func BookTrains(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	trainIDs, _ := args["train_ids"].(string)
	if trainIDs == "" {
		return nil, fmt.Errorf("train_ids is required")
	}
	ids := strings.Split(trainIDs, ",")
	for i, id := range ids {
		ids[i] = strings.TrimSpace(id)
	}
	rng := seededRand("booking", trainIDs)
	return agent.ToolResult{
		"status":            "success",
		"booked_train_ids":  ids,
		"booking_reference": fmt.Sprintf("TRN-%06d", rng.Intn(1_000_000)),
		"booked_at":         time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// CreateInvoice generates a mock invoice for the conversation total.
func CreateInvoice(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	amount, ok := toFloat(args["amount"])
	if !ok {
		return nil, fmt.Errorf("invalid amount provided, please confirm the amount")
	}
	details, _ := args["tripDetails"].(string)
	if details == "" {
		details = "Service Invoice"
	}
	rng := seededRand("invoice", details, fmt.Sprintf("%.2f", amount))
	reference := fmt.Sprintf("INV-%05d", rng.Intn(100_000))
	return agent.ToolResult{
		"status":        "success",
		"invoiceStatus": "generated",
		"invoiceURL":    "https://pay.example.com/invoice/" + reference,
		"reference":     reference,
		"amount":        amount,
		"description":   details,
	}, nil
}

func carrierCode(carrier string) string {
	words := strings.Fields(carrier)
	code := ""
	for _, w := range words {
		code += strings.ToUpper(w[:1])
	}
	if len(code) < 2 {
		code = strings.ToUpper(carrier[:2])
	}
	return code
}

// seededRand derives a deterministic RNG from the given argument values.
func seededRand(parts ...string) *rand.Rand {
	h := fnv.New64a()
	for _, p := range parts {
		_, _ = h.Write([]byte(strings.ToLower(p)))
	}
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
