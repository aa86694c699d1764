package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/harmonia-ai/harmonia/agent"
)

var cityVenues = map[string][]string{
	"new york":    {"Madison Square Garden", "Radio City Music Hall", "Lincoln Center", "Blue Note Jazz Club", "Brooklyn Steel"},
	"los angeles": {"Hollywood Bowl", "The Greek Theatre", "Walt Disney Concert Hall", "The Troubadour", "The Roxy"},
	"london":      {"Royal Albert Hall", "O2 Arena", "Wembley Stadium", "Ronnie Scott's Jazz Club", "Barbican Centre"},
	"paris":       {"Olympia Hall", "Zenith Paris", "Philharmonie de Paris", "Le Bataclan", "AccorHotels Arena"},
	"tokyo":       {"Budokan", "Tokyo Dome", "Blue Note Tokyo", "Billboard Live", "Suntory Hall"},
	"berlin":      {"Waldbuehne", "Mercedes-Benz Arena", "Philharmonie Berlin", "Berghain", "Tempodrom"},
	"sydney":      {"Sydney Opera House", "Qudos Bank Arena", "Enmore Theatre", "State Theatre", "Metro Theatre"},
	"melbourne":   {"Rod Laver Arena", "Sidney Myer Music Bowl", "Forum Melbourne", "The Corner Hotel", "Hamer Hall"},
}

var genreArtists = map[string][]string{
	"rock":       {"The Rolling Stones", "Foo Fighters", "Arctic Monkeys", "Radiohead", "Queens of the Stone Age"},
	"pop":        {"Taylor Swift", "Dua Lipa", "The Weeknd", "Billie Eilish", "Harry Styles"},
	"jazz":       {"Wynton Marsalis Quartet", "Kamasi Washington", "Norah Jones", "Gregory Porter", "Esperanza Spalding"},
	"classical":  {"Berlin Philharmonic", "London Symphony Orchestra", "Yo-Yo Ma", "Lang Lang", "Vienna Philharmonic"},
	"electronic": {"Daft Punk", "Disclosure", "Four Tet", "Bonobo", "Aphex Twin"},
	"hip hop":    {"Kendrick Lamar", "Tyler, The Creator", "J. Cole", "Anderson .Paak", "Run The Jewels"},
	"indie":      {"Arcade Fire", "Tame Impala", "The National", "Vampire Weekend", "Fleet Foxes"},
}

// FindEvents returns mock music events in the given city and month,
// optionally filtered by genre.
func FindEvents(_ context.Context, args map[string]any) (agent.ToolResult, error) {
	city, _ := args["city"].(string)
	month, _ := args["month"].(string)
	genre, _ := args["genre"].(string)
	if city == "" {
		return nil, fmt.Errorf("city is required")
	}

	parsed, err := time.Parse("January", cases(month))
	if err != nil {
		return nil, fmt.Errorf("invalid month provided")
	}
	monthNum := int(parsed.Month())

	venues, ok := cityVenues[strings.ToLower(city)]
	if !ok {
		venues = cityVenues["new york"]
	}

	genres := make([]string, 0, len(genreArtists))
	if artists, ok := genreArtists[strings.ToLower(genre)]; ok && genre != "" {
		_ = artists
		genres = append(genres, strings.ToLower(genre))
	} else {
		for g := range genreArtists {
			genres = append(genres, g)
		}
	}

	rng := seededRand("events", city, month, genre)
	count := 2 + rng.Intn(4)
	events := make([]map[string]any, 0, count)
	for i := 0; i < count; i++ {
		g := genres[rng.Intn(len(genres))]
		artist := genreArtists[g][rng.Intn(len(genreArtists[g]))]
		events = append(events, map[string]any{
			"name":         artist + " Concert",
			"artist":       artist,
			"venue":        venues[rng.Intn(len(venues))],
			"date":         fmt.Sprintf("2025-%02d-%02d", monthNum, 1+rng.Intn(28)),
			"genre":        cases(g),
			"ticket_price": float64(50+rng.Intn(250)) + 0.50,
		})
	}

	genreLabel := cases(genre)
	if genreLabel == "" {
		genreLabel = "All genres"
	}
	return agent.ToolResult{
		"status": "success",
		"city":   cases(city),
		"month":  cases(month),
		"genre":  genreLabel,
		"events": events,
	}, nil
}

// cases capitalizes the first letter of each word, matching how the mock data
// labels cities and genres.
func cases(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
