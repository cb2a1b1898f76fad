package boardgameatlas

import (
	"strings"

	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

func mapGame(g gameResponse) games.Game {
	return games.Game{
		ID:            g.ID,
		Name:          strings.TrimSpace(g.Name),
		Description:   strings.TrimSpace(g.Description),
		URL:           g.URL,
		ImageURL:      g.ImageURL,
		Publisher:     strings.TrimSpace(g.PrimaryPublisher.Name),
		YearPublished: g.YearPublished,
		MinPlayers:    g.MinPlayers,
		MaxPlayers:    g.MaxPlayers,
		MinPlaytime:   g.MinPlaytime,
		MaxPlaytime:   g.MaxPlaytime,
	}
}

// pickGame returns the entry whose id matches; the search endpoint may return extra matches.
func pickGame(list []gameResponse, id string) (gameResponse, bool) {
	for _, g := range list {
		if g.ID == id {
			return g, true
		}
	}
	return gameResponse{}, false
}
