package fixture

import (
	"context"

	"github.com/preston-bernstein/borga-service/internal/catalog"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
)

// Catalog resolves a fixed set of well-known games. Useful for local runs and tests.
type Catalog struct {
	games map[string]games.Game
}

// New creates a fixture catalog seeded with the default games.
func New() *Catalog {
	return NewWithGames(Games()...)
}

// NewWithGames creates a fixture catalog that knows only the given games.
func NewWithGames(list ...games.Game) *Catalog {
	c := &Catalog{games: make(map[string]games.Game, len(list))}
	for _, g := range list {
		c.games[g.ID] = g
	}
	return c
}

// Name identifies the catalog in logs and metrics.
func (c *Catalog) Name() string {
	return "fixture"
}

// Resolve returns the fixture game or catalog.ErrGameNotFound.
func (c *Catalog) Resolve(ctx context.Context, id string) (games.Game, error) {
	if err := ctx.Err(); err != nil {
		return games.Game{}, err
	}
	g, ok := c.games[id]
	if !ok {
		return games.Game{}, catalog.ErrGameNotFound
	}
	return g, nil
}

// Games returns the default fixture games.
func Games() []games.Game {
	return []games.Game{
		{
			ID:            "5H5JS0KLzK",
			Name:          "Wingspan",
			Publisher:     "Stonemaier Games",
			YearPublished: 2019,
			MinPlayers:    1,
			MaxPlayers:    5,
			MinPlaytime:   40,
			MaxPlaytime:   70,
		},
		{
			ID:            "8xos44jY7Q",
			Name:          "Everdell",
			Publisher:     "Starling Games",
			YearPublished: 2018,
			MinPlayers:    1,
			MaxPlayers:    4,
			MinPlaytime:   40,
			MaxPlaytime:   80,
		},
		{
			ID:            "TAAifFP590",
			Name:          "Root",
			Publisher:     "Leder Games",
			YearPublished: 2018,
			MinPlayers:    2,
			MaxPlayers:    4,
			MinPlaytime:   60,
			MaxPlaytime:   90,
		},
		{
			ID:            "OIXt3DmJU0",
			Name:          "Catan",
			Publisher:     "Catan Studio",
			YearPublished: 1995,
			MinPlayers:    3,
			MaxPlayers:    4,
			MinPlaytime:   45,
			MaxPlaytime:   90,
		},
	}
}
