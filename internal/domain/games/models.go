package games

// Game is a board game as mirrored from the external catalog into a group.
// Only ID and Name are required; the rest is whatever metadata the catalog returned.
type Game struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	URL           string `json:"url,omitempty"`
	ImageURL      string `json:"imageUrl,omitempty"`
	Publisher     string `json:"publisher,omitempty"`
	YearPublished int    `json:"yearPublished,omitempty"`
	MinPlayers    int    `json:"minPlayers,omitempty"`
	MaxPlayers    int    `json:"maxPlayers,omitempty"`
	MinPlaytime   int    `json:"minPlaytime,omitempty"`
	MaxPlaytime   int    `json:"maxPlaytime,omitempty"`
}

// Valid reports whether the game carries the fields a group needs to cache it.
func (g Game) Valid() bool {
	return g.ID != "" && g.Name != ""
}

// Names returns the game names in order.
func Names(list []Game) []string {
	names := make([]string, 0, len(list))
	for _, g := range list {
		names = append(names, g.Name)
	}
	return names
}
