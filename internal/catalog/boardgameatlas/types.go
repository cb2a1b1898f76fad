package boardgameatlas

type searchResponse struct {
	Games []gameResponse `json:"games"`
	Count int            `json:"count"`
}

type gameResponse struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Description      string            `json:"description_preview"`
	URL              string            `json:"url"`
	ImageURL         string            `json:"image_url"`
	YearPublished    int               `json:"year_published"`
	MinPlayers       int               `json:"min_players"`
	MaxPlayers       int               `json:"max_players"`
	MinPlaytime      int               `json:"min_playtime"`
	MaxPlaytime      int               `json:"max_playtime"`
	PrimaryPublisher publisherResponse `json:"primary_publisher"`
}

type publisherResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
