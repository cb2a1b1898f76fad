package boardgameatlas

import "time"

const (
	catalogName        = "boardgameatlas"
	defaultBaseURL     = "https://api.boardgameatlas.com/api"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
)
