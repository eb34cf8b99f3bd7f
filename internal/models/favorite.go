package models

// Favorite is the persisted record for a channel the user starred.
type Favorite struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	LogoURL   string `json:"logo_url"`
	StreamURL string `json:"stream_url"`
}

// FavoriteFromChannel builds the favorite record for ch.
func FavoriteFromChannel(ch Channel) Favorite {
	return Favorite{
		ID:        ch.ID,
		Name:      ch.Name,
		LogoURL:   ch.LogoURL,
		StreamURL: ch.URL,
	}
}
