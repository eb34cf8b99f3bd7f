package service

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/voyagen/tvstreams/internal/models"
)

// Search returns the channels whose name contains query, compared after
// NFC normalization and Unicode case folding. A blank query returns
// channels unchanged.
func Search(channels []models.Channel, query string) []models.Channel {
	query = strings.TrimSpace(query)
	if query == "" {
		return channels
	}
	fold := cases.Fold()
	key := func(s string) string { return fold.String(norm.NFC.String(s)) }
	needle := key(query)

	out := make([]models.Channel, 0, len(channels))
	for _, ch := range channels {
		if strings.Contains(key(ch.Name), needle) {
			out = append(out, ch)
		}
	}
	return out
}
