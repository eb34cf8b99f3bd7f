package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voyagen/tvstreams/internal/models"
)

func TestSearch(t *testing.T) {
	channels := []models.Channel{
		{ID: "1", Name: "Kan 11"},
		{ID: "2", Name: "KESHET 12"},
		{ID: "3", Name: "Straße TV"},
		{ID: "4", Name: "Cafe\u0301 Live"},
	}
	ids := func(cs []models.Channel) []string {
		out := []string{}
		for _, c := range cs {
			out = append(out, c.ID)
		}
		return out
	}

	assert.Equal(t, []string{"1", "2", "3", "4"}, ids(Search(channels, "  ")))
	assert.Equal(t, []string{"2"}, ids(Search(channels, "keshet")))
	assert.Equal(t, []string{"1", "2"}, ids(Search(channels, "1")))
	assert.Equal(t, []string{"3"}, ids(Search(channels, "STRASSE")))
	assert.Equal(t, []string{"4"}, ids(Search(channels, "CAFÉ")))
	assert.Empty(t, Search(channels, "bbc"))
}
