package fetcher

import (
	"bufio"
	"regexp"
	"strconv"
	"strings"

	"github.com/voyagen/tvstreams/internal/models"
)

const unknownChannelName = "Unknown Channel"

var reTvgLogo = regexp.MustCompile(`tvg-logo="([^"]*)"`)

// ParseM3U parses extended M3U text into channels. Each #EXTINF line sets
// the pending name (text after the last comma) and logo (tvg-logo); the
// next http(s) URL line emits a channel with sequential ids starting at 1.
// Malformed input never fails; it only yields fewer channels.
func ParseM3U(text string) []models.Channel {
	channels := []models.Channel{}
	if strings.TrimSpace(text) == "" {
		return channels
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	// A line can never be longer than the whole text.
	scanner.Buffer(make([]byte, 0, 64*1024), len(text)+1)

	var name, logo *string
	idCounter := 1

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		switch {
		case strings.HasPrefix(line, "#EXTINF:"):
			n := unknownChannelName
			if i := strings.LastIndex(line, ","); i >= 0 {
				n = strings.TrimSpace(line[i+1:])
			}
			name = &n
			logo = nil
			if m := reTvgLogo.FindStringSubmatch(line); len(m) == 2 {
				l := m[1]
				logo = &l
			}
		case line == "" || strings.HasPrefix(line, "#"):
			// blank line or other directive
		default:
			// URL line
			if name == nil || !strings.HasPrefix(line, "http") {
				continue
			}
			if *name != "" {
				ch := models.Channel{
					ID:   strconv.Itoa(idCounter),
					Name: *name,
					URL:  line,
				}
				if logo != nil {
					ch.LogoURL = *logo
				}
				channels = append(channels, ch)
				idCounter++
			}
			name, logo = nil, nil
		}
	}
	return channels
}
