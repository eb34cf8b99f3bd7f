package fetcher

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/voyagen/tvstreams/internal/models"
)

// ParseDirectory parses a JSON channel directory. Two shapes are accepted:
//
//	{"channels": [{"alias", "name", "url", "id", "logoUrl", "referer", "origin"}, ...]}
//	[{"id", "name", "url", "logoUrl", "referer", "origin"}, ...]
//
// Entries without a name or url are dropped. Text matching neither shape
// yields a *ParseError; well-formed JSON with no valid entries yields an
// empty slice.
func ParseDirectory(text string) ([]models.Channel, error) {
	data := []byte(text)
	var errs []error
	for _, s := range directorySchemas {
		res := s.parse(data)
		if res.err == nil {
			return res.channels, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", s.name, res.err))
	}
	return nil, &ParseError{Err: errors.Join(errs...)}
}

func parseChannelsObject(data []byte) schemaResult {
	var root map[string]json.RawMessage
	if err := json.Unmarshal(data, &root); err != nil {
		return fail(err)
	}
	raw, found := root["channels"]
	if !found {
		return fail(errNoChannelsField)
	}
	items, err := decodeArray(raw)
	if err != nil {
		return fail(errNoChannelsField)
	}
	return ok(buildChannels(items, true))
}

func parseBareArray(data []byte) schemaResult {
	items, err := decodeArray(data)
	if err != nil {
		return fail(err)
	}
	return ok(buildChannels(items, false))
}

// decodeArray decodes raw as a JSON array. null and other JSON values are rejected.
func decodeArray(raw []byte) ([]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errNotArray
	}
	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func buildChannels(items []json.RawMessage, useAlias bool) []models.Channel {
	channels := make([]models.Channel, 0, len(items))
	for i, item := range items {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			continue
		}
		name := ""
		if useAlias {
			name, _ = stringField(obj, "alias")
		}
		if name == "" {
			name, _ = stringField(obj, "name")
		}
		name = strings.TrimSpace(name)
		url, _ := stringField(obj, "url")
		id, found := stringField(obj, "id")
		if !found {
			id = strconv.Itoa(i)
		}
		logo, _ := stringField(obj, "logoUrl")
		referer, _ := stringField(obj, "referer")
		origin, _ := stringField(obj, "origin")
		ch := models.Channel{
			ID:      id,
			Name:    name,
			URL:     strings.TrimSpace(url),
			LogoURL: logo,
			Referer: models.OptionalString(referer),
			Origin:  models.OptionalString(origin),
		}
		if !ch.Valid() {
			continue
		}
		channels = append(channels, ch)
	}
	return channels
}

// stringField returns obj[key] when it is present and a JSON string.
// Missing, null and non-string values report found=false.
func stringField(obj map[string]json.RawMessage, key string) (string, bool) {
	raw, present := obj[key]
	if !present {
		return "", false
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
