package fetcher

import "github.com/voyagen/tvstreams/internal/models"

// schemaResult is the outcome of trying one directory shape: either the
// channels it produced or the reason the text does not have that shape.
type schemaResult struct {
	channels []models.Channel
	err      error
}

func ok(channels []models.Channel) schemaResult { return schemaResult{channels: channels} }

func fail(err error) schemaResult { return schemaResult{err: err} }

// directorySchemas are tried in order; the first success wins.
var directorySchemas = []struct {
	name  string
	parse func(data []byte) schemaResult
}{
	{name: "channels object", parse: parseChannelsObject},
	{name: "bare array", parse: parseBareArray},
}
