package playlist

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/voyagen/tvstreams/internal/models"
)

var (
	lineBreaks = strings.NewReplacer("\r", " ", "\n", " ")
	// Players take the title after the last comma of #EXTINF, so commas
	// in names become U+201A SINGLE LOW-9 QUOTATION MARK.
	titleEscaper = strings.NewReplacer("\r", " ", "\n", " ", ",", "\u201a")
)

// WriteM3U renders channels as an extended M3U playlist. Stream headers
// are emitted as #EXTVLCOPT lines so players can replay them. Channels
// whose URL is not http(s) are left out.
func WriteM3U(w io.Writer, channels []models.Channel) error {
	buf := &bytes.Buffer{}
	buf.WriteString("#EXTM3U\n")
	for _, ch := range channels {
		if !Exportable(ch) {
			continue
		}
		fmt.Fprintf(buf, `#EXTINF:-1 tvg-id="%s" tvg-logo="%s",%s`+"\n",
			attr(ch.ID), attr(ch.LogoURL), titleEscaper.Replace(ch.Name))
		h := ch.StreamHeaders()
		if v := h.Get("Referer"); v != "" {
			buf.WriteString("#EXTVLCOPT:http-referrer=" + lineBreaks.Replace(v) + "\n")
		}
		if v := h.Get("Origin"); v != "" {
			buf.WriteString("#EXTVLCOPT:http-origin=" + lineBreaks.Replace(v) + "\n")
		}
		buf.WriteString(lineBreaks.Replace(ch.URL) + "\n")
	}
	_, err := io.Copy(w, buf)
	return err
}

// Exportable reports whether ch can be written to a playlist: only http
// and https stream URLs are read back by playlist parsers.
func Exportable(ch models.Channel) bool {
	return strings.HasPrefix(ch.URL, "http://") || strings.HasPrefix(ch.URL, "https://")
}

func attr(s string) string {
	return strings.ReplaceAll(lineBreaks.Replace(s), `"`, "'")
}
