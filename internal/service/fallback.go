package service

import "github.com/voyagen/tvstreams/internal/models"

// DefaultChannels returns the built-in channel list used when the remote
// directory cannot produce a usable result. Each call returns a new slice.
func DefaultChannels() []models.Channel {
	return []models.Channel{
		{ID: "11", Name: "Kan 11", URL: "https://kan11.media.kan.org.il/hls/live/2024514/2024514/master.m3u8", LogoURL: "kan_11_il"},
		{ID: "12", Name: "Keshet 12", URL: "https://mako-streaming.akamaized.net/stream/hls/live/2033791/k12dvr/index.m3u8", LogoURL: "keshet_12_il"},
		{ID: "13", Name: "Reshet 13", URL: "https://d18b0e6mopany4.cloudfront.net/out/v1/089428c7346a4892a643a539c8713481/index.m3u8", LogoURL: "reshet_13_il"},
		{ID: "14", Name: "Now 14", URL: "https://now14.gostreaming.tv/live-now14/now14-live/playlist.m3u8", LogoURL: "now_14_il"},
		{ID: "99", Name: "Knesset Channel", URL: "https://kneset.gostreaming.tv/p2-kneset/_definst_/myStream/playlist.m3u8", LogoURL: "knesset_channel_il"},
		{ID: "24", Name: "i24 News", URL: "https://bcovlive-a.akamaihd.net/1961355542001/i24news_en@1961355542001_1/chunklist.m3u8", LogoURL: "i24_news_il"},
	}
}
