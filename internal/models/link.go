package models

import (
	"time"

	"github.com/rowjay/spoome-go/dto"
)

const dayFormat = "2006-01-02"

type Link struct {
	ID        string
	ShortCode string
	URL       string
	Password  string
	MaxClicks int
	BlockBots bool
	Emoji     bool
	Expiry    *time.Time
	Created   time.Time
	Clicks    []Click
}

// Click is one redirect through a link. Visitor identifies the client for
// unique counts.
type Click struct {
	Visitor  string
	Browser  string
	OS       string
	Country  string
	Referrer string
	Bot      string
	At       time.Time
}

// Expired reports whether the link stopped redirecting at now.
func (l *Link) Expired(now time.Time) bool {
	if l.MaxClicks > 0 && len(l.Clicks) >= l.MaxClicks {
		return true
	}
	return l.Expiry != nil && !now.Before(*l.Expiry)
}

func (l *Link) ToStats(now time.Time) *dto.StatsResponse {
	created := l.Created.UTC().Format("2006-01-02 15:04:05")
	expired := l.Expired(now)
	blockBots := l.BlockBots

	stats := &dto.StatsResponse{
		ShortCode:      l.ShortCode,
		URL:            l.URL,
		TotalClicks:    len(l.Clicks),
		CreationDate:   &created,
		Expired:        &expired,
		BlockBots:      &blockBots,
		Bots:           map[string]int{},
		Browser:        map[string]int{},
		Country:        map[string]int{},
		Counter:        map[string]int{},
		OSName:         map[string]int{},
		Referrer:       map[string]int{},
		UniqueBrowser:  map[string]int{},
		UniqueCountry:  map[string]int{},
		UniqueCounter:  map[string]int{},
		UniqueOSName:   map[string]int{},
		UniqueReferrer: map[string]int{},
	}
	if l.MaxClicks > 0 {
		maxClicks := l.MaxClicks
		stats.MaxClicks = &maxClicks
	}
	if l.Password != "" {
		password := l.Password
		stats.Password = &password
	}

	seen := make(map[string]bool)
	for _, c := range l.Clicks {
		day := c.At.UTC().Format(dayFormat)
		stats.Counter[day]++
		bump(stats.Browser, c.Browser)
		bump(stats.Country, c.Country)
		bump(stats.OSName, c.OS)
		bump(stats.Referrer, c.Referrer)
		bump(stats.Bots, c.Bot)

		if c.Visitor == "" || !seen[c.Visitor] {
			seen[c.Visitor] = true
			stats.TotalUniqueClicks++
			stats.UniqueCounter[day]++
			bump(stats.UniqueBrowser, c.Browser)
			bump(stats.UniqueCountry, c.Country)
			bump(stats.UniqueOSName, c.OS)
			bump(stats.UniqueReferrer, c.Referrer)
		}
	}

	if n := len(l.Clicks); n > 0 {
		last := l.Clicks[n-1]
		at := last.At.UTC().Format("2006-01-02 15:04:05")
		stats.LastClick = &at
		if last.Browser != "" {
			browser := last.Browser
			stats.LastClickBrowser = &browser
		}
		if last.OS != "" {
			os := last.OS
			stats.LastClickOS = &os
		}
	}
	return stats
}

func bump(m map[string]int, key string) {
	if key != "" {
		m[key]++
	}
}
