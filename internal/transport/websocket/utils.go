package websocket

import (
	"net/url"
	"time"
)

// Backoff - returns min(base * 2^attempt, ceiling).
func Backoff(attempt int, base, ceiling time.Duration) time.Duration {
	delay := base
	for i := 0; i < attempt; i++ {
		if delay >= ceiling {
			return ceiling
		}
		delay *= 2
	}

	return min(delay, ceiling)
}

// BuildURL - builds the socket URL for ticket. A secure base gets wss.
func BuildURL(base *url.URL, path, ticket string) string {
	scheme := "ws"
	if base.Scheme == "https" || base.Scheme == "wss" {
		scheme = "wss"
	}

	target := url.URL{
		Scheme:   scheme,
		Host:     base.Host,
		Path:     path,
		RawQuery: url.Values{"ticket": []string{ticket}}.Encode(),
	}

	return target.String()
}
