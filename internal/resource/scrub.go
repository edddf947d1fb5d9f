package resource

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameter names redacted before logging.
var sensitiveParams = map[string]bool{
	"access_token":  true,
	"refresh_token": true,
	"token":         true,
	"api_key":       true,
	"apikey":        true,
	"password":      true,
	"secret":        true,
	"client_secret": true,
}

// ScrubURL redacts sensitive query parameters and userinfo from a URL.
func ScrubURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "[unparseable URL]"
	}

	modified := false
	if u.User != nil {
		u.User = url.User("REDACTED")
		modified = true
	}

	query := u.Query()
	for key := range query {
		if sensitiveParams[strings.ToLower(key)] {
			query.Set(key, "REDACTED")
			modified = true
		}
	}

	if !modified {
		return rawURL
	}
	u.RawQuery = query.Encode()
	return u.String()
}
