package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},

		// Full URLs passed through
		{"http://example.com/places", "http://example.com/places"},
		{"https://localhost:3000/places", "https://localhost:3000/places"},
		{"ftp://example.com/places", "ftp://example.com/places"},

		// Localhost variants → http
		{"localhost:3000/places", "http://localhost:3000/places"},
		{"127.0.0.1:3000/places?limit=5", "http://127.0.0.1:3000/places?limit=5"},
		{"[::1]:3000/places", "http://[::1]:3000/places"},
		{"app.localhost/places", "http://app.localhost/places"},

		// Everything else → https
		{"api.example.com/v1/places", "https://api.example.com/v1/places"},
		{"localhost.example.com/places", "https://localhost.example.com/places"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeEndpoint(tt.input))
		})
	}
}

func TestIsLocalhost(t *testing.T) {
	assert.True(t, IsLocalhost("localhost"))
	assert.True(t, IsLocalhost("localhost:8080"))
	assert.True(t, IsLocalhost("foo.localhost"))
	assert.True(t, IsLocalhost("[::1]:3000"))
	assert.False(t, IsLocalhost("example.com"))
	assert.False(t, IsLocalhost("[::2]:3000"))
}

func TestLoadNormalizesEndpoint(t *testing.T) {
	isolate(t)

	cfg, err := Load(FlagOverrides{Endpoint: "localhost:4000/spots"}, nil)
	assert.NoError(t, err)
	assert.Equal(t, "http://localhost:4000/spots", cfg.Endpoint)
}
