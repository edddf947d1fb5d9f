package empty

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoItems(t *testing.T) {
	msg := NoItems("places")
	assert.Equal(t, "No places found", msg.Title)
	assert.NotEmpty(t, msg.Hints)

	assert.Equal(t, "No items found", NoItems("").Title)
}

func TestFetchFailed(t *testing.T) {
	msg := FetchFailed("places", "Failed to fetch places")
	assert.Equal(t, "Could not load places", msg.Title)
	assert.Equal(t, "Failed to fetch places", msg.Body)
	assert.Contains(t, msg.String(), "Press r to try again")
}
