package company

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivePlatforms(t *testing.T) {
	all := ActivePlatforms(nil)
	require.Len(t, all, 3)
	assert.Equal(t, "instagram", all[0].ID)
	assert.Equal(t, "tiktok", all[1].ID)
	assert.Equal(t, "youtube", all[2].ID)

	// selection keeps catalog order regardless of request order
	selected := ActivePlatforms([]string{"youtube", "instagram"})
	require.Len(t, selected, 2)
	assert.Equal(t, "instagram", selected[0].ID)
	assert.Equal(t, "youtube", selected[1].ID)

	assert.Empty(t, ActivePlatforms([]string{"myspace"}))
}

func TestPlatformCountRequiresURL(t *testing.T) {
	count := 1200
	c := Company{InstaFollowers: &count}
	insta, ok := PlatformByID("instagram")
	require.True(t, ok)
	// a count without a profile URL is stale data, not a presence
	assert.Equal(t, 0, c.PlatformCount(insta))

	url := "https://instagram.com/acme"
	c.InstaURL = &url
	assert.Equal(t, 1200, c.PlatformCount(insta))
	assert.Equal(t, url, c.PlatformURL(insta))
}
