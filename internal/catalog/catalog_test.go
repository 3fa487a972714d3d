package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsLive(t *testing.T) {
	assert.True(t, IsLive("dsex-prices-historical"))
	assert.True(t, IsLive("dsex-anything"))
	assert.False(t, IsLive("weather-daily"))
	assert.False(t, IsLive(""))
}

func TestFind(t *testing.T) {
	d, ok := Find(LiveSlug)
	require.True(t, ok)
	assert.Equal(t, "DSEX Historical Stock Prices", d.Title)

	_, ok = Find("unknown-slug")
	assert.False(t, ok)
}

func TestFind_Fixture(t *testing.T) {
	d, ok := Find("bd-remittance-monthly")
	require.True(t, ok)
	assert.Len(t, d.Preview, 3)
}

func TestAll_OmitsPreviewAndFields(t *testing.T) {
	list := All()
	require.Len(t, list, 2)
	assert.Equal(t, LiveSlug, list[0].Slug)
}
