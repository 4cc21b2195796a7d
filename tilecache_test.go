package rugged

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatTileUpdater(step float64) TileUpdater {
	return TileUpdaterFunc(func(lat, lon float64, tile *UpdatableTile) error {
		minLat := math.Floor(lat/step) * step
		minLon := math.Floor(lon/step) * step
		tile.SetGeometry(minLat-step, minLon-step, step, step, 4, 4)
		for i := 0; i < 4; i++ {
			for j := 0; j < 4; j++ {
				tile.SetElevation(i, j, 0)
			}
		}
		return nil
	})
}

func Test_TileCache_MissThenHit(t *testing.T) {
	assert := assert.New(t)
	cache, err := NewTileCache(flatTileUpdater(1.0), 4)
	assert.NoError(err)

	_, err = cache.GetTile(0.5, 0.5)
	assert.NoError(err)
	assert.EqualValues(1, cache.Stats.Misses)
	assert.EqualValues(0, cache.Stats.Hits)

	_, err = cache.GetTile(0.5, 0.5)
	assert.NoError(err)
	assert.EqualValues(1, cache.Stats.Hits)
	assert.Equal(1, cache.Len())
}

func Test_TileCache_EvictsWhenFull(t *testing.T) {
	assert := assert.New(t)
	cache, err := NewTileCache(flatTileUpdater(1.0), 2)
	assert.NoError(err)

	_, err = cache.GetTile(0.5, 0.5)
	assert.NoError(err)
	_, err = cache.GetTile(5.5, 5.5)
	assert.NoError(err)
	_, err = cache.GetTile(10.5, 10.5)
	assert.NoError(err)

	assert.LessOrEqual(cache.Len(), 2)
	assert.EqualValues(1, cache.Stats.Evictions)
}

func Test_TileCache_RejectsInvalidConstruction(t *testing.T) {
	assert := assert.New(t)
	_, err := NewTileCache(flatTileUpdater(1.0), 0)
	assert.Error(err)
	_, err = NewTileCache(nil, 4)
	assert.Error(err)
}
