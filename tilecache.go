package rugged

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheStatistics accumulates read-only counters over a TileCache's
// lifetime (hits, misses, evictions), in the spirit of the teacher's
// RtkSvrStreamStat counters on a long-lived server resource.
type CacheStatistics struct {
	Hits      int64
	Misses    int64
	Evictions int64
}

// TileCache is the bounded LRU of DEM tiles of spec §4.3, backed by
// github.com/hashicorp/golang-lru/v2 (see SPEC_FULL.md §1 for why this
// library and not a hand-rolled container/list bookkeeping). Tiles are
// keyed internally by an opaque serial number; geographic lookup is a
// linear scan over the (at most maxCachedTiles) live tiles, since the
// library provides size-bounded LRU eviction but not spatial indexing.
type TileCache struct {
	updater TileUpdater
	lru     *lru.Cache[int, *Tile]
	nextID  int
	Stats   CacheStatistics
}

// NewTileCache builds a cache bounded to maxCachedTiles tiles, fetching
// misses through updater.
func NewTileCache(updater TileUpdater, maxCachedTiles int) (*TileCache, error) {
	if maxCachedTiles <= 0 {
		return nil, newInternalError("maxCachedTiles must be > 0, got %d", maxCachedTiles)
	}
	if updater == nil {
		return nil, newInternalError("tile updater must not be nil")
	}
	c, err := lru.New[int, *Tile](maxCachedTiles)
	if err != nil {
		return nil, newInternalError("failed to build tile cache: %v", err)
	}
	return &TileCache{updater: updater, lru: c}, nil
}

// GetTile returns a tile whose location status for (latitude, longitude) is
// HasInterpolationNeighbors, fetching and inserting on a miss (spec §4.3).
func (c *TileCache) GetTile(latitude, longitude float64) (*Tile, error) {
	for _, key := range c.lru.Keys() {
		tile, ok := c.lru.Peek(key)
		if !ok {
			continue
		}
		if tile.Locate(latitude, longitude) == HasInterpolationNeighbors {
			c.lru.Get(key) // bump recency
			c.Stats.Hits++
			return tile, nil
		}
	}

	c.Stats.Misses++
	updatable := &UpdatableTile{}
	if err := c.updater.UpdateTile(latitude, longitude, updatable); err != nil {
		return nil, err
	}
	tile, err := updatable.toTile()
	if err != nil {
		return nil, err
	}
	if tile.Locate(latitude, longitude) != HasInterpolationNeighbors {
		return nil, newError(ErrTileWithoutRequiredNeighborsSelected,
			"updater delivered a tile that does not cover (%.6f,%.6f) as an interior point", latitude, longitude)
	}

	id := c.nextID
	c.nextID++
	evicted := c.lru.Add(id, tile)
	if evicted {
		c.Stats.Evictions++
	}
	return tile, nil
}

// Len returns the number of tiles currently cached.
func (c *TileCache) Len() int { return c.lru.Len() }
