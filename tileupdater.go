package rugged

// UpdatableTile is the raw-data sink a TileUpdater fills in (spec §6): an
// updater callback sets the origin, steps, dimensions and elevations, and
// the cache validates and wraps the result into a *Tile.
type UpdatableTile struct {
	MinLatitude  float64
	MinLongitude float64
	LatitudeStep float64
	LongitudeStep float64
	Elevations   [][]float64
}

// SetGeometry configures the tile's lattice; SetElevation(s) or direct
// assignment of Elevations fills in the samples.
func (u *UpdatableTile) SetGeometry(minLat, minLon, latStep, lonStep float64, nLat, nLon int) {
	u.MinLatitude = minLat
	u.MinLongitude = minLon
	u.LatitudeStep = latStep
	u.LongitudeStep = lonStep
	u.Elevations = make([][]float64, nLat)
	for i := range u.Elevations {
		u.Elevations[i] = make([]float64, nLon)
	}
}

func (u *UpdatableTile) SetElevation(i, j int, h float64) {
	u.Elevations[i][j] = h
}

// toTile validates and builds the immutable Tile the cache will keep.
func (u *UpdatableTile) toTile() (*Tile, error) {
	return NewTile(u.MinLatitude, u.MinLongitude, u.LatitudeStep, u.LongitudeStep, u.Elevations)
}

// TileUpdater is the external collaborator of spec §6: given a query point,
// it must deliver a tile covering that point strictly inside the tile (not
// on the boundary). Implementations read real DEM data (GeoTIFF, raster
// store, ...); this module only specifies the callback shape, the same way
// it treats "DEM reader" as out of scope (spec §1 Non-goals).
type TileUpdater interface {
	UpdateTile(latitude, longitude float64, tile *UpdatableTile) error
}

// TileUpdaterFunc adapts a plain function to TileUpdater.
type TileUpdaterFunc func(latitude, longitude float64, tile *UpdatableTile) error

func (f TileUpdaterFunc) UpdateTile(latitude, longitude float64, tile *UpdatableTile) error {
	return f(latitude, longitude, tile)
}
