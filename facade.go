package rugged

// Config holds every choice spec §6 exposes as configuration: which
// ellipsoid/frame presets to use, the DEM intersection algorithm, cache
// sizing, ephemeris interpolation orders, and the two correction toggles.
// Mirrors the teacher's plain-struct PrcOpt/SolOpt configuration objects
// (options.go) rather than a flags/viper-style parsed config, since spec
// scopes configuration as a minimal external collaborator (SPEC_FULL.md
// §0.3).
type Config struct {
	Ellipsoid                   EllipsoidId
	BodyRotatingFrameId         BodyRotatingFrame
	Algorithm                   AlgorithmId
	MaxCachedTiles              int
	PVInterpolationOrder        int
	AInterpolationOrder         int
	LightTimeCorrection         bool
	AberrationOfLightCorrection bool
}

// Builder assembles a Config with the teacher's NewPrcOpt-style sane
// defaults, then lets the caller override individual fields with a small
// chain of With* calls before Build.
type Builder struct {
	cfg Config
}

// NewBuilder returns a Builder seeded with spec §6's defaults: Duvenhage
// algorithm, WGS84, PV interpolation order 8, attitude interpolation
// order 4, 100-tile cache, both corrections on.
func NewBuilder() *Builder {
	return &Builder{cfg: Config{
		Ellipsoid:                   WGS84,
		BodyRotatingFrameId:         ITRF,
		Algorithm:                   Duvenhage,
		MaxCachedTiles:              100,
		PVInterpolationOrder:        8,
		AInterpolationOrder:         4,
		LightTimeCorrection:         true,
		AberrationOfLightCorrection: true,
	}}
}

func (b *Builder) WithEllipsoid(id EllipsoidId) *Builder           { b.cfg.Ellipsoid = id; return b }
func (b *Builder) WithBodyRotatingFrame(f BodyRotatingFrame) *Builder { b.cfg.BodyRotatingFrameId = f; return b }
func (b *Builder) WithAlgorithm(id AlgorithmId) *Builder           { b.cfg.Algorithm = id; return b }
func (b *Builder) WithMaxCachedTiles(n int) *Builder               { b.cfg.MaxCachedTiles = n; return b }
func (b *Builder) WithPVInterpolationOrder(n int) *Builder         { b.cfg.PVInterpolationOrder = n; return b }
func (b *Builder) WithAInterpolationOrder(n int) *Builder          { b.cfg.AInterpolationOrder = n; return b }
func (b *Builder) WithLightTimeCorrection(on bool) *Builder        { b.cfg.LightTimeCorrection = on; return b }
func (b *Builder) WithAberrationOfLightCorrection(on bool) *Builder {
	b.cfg.AberrationOfLightCorrection = on
	return b
}

func (b *Builder) Build() Config { return b.cfg }

// Rugged is the top-level facade of spec §5: it owns the ellipsoid, the
// spacecraft-to-body geometric pipeline, the sensor registry, the tile
// cache and intersection algorithm, and exposes DirectLocalization and
// InverseLocalization per sensor.
type Rugged struct {
	cfg            Config
	ellipsoid      *ExtendedEllipsoid
	scToInertial   ScToInertialProvider
	inertialToBody InertialToBodyProvider
	algorithm      IntersectionAlgorithm
	cache          *TileCache
	sensors        map[string]*LineSensor
	refraction     *AtmosphericRefraction
}

// NewRugged builds a Rugged context. updater may be nil only if the
// chosen algorithm is IgnoreDemUseEllipsoid (no DEM access needed).
func NewRugged(cfg Config, scToInertial ScToInertialProvider, inertialToBody InertialToBodyProvider, updater TileUpdater) (*Rugged, error) {
	ellipsoid, err := NewExtendedEllipsoid(cfg.Ellipsoid, cfg.BodyRotatingFrameId)
	if err != nil {
		return nil, err
	}
	if scToInertial == nil || inertialToBody == nil {
		return nil, newInternalError("Rugged requires non-nil scToInertial and inertialToBody providers")
	}

	var cache *TileCache
	if cfg.Algorithm != IgnoreDemUseEllipsoid {
		cache, err = NewTileCache(updater, cfg.MaxCachedTiles)
		if err != nil {
			return nil, err
		}
	}
	algorithm, err := NewAlgorithm(cfg.Algorithm, cache)
	if err != nil {
		return nil, err
	}

	return &Rugged{
		cfg:            cfg,
		ellipsoid:      ellipsoid,
		scToInertial:   scToInertial,
		inertialToBody: inertialToBody,
		algorithm:      algorithm,
		cache:          cache,
		sensors:        make(map[string]*LineSensor),
		refraction:     NewAtmosphericRefraction(ellipsoid),
	}, nil
}

// AddSensor registers a sensor under its own name for later lookup by
// DirectLocalization/InverseLocalization.
func (r *Rugged) AddSensor(sensor *LineSensor) {
	r.sensors[sensor.Name] = sensor
}

func (r *Rugged) sensor(name string) (*LineSensor, error) {
	s, ok := r.sensors[name]
	if !ok {
		return nil, newError(ErrUnknownSensor, "no sensor registered under name %q", name)
	}
	return s, nil
}

// Ellipsoid exposes the context's ellipsoid, e.g. for callers building
// ground points to feed InverseLocalization.
func (r *Rugged) Ellipsoid() *ExtendedEllipsoid { return r.ellipsoid }

// CacheStatistics reports tile cache hit/miss/eviction counters (empty if
// the configured algorithm needs no DEM).
func (r *Rugged) CacheStatistics() CacheStatistics {
	if r.cache == nil {
		return CacheStatistics{}
	}
	return r.cache.Stats
}

// DirectLocalization runs spec §4.7 for the named sensor at the given
// (fractional) line, pixel.
func (r *Rugged) DirectLocalization(sensorName string, line, pixel float64, opts ...DirectLocalizationOption) (GeodeticPoint, error) {
	sensor, err := r.sensor(sensorName)
	if err != nil {
		return GeodeticPoint{}, err
	}
	return directLocalization(
		sensor, pixel, line,
		r.scToInertial, r.inertialToBody, r.ellipsoid, r.algorithm,
		r.cfg.LightTimeCorrection, r.cfg.AberrationOfLightCorrection,
		opts...,
	)
}

// InverseLocalization runs spec §4.8 for the named sensor, searching
// lines in [lineMin, lineMax].
func (r *Rugged) InverseLocalization(sensorName string, groundPoint GeodeticPoint, lineMin, lineMax float64) (*SensorPixel, error) {
	sensor, err := r.sensor(sensorName)
	if err != nil {
		return nil, err
	}
	return InverseLocalization(
		sensor, groundPoint, r.ellipsoid,
		r.scToInertial, r.inertialToBody, r.algorithm,
		lineMin, lineMax,
		r.cfg.LightTimeCorrection, r.cfg.AberrationOfLightCorrection,
	)
}
