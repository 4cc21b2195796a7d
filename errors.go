package rugged

import "fmt"

// ErrorKind enumerates the typed failure categories of spec.md §7. Each
// kind carries its own positional parameters, formatted lazily in Error()
// so callers that only care about Kind() never pay for string building.
type ErrorKind int

const (
	// Geometric.
	ErrLineOfSightDoesNotReachGround ErrorKind = iota
	ErrLineOfSightNeverCrossesLatitude
	ErrLineOfSightNeverCrossesLongitude
	ErrLineOfSightNeverCrossesAltitude
	ErrDemEntryPointIsBehindSpacecraft

	// Tile domain.
	ErrOutOfTileIndices
	ErrOutOfTileAngles
	ErrEmptyTile
	ErrTileWithoutRequiredNeighborsSelected
	ErrNoDemData

	// Temporal.
	ErrOutOfTimeRange

	// Configuration.
	ErrUninitializedContext
	ErrUnknownSensor

	// Inverse localization.
	ErrGroundPointOutOfColumnRange
	ErrSolverExhausted

	// Atmospheric.
	ErrNoLayerData

	// Internal consistency.
	ErrInternal
)

var errorKindNames = map[ErrorKind]string{
	ErrLineOfSightDoesNotReachGround:        "LINE_OF_SIGHT_DOES_NOT_REACH_GROUND",
	ErrLineOfSightNeverCrossesLatitude:      "LINE_OF_SIGHT_NEVER_CROSSES_LATITUDE",
	ErrLineOfSightNeverCrossesLongitude:     "LINE_OF_SIGHT_NEVER_CROSSES_LONGITUDE",
	ErrLineOfSightNeverCrossesAltitude:      "LINE_OF_SIGHT_NEVER_CROSSES_ALTITUDE",
	ErrDemEntryPointIsBehindSpacecraft:      "DEM_ENTRY_POINT_IS_BEHIND_SPACECRAFT",
	ErrOutOfTileIndices:                     "OUT_OF_TILE_INDICES",
	ErrOutOfTileAngles:                      "OUT_OF_TILE_ANGLES",
	ErrEmptyTile:                            "EMPTY_TILE",
	ErrTileWithoutRequiredNeighborsSelected: "TILE_WITHOUT_REQUIRED_NEIGHBORS_SELECTED",
	ErrNoDemData:                            "NO_DEM_DATA",
	ErrOutOfTimeRange:                       "OUT_OF_TIME_RANGE",
	ErrUninitializedContext:                 "UNINITIALIZED_CONTEXT",
	ErrUnknownSensor:                        "UNKNOWN_SENSOR",
	ErrGroundPointOutOfColumnRange:          "GROUND_POINT_OUT_OF_COLUMN_RANGE",
	ErrSolverExhausted:                      "SOLVER_EXHAUSTED",
	ErrNoLayerData:                          "NO_LAYER_DATA",
	ErrInternal:                             "INTERNAL_ERROR",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return "UNKNOWN_ERROR"
}

// LocalizationError is the single concrete error type of this module. It
// plays the role the teacher split across an int status code and a
// *msg string out-parameter: Kind() is the status, Params() plus Error()
// is the formatted message. Embedding programs that want to localize the
// message can switch on Kind() and ignore Error()'s English rendering.
type LocalizationError struct {
	kind   ErrorKind
	params []any
	format string
}

func newError(kind ErrorKind, format string, params ...any) *LocalizationError {
	return &LocalizationError{kind: kind, params: params, format: format}
}

func (e *LocalizationError) Kind() ErrorKind { return e.kind }
func (e *LocalizationError) Params() []any   { return e.params }

func (e *LocalizationError) Error() string {
	if e.format == "" {
		return e.kind.String()
	}
	return fmt.Sprintf(e.kind.String()+": "+e.format, e.params...)
}

func newInternalError(format string, params ...any) *LocalizationError {
	return newError(ErrInternal, format, params...)
}

// AsLocalizationError reports whether err is a *LocalizationError and
// returns it, the same way callers of the teacher's code switched on the
// returned int status.
func AsLocalizationError(err error) (*LocalizationError, bool) {
	le, ok := err.(*LocalizationError)
	return le, ok
}
