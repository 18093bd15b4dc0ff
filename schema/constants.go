package schema

// Custom string types for type safety.
type (
	// LineID is the stable identifier of an emission-line group.
	LineID string

	// OutputMode represents the format of the output.
	OutputMode string

	// BackgroundMethod represents how the background is modeled from the sample rows.
	BackgroundMethod string

	// OutcomeStatus represents how processing of a line group ended.
	OutcomeStatus string

	// DatabaseBackend represents the database backend for the run store.
	DatabaseBackend string
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All background methods supported.
const (
	MedianBackground BackgroundMethod = "median" // default
	PolyBackground   BackgroundMethod = "poly"
)

// All group outcomes.
const (
	RetrievedOutcome OutcomeStatus = "retrieved"
	SkippedOutcome   OutcomeStatus = "skipped"
)

// All run store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// File names of the reduced data products.
const (
	ScienceObservationsFile = "science_observations.json.gz"
	FluxCalibrationFile     = "flux_calibration.json.gz"
)

// File names written beneath each line group's save directory.
const (
	ResultsJSONFile          = "results.json"
	ResultsTextFile          = "results.txt"
	FramesParquetFile        = "frames.parquet"
	BackgroundGraphicFile    = "background.png"
	BackgroundImageFile      = "background_image.png"
	SpectrumGraphicFile      = "spectrum.png"
	SummaryChartFile         = "brightness.html"
	DefaultSaveDirectoryName = "brightness"
)

// BrightnessUnit is the unit of every reported brightness.
const BrightnessUnit = "R"

// Retrieval defaults.
const (
	DefaultSeeing     = 1.0  // arcsec
	DefaultYOffset    = 0    // bins
	DefaultTopTrim    = 2    // bins
	DefaultBottomTrim = 2    // bins
	DefaultTolerance  = 0.05 // nm
	DefaultWindow     = 5    // bins
	DefaultPrecision  = 2
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidBackgroundMethods lists all valid background methods.
var ValidBackgroundMethods = map[BackgroundMethod]struct{}{
	MedianBackground: {},
	PolyBackground:   {},
}

// ValidDatabaseBackends lists all valid run store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
