package contract

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/aurora/schema"
)

// Bounds for configuration values.
const (
	MaxTrim      = 1024
	MaxWindow    = 4096
	MaxPrecision = 6
)

// Config holds the runtime configuration for a retrieval.
// This struct remains the "final, validated" config.
type Config struct {
	DataPath   string
	SavePath   string
	Seeing     float64 // arcsec added to the target radius
	YOffset    int     // aperture offset from the order center, in bins
	TopTrim    int
	BottomTrim int
	Extended   bool
	Background schema.BackgroundMethod
	Tolerance  float64 // nm
	Window     int     // bins either side of the outermost target column
	NoPlots    bool

	// Exclusions maps a line group to the zero-based frame indices left out of its average
	Exclusions map[schema.LineID][]int

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)

	ResultsBackend   schema.DatabaseBackend
	ResultsDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored labels in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	OutputFile       string `mapstructure:"output-file"`
	Output           string `mapstructure:"output"`
	Precision        int    `mapstructure:"precision"`
	Width            int    `mapstructure:"width"`
	ResultsBackend   string `mapstructure:"results-backend"`
	ResultsDBConnect string `mapstructure:"results-db-connect"`
	Color            string `mapstructure:"color"`

	// --- Fields from retrieveCmd.Flags() ---
	SavePath   string  `mapstructure:"save-path"`
	Seeing     float64 `mapstructure:"seeing"`
	YOffset    int     `mapstructure:"y-offset"`
	TopTrim    int     `mapstructure:"top-trim"`
	BottomTrim int     `mapstructure:"bottom-trim"`
	Extended   bool    `mapstructure:"extended"`
	Background string  `mapstructure:"background"`
	Tolerance  float64 `mapstructure:"tolerance"`
	Window     int     `mapstructure:"window"`
	NoPlots    bool    `mapstructure:"no-plots"`
	Exclude    string  `mapstructure:"exclude"`

	// --- Frame exclusions from config file ---
	Exclusions []ExclusionRawInput `mapstructure:"exclusions"`
}

// ExclusionRawInput is one exclusion entry from the YAML config file.
// Line is a line ID ("OI-630.0") or a rounded wavelength label ("630.0").
type ExclusionRawInput struct {
	Line   string `mapstructure:"line"`
	Frames []int  `mapstructure:"frames"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Exclusions != nil {
		clone.Exclusions = make(map[schema.LineID][]int, len(c.Exclusions))
		for id, frames := range c.Exclusions {
			clone.Exclusions[id] = append([]int(nil), frames...)
		}
	}
	return &clone
}

// Lines returns the catalog of line groups selected by the configuration.
func (c *Config) Lines() []schema.LineGroup {
	return schema.AuroraLines(c.Extended)
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := ValidateOutputInputs(cfg, input); err != nil {
		return err
	}
	if err := validateRetrievalInputs(cfg, input); err != nil {
		return err
	}
	if err := processExclusions(cfg, input); err != nil {
		return err
	}
	return resolveDataPaths(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("results-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("results-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateBackend normalizes and validates the run store backend settings.
func ValidateBackend(cfg *Config, backend, connStr string) error {
	cfg.ResultsBackend = schema.DatabaseBackend(strings.ToLower(backend))
	if cfg.ResultsBackend == "" {
		cfg.ResultsBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ResultsBackend]; !ok {
		return fmt.Errorf("invalid results backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	cfg.ResultsDBConnect = connStr
	return ValidateDatabaseConnectionString(cfg.ResultsBackend, cfg.ResultsDBConnect)
}

// ValidateOutputInputs processes and validates the output and backend fields.
// Commands that never read reduced data validate only these.
func ValidateOutputInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colorStr := input.Color
	if colorStr == "" {
		colorStr = "yes"
	}
	colors, err := ParseBoolString(colorStr)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return errors.New("--output-file is required for parquet output")
	}

	return ValidateBackend(cfg, input.ResultsBackend, input.ResultsDBConnect)
}

// validateRetrievalInputs validates the geometry and extraction parameters.
func validateRetrievalInputs(cfg *Config, input *ConfigRawInput) error {
	if input.Seeing <= 0 {
		return fmt.Errorf("seeing must be greater than 0 arcsec (received %g)", input.Seeing)
	}
	cfg.Seeing = input.Seeing

	if input.TopTrim < 0 || input.TopTrim > MaxTrim {
		return fmt.Errorf("top-trim must be between 0 and %d (received %d)", MaxTrim, input.TopTrim)
	}
	if input.BottomTrim < 0 || input.BottomTrim > MaxTrim {
		return fmt.Errorf("bottom-trim must be between 0 and %d (received %d)", MaxTrim, input.BottomTrim)
	}
	cfg.TopTrim = input.TopTrim
	cfg.BottomTrim = input.BottomTrim
	cfg.YOffset = input.YOffset

	if input.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be greater than 0 nm (received %g)", input.Tolerance)
	}
	cfg.Tolerance = input.Tolerance

	if input.Window < 0 || input.Window > MaxWindow {
		return fmt.Errorf("window must be between 0 and %d (received %d)", MaxWindow, input.Window)
	}
	cfg.Window = input.Window

	cfg.Background = schema.BackgroundMethod(strings.ToLower(input.Background))
	if cfg.Background == "" {
		cfg.Background = schema.MedianBackground
	}
	if _, ok := schema.ValidBackgroundMethods[cfg.Background]; !ok {
		return fmt.Errorf("invalid background method '%s'. must be median, poly", input.Background)
	}

	cfg.Extended = input.Extended
	cfg.NoPlots = input.NoPlots
	return nil
}

// processExclusions resolves the config file exclusions and the --exclude
// flag against the active line catalog, each to line IDs, then lets the flag
// replace the frame list of every line it names. Keys matching no line are
// reported and ignored.
func processExclusions(cfg *Config, input *ConfigRawInput) error {
	raw := make(map[string][]int, len(input.Exclusions))
	for _, ex := range input.Exclusions {
		key := strings.TrimSpace(ex.Line)
		if key == "" {
			return errors.New("exclusion entry without a line")
		}
		raw[key] = append(raw[key], ex.Frames...)
	}
	resolved, err := resolveExclusionKeys(cfg, raw)
	if err != nil {
		return err
	}
	cfg.Exclusions = resolved
	return overrideExclusions(cfg, input.Exclude)
}

// overrideExclusions parses an exclusion string and replaces the frame list
// of every line it names, keeping the lines it does not name.
func overrideExclusions(cfg *Config, exclude string) error {
	if strings.TrimSpace(exclude) == "" {
		return nil
	}
	parsed, err := parseExclusionsString(exclude)
	if err != nil {
		return fmt.Errorf("invalid --exclude format: %w", err)
	}
	resolved, err := resolveExclusionKeys(cfg, parsed)
	if err != nil {
		return err
	}
	if cfg.Exclusions == nil {
		cfg.Exclusions = make(map[schema.LineID][]int, len(resolved))
	}
	maps.Copy(cfg.Exclusions, resolved)
	return nil
}

// resolveExclusionKeys resolves raw keys and warns about the unknown ones.
func resolveExclusionKeys(cfg *Config, raw map[string][]int) (map[schema.LineID][]int, error) {
	resolved, unknown, err := ResolveExclusions(cfg.Lines(), raw)
	if err != nil {
		return nil, err
	}
	for _, key := range unknown {
		LogWarn("Ignoring exclusion", unknownExclusion(key))
	}
	return resolved, nil
}

// unknownExclusion explains why an exclusion key matched no active line.
func unknownExclusion(key string) error {
	if g, ok := schema.LookupLine(schema.LineID(key)); ok {
		return fmt.Errorf("%q is in the extended catalog (%s nm), enable --extended to use it", key, g.Label())
	}
	return fmt.Errorf("%q matches no emission line", key)
}

// resolveDataPaths resolves the reduced data directory and the save path.
func resolveDataPaths(cfg *Config, input *ConfigRawInput) error {
	dataPath := input.DataPathStr
	if dataPath == "" {
		dataPath = "."
	}
	absDataPath, err := filepath.Abs(dataPath)
	if err != nil {
		return err
	}
	info, err := os.Stat(absDataPath)
	if err != nil {
		return fmt.Errorf("reduced data path: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("reduced data path %s is not a directory", absDataPath)
	}
	cfg.DataPath = filepath.Clean(absDataPath)

	savePath := input.SavePath
	if savePath == "" {
		savePath = filepath.Join(cfg.DataPath, schema.DefaultSaveDirectoryName)
	}
	absSavePath, err := filepath.Abs(savePath)
	if err != nil {
		return err
	}
	cfg.SavePath = filepath.Clean(absSavePath)
	return nil
}

// RevalidateRetrieve re-applies per-request overrides on a cloned config for
// retrievals started outside the CLI, such as the MCP tools. The save path
// defaults beneath the data path as it does for the CLI. The configured
// exclusions stay in force; exclude replaces the frame list of each line it
// names, as --exclude does over the config file.
func RevalidateRetrieve(cfg *Config, dataPath, savePath, exclude string) error {
	if dataPath == "" {
		return errors.New("data_path is required")
	}
	if cfg.Seeing <= 0 {
		return fmt.Errorf("seeing must be greater than 0 arcsec (received %g)", cfg.Seeing)
	}
	if _, ok := schema.ValidBackgroundMethods[cfg.Background]; !ok {
		return fmt.Errorf("invalid background method '%s'. must be median, poly", cfg.Background)
	}
	if err := overrideExclusions(cfg, exclude); err != nil {
		return err
	}
	return resolveDataPaths(cfg, &ConfigRawInput{DataPathStr: dataPath, SavePath: savePath})
}
