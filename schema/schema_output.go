package schema

import "time"

// Aperture is the inclusive row range integrated as target signal.
type Aperture struct {
	Start     int  `json:"start"`
	End       int  `json:"end"`
	Center    int  `json:"center"`
	HalfWidth int  `json:"half_width"`
	Clamped   bool `json:"clamped"`
}

// Rows returns the number of rows in the aperture.
func (a Aperture) Rows() int {
	if a.End < a.Start {
		return 0
	}
	return a.End - a.Start + 1
}

// FrameBrightness is the retrieved brightness of a single frame.
type FrameBrightness struct {
	Index       int     `json:"index"`
	Filename    string  `json:"filename"`
	Brightness  float64 `json:"brightness"`
	Uncertainty float64 `json:"uncertainty"`
	Excluded    bool    `json:"excluded"`
}

// TransitionBrightness splits a group brightness by line strength.
type TransitionBrightness struct {
	Wavelength   float64 `json:"wavelength"`
	LineStrength float64 `json:"line_strength"`
	Brightness   float64 `json:"brightness"`
	Uncertainty  float64 `json:"uncertainty"`
}

// ResultRecord is the persisted outcome of one line group in one run.
type ResultRecord struct {
	RunID          string                 `json:"run_id"`
	LineID         LineID                 `json:"line_id"`
	Label          string                 `json:"label"`
	Species        string                 `json:"species"`
	Wavelengths    []float64              `json:"wavelengths"`
	LineStrengths  []float64              `json:"line_strengths"`
	Units          string                 `json:"units"`
	Target         string                 `json:"target"`
	EchelleOrder   int                    `json:"echelle_order"`
	Frames         []FrameBrightness      `json:"frames"`
	Transitions    []TransitionBrightness `json:"transitions"`
	Brightness     float64                `json:"brightness"`
	Uncertainty    float64                `json:"uncertainty"`
	StandardError  float64                `json:"standard_error"`
	Systematic     float64                `json:"systematic"`
	ExcludedFrames []int                  `json:"excluded_frames"`
	Aperture       Aperture               `json:"aperture"`
	TopTrim        int                    `json:"top_trim"`
	BottomTrim     int                    `json:"bottom_trim"`
	Seeing         float64                `json:"seeing"`
	YOffset        int                    `json:"y_offset"`
	Background     BackgroundMethod       `json:"background_method"`
	CreatedAt      time.Time              `json:"created_at"`
}

// IncludedFrames returns the number of frames contributing to the aggregate.
func (r *ResultRecord) IncludedFrames() int {
	n := 0
	for _, f := range r.Frames {
		if !f.Excluded {
			n++
		}
	}
	return n
}

// GroupSummary is one row of the run summary printed after retrieval.
type GroupSummary struct {
	Rank        int           `json:"rank"`
	LineID      LineID        `json:"line_id"`
	Label       string        `json:"label"`
	Species     string        `json:"species"`
	Status      OutcomeStatus `json:"status"`
	Brightness  float64       `json:"brightness"`
	Uncertainty float64       `json:"uncertainty"`
	Frames      int           `json:"frames"`
	Excluded    int           `json:"excluded"`
	Order       int           `json:"echelle_order"`
	Message     string        `json:"message,omitempty"`
}

// RunSummary is the outcome of a retrieval run over every line group.
type RunSummary struct {
	RunID     string         `json:"run_id"`
	Target    string         `json:"target"`
	DataPath  string         `json:"data_path"`
	SavePath  string         `json:"save_path"`
	StartTime time.Time      `json:"start_time"`
	EndTime   time.Time      `json:"end_time"`
	Groups    []GroupSummary `json:"groups"`
}

// Retrieved returns the number of groups that produced a record.
func (s *RunSummary) Retrieved() int {
	n := 0
	for _, g := range s.Groups {
		if g.Status == RetrievedOutcome {
			n++
		}
	}
	return n
}
