package schema

import (
	"errors"
	"fmt"
	"time"
)

// SpectralOrder is one rectified echelle order shared by every frame of a sequence.
type SpectralOrder struct {
	EchelleOrder int       `json:"echelle_order"`
	Wavelengths  []float64 `json:"wavelengths"`                   // nm, one per column
	Rows         int       `json:"rows"`                          // spatial bins after rectification
	Calibration  float64   `json:"calibration_factor,omitempty"` // R per (count nm), filled from the flux calibration product
}

// Frame is one science exposure. Images are indexed [order][row][column].
type Frame struct {
	Index    int           `json:"index"`
	Filename string        `json:"filename"`
	Observed time.Time     `json:"observed"`
	Images   [][][]float64 `json:"images"`
}

// ObservingSequence is the reduced science product of one observing night.
type ObservingSequence struct {
	Target       string          `json:"target"`
	PlateScale   float64         `json:"plate_scale"`   // arcsec per spatial bin
	TargetRadius float64         `json:"target_radius"` // arcsec
	Orders       []SpectralOrder `json:"orders"`
	Frames       []Frame         `json:"frames"`
}

// FluxCalibration is the reduced flux calibration product.
type FluxCalibration struct {
	Orders []OrderCalibration `json:"orders"`
}

// OrderCalibration converts counts integrated over nm into Rayleighs for one order.
type OrderCalibration struct {
	EchelleOrder      int     `json:"echelle_order"`
	CalibrationFactor float64 `json:"calibration_factor"`
}

// ErrMalformedSequence indicates reduced data breaking the rectification invariants.
var ErrMalformedSequence = errors.New("malformed observing sequence")

// Validate checks that every order spans at least two wavelength bins and
// that every frame carries one image per order with the order's row count
// and wavelength-axis length. Axes may be in any order.
func (s *ObservingSequence) Validate() error {
	if s.PlateScale <= 0 {
		return fmt.Errorf("%w: plate scale must be positive, got %g", ErrMalformedSequence, s.PlateScale)
	}
	if len(s.Orders) == 0 {
		return fmt.Errorf("%w: no spectral orders", ErrMalformedSequence)
	}
	if len(s.Frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrMalformedSequence)
	}
	for oi, o := range s.Orders {
		if len(o.Wavelengths) == 0 || o.Rows <= 0 {
			return fmt.Errorf("%w: order %d is empty", ErrMalformedSequence, o.EchelleOrder)
		}
		if len(o.Wavelengths) < 2 {
			return fmt.Errorf("%w: order %d has a single wavelength bin", ErrMalformedSequence, o.EchelleOrder)
		}
		for _, f := range s.Frames {
			if len(f.Images) != len(s.Orders) {
				return fmt.Errorf("%w: frame %d has %d images for %d orders", ErrMalformedSequence, f.Index, len(f.Images), len(s.Orders))
			}
			img := f.Images[oi]
			if len(img) != o.Rows {
				return fmt.Errorf("%w: frame %d order %d has %d rows, want %d", ErrMalformedSequence, f.Index, o.EchelleOrder, len(img), o.Rows)
			}
			for r, row := range img {
				if len(row) != len(o.Wavelengths) {
					return fmt.Errorf("%w: frame %d order %d row %d has %d columns, want %d",
						ErrMalformedSequence, f.Index, o.EchelleOrder, r, len(row), len(o.Wavelengths))
				}
			}
		}
	}
	return nil
}

// ApplyCalibration copies calibration factors onto the matching orders.
// Orders missing from the calibration product keep a zero factor.
func (s *ObservingSequence) ApplyCalibration(cal *FluxCalibration) {
	factors := make(map[int]float64, len(cal.Orders))
	for _, c := range cal.Orders {
		factors[c.EchelleOrder] = c.CalibrationFactor
	}
	for i := range s.Orders {
		s.Orders[i].Calibration = factors[s.Orders[i].EchelleOrder]
	}
}
