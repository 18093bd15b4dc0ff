// Package reduced reads and writes the reduced data products of an observing night.
package reduced

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
	"github.com/klauspost/compress/gzip"
)

// ErrMissingProduct indicates a reduced data directory without one of its products.
var ErrMissingProduct = errors.New("reduced data product not found")

// Reader loads gzip-compressed JSON products from a reduced data directory.
type Reader struct{}

var _ contract.SequenceReader = Reader{} // Compile-time check

// ReadSequence reads the science observations and flux calibration stored in dir,
// applies the calibration to the orders and validates the result.
func (Reader) ReadSequence(ctx context.Context, dir string) (*schema.ObservingSequence, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var seq schema.ObservingSequence
	if err := readProduct(filepath.Join(dir, schema.ScienceObservationsFile), &seq); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cal schema.FluxCalibration
	if err := readProduct(filepath.Join(dir, schema.FluxCalibrationFile), &cal); err != nil {
		return nil, err
	}

	seq.ApplyCalibration(&cal)
	if err := seq.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}
	return &seq, nil
}

// readProduct decodes one gzip-compressed JSON product into v.
func readProduct(path string, v any) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrMissingProduct, path)
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	zr, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", path, err)
	}
	defer func() { _ = zr.Close() }()

	if err := json.NewDecoder(zr).Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// WriteDataset writes seq and cal as the two reduced products inside dir,
// creating it when needed. Calibration factors are stored only in the
// calibration product.
func WriteDataset(dir string, seq *schema.ObservingSequence, cal *schema.FluxCalibration) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	science := *seq
	science.Orders = make([]schema.SpectralOrder, len(seq.Orders))
	for i, o := range seq.Orders {
		o.Calibration = 0
		science.Orders[i] = o
	}

	if err := writeProduct(filepath.Join(dir, schema.ScienceObservationsFile), &science); err != nil {
		return err
	}
	return writeProduct(filepath.Join(dir, schema.FluxCalibrationFile), cal)
}

// writeProduct encodes v as gzip-compressed JSON at path.
func writeProduct(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	zw, err := gzip.NewWriterLevel(f, gzip.BestSpeed)
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := json.NewEncoder(zw).Encode(v); err != nil {
		_ = zw.Close()
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := zw.Close(); err != nil {
		_ = f.Close()
		return fmt.Errorf("compress %s: %w", path, err)
	}
	return f.Close()
}
