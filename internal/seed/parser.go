package seed

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"stocklens/internal/domain/models"
	"stocklens/internal/storage"
)

// Header ordering is enforced strictly: a file whose header does not match
// exactly (order and count) fails the whole run. Cell contents below the
// header are handled tolerantly.
var (
	actualsHeaders  = []string{"symbol", "dt", "close"}
	forecastHeaders = []string{"symbol", "ds", "yhat", "yhat_lower", "yhat_upper"}
)

func validateHeader(got, want []string) error {
	if len(got) != len(want) {
		return fmt.Errorf("invalid header length: expected %d, got %d", len(want), len(got))
	}
	for i, h := range got {
		if strings.ToLower(strings.TrimSpace(h)) != want[i] {
			return fmt.Errorf("invalid header at col %d: expected %q, got %q", i+1, want[i], h)
		}
	}
	return nil
}

// parseActualsFile streams one actuals CSV into the repository in batches.
//
// It fails on:
//   - header not matching expected order/length
//   - wrong column count on any row
//   - unrecoverable I/O errors
//
// It tolerates:
//   - rows whose symbol, date, or close fail coercion (skipped, counted)
func parseActualsFile(ctx context.Context, path string, repo storage.WarehouseRepository, batch int) (inserted, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	if err := validateHeader(header, actualsHeaders); err != nil {
		return 0, 0, err
	}

	buf := make([]models.ActualRecord, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertActualsBatch(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	line := 1
	for {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, 0, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		if len(rec) != len(actualsHeaders) {
			return 0, 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", line, len(actualsHeaders), len(rec))
		}

		ar, ok := recordToActual(rec)
		if !ok {
			skipped++
			continue
		}
		buf = append(buf, ar)
		inserted++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, 0, fmt.Errorf("flush batch ending line %d: %w", line, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, 0, fmt.Errorf("final flush: %w", err)
	}
	return inserted, skipped, nil
}

// parseForecastFile streams one forecast CSV into the repository in batches.
// Skips rows whose symbol, date, or estimate fail coercion; bound cells that
// fail coercion become NULLs rather than failing the row.
func parseForecastFile(ctx context.Context, path string, repo storage.WarehouseRepository, batch int) (inserted, skipped int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, 0, fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read header: %w", err)
	}
	if err := validateHeader(header, forecastHeaders); err != nil {
		return 0, 0, err
	}

	buf := make([]models.ForecastRecord, 0, batch)
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := repo.InsertForecastBatch(buf); err != nil {
			return err
		}
		buf = buf[:0]
		return nil
	}

	line := 1
	for {
		select {
		case <-ctx.Done():
			return 0, 0, ctx.Err()
		default:
		}

		rec, err := r.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return 0, 0, fmt.Errorf("read line after %d: %w", line, err)
		}
		line++

		if len(rec) != len(forecastHeaders) {
			return 0, 0, fmt.Errorf("invalid column count on line %d: expected %d got %d", line, len(forecastHeaders), len(rec))
		}

		fr, ok := recordToForecast(rec)
		if !ok {
			skipped++
			continue
		}
		buf = append(buf, fr)
		inserted++
		if len(buf) >= batch {
			if err := flush(); err != nil {
				return 0, 0, fmt.Errorf("flush batch ending line %d: %w", line, err)
			}
		}
	}

	if err := flush(); err != nil {
		return 0, 0, fmt.Errorf("final flush: %w", err)
	}
	return inserted, skipped, nil
}

// recordToActual converts one validated-length CSV record into an
// ActualRecord. Returns ok=false when any required cell fails coercion.
func recordToActual(rec []string) (models.ActualRecord, bool) {
	var a models.ActualRecord

	a.Symbol = strings.ToUpper(strings.TrimSpace(rec[0]))
	if a.Symbol == "" {
		return a, false
	}

	d, ok := parseDate(rec[1])
	if !ok {
		return a, false
	}
	a.Date = d

	v, ok := parseFloat(rec[2])
	if !ok {
		return a, false
	}
	a.Close = v

	return a, true
}

// recordToForecast converts one validated-length CSV record into a
// ForecastRecord. Symbol, date, and estimate are required; bounds are
// best-effort and become nil when absent or unparseable.
func recordToForecast(rec []string) (models.ForecastRecord, bool) {
	var f models.ForecastRecord

	f.Symbol = strings.ToUpper(strings.TrimSpace(rec[0]))
	if f.Symbol == "" {
		return f, false
	}

	d, ok := parseDate(rec[1])
	if !ok {
		return f, false
	}
	f.Date = d

	v, ok := parseFloat(rec[2])
	if !ok {
		return f, false
	}
	f.Estimate = v

	if lo, ok := parseFloat(rec[3]); ok {
		f.Lower = &lo
	}
	if hi, ok := parseFloat(rec[4]); ok {
		f.Upper = &hi
	}

	return f, true
}

func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10] // tolerate timestamp suffixes
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
