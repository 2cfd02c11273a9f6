package export

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/storage"
)

// CSVWriter writes companies to a date-stamped CSV file.
type CSVWriter struct {
	now  func() time.Time
	dir  string
	base string
}

// NewCSVWriter writes files named "<base>_YYYY-MM-DD.csv" into dir.
func NewCSVWriter(dir, base string) *CSVWriter {
	return &CSVWriter{dir: dir, base: base, now: time.Now}
}

// Export writes companies and returns the file path. A failed or canceled
// export leaves no file behind.
func (w *CSVWriter) Export(ctx context.Context, companies []model.Company) (_ string, err error) {
	if len(companies) == 0 {
		return "", common.ErrNothingToExport
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(w.dir, 0750); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(w.dir, FileName(w.base, "csv", w.now()))

	f, err := os.Create(path) // #nosec G304
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		_ = f.Close()
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	if err := writeCSV(ctx, f, companies); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	return path, nil
}

// WriteCSV writes the header and one row per company.
func WriteCSV(out io.Writer, companies []model.Company) error {
	return writeCSV(context.Background(), out, companies)
}

func writeCSV(ctx context.Context, out io.Writer, companies []model.Company) error {
	cw := csv.NewWriter(out)
	if err := cw.Write(Header()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, c := range companies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := cw.Write(Row(c)); err != nil {
			return fmt.Errorf("failed to write company %s: %w", c.BusinessID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

// ErrMissingColumn reports an import file without a required column.
var ErrMissingColumn = errors.New("missing required column")

// ReadCSV parses a company file with a header row. Columns are matched by
// name, case-insensitively; business_id and name are required, the other
// model.Company fields are optional. The callback, if not nil, is called
// after each row.
func ReadCSV(r io.Reader, progress func()) ([]model.Company, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))] = i
	}
	for _, required := range []string{"business_id", "name"} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}

	var companies []model.Company
	for line := 2; ; line++ {
		rec, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, fmt.Errorf("line %d: %w", line, readErr)
		}

		get := func(name string) string {
			i, ok := index[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		c := model.Company{
			BusinessID:  get("business_id"),
			Name:        get("name"),
			Industry:    get("industry"),
			City:        get("city"),
			CompanyType: get("company_type"),
			Address:     get("address"),
			PostalCode:  get("postal_code"),
			Country:     get("country"),
			Website:     get("website"),
			Email:       get("email"),
			Phone:       get("phone"),
			Status:      get("status"),
		}
		if v := get("registration_date"); v != "" {
			d, parseErr := storage.ParseDate(v)
			if parseErr != nil {
				return nil, fmt.Errorf("line %d: %w", line, parseErr)
			}
			c.RegistrationDate = &d
		}
		if v := get("revenue"); v != "" {
			f, parseErr := strconv.ParseFloat(v, 64)
			if parseErr != nil {
				return nil, fmt.Errorf("line %d: invalid revenue %q: %w", line, v, parseErr)
			}
			c.Revenue = &f
		}

		companies = append(companies, c)
		if progress != nil {
			progress()
		}
	}
	return companies, nil
}
