package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/model"
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, []model.Company{
		{Name: "Acme, Inc", BusinessID: "1", City: "Oulu"},
		{Name: `Quote "Q" Oy`, BusinessID: "2"},
	})
	require.NoError(t, err)

	want := "name,business_id,industry,city,company_type,registration_date,address\n" +
		"\"Acme, Inc\",1,,Oulu,,,\n" +
		"\"Quote \"\"Q\"\" Oy\",2,,,,,\n"
	assert.Equal(t, want, buf.String())
}

func TestCSVWriter_Export(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	w := NewCSVWriter(dir, "farms")
	w.now = func() time.Time { return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC) }

	path, err := w.Export(context.Background(), []model.Company{{Name: "A", BusinessID: "1"}})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "farms_2025-03-04.csv"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "name,business_id"))

	_, err = w.Export(context.Background(), nil)
	assert.ErrorIs(t, err, common.ErrNothingToExport)
}

// cancelAfter reports cancellation once Err has been called n times.
type cancelAfter struct {
	context.Context
	n int
}

func (c *cancelAfter) Err() error {
	if c.n <= 0 {
		return context.Canceled
	}
	c.n--
	return nil
}

func TestCSVWriter_ExportRemovesPartialFile(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, "farms")

	companies := make([]model.Company, 50)
	for i := range companies {
		companies[i] = model.Company{Name: "Farm", BusinessID: strconv.Itoa(i)}
	}

	// One check before the file is created, then ten rows.
	ctx := &cancelAfter{Context: context.Background(), n: 11}
	path, err := w.Export(ctx, companies)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, path)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReadCSV(t *testing.T) {
	input := "\ufeffBusiness_ID,Name,Industry,City,registration_date,revenue,extra\n" +
		"0100001-1, Acme Farming ,Mixed farming,Helsinki,2019-03-01,1500.5,x\n" +
		"0100002-2,Bravo,Construction,,,,\n"

	calls := 0
	companies, err := ReadCSV(strings.NewReader(input), func() { calls++ })
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, 2, calls)

	first := companies[0]
	assert.Equal(t, "0100001-1", first.BusinessID)
	assert.Equal(t, "Acme Farming", first.Name)
	assert.Equal(t, "Helsinki", first.City)
	require.NotNil(t, first.RegistrationDate)
	assert.Equal(t, 2019, first.RegistrationDate.Year())
	require.NotNil(t, first.Revenue)
	assert.InDelta(t, 1500.5, *first.Revenue, 0.0001)

	assert.Nil(t, companies[1].RegistrationDate)
	assert.Nil(t, companies[1].Revenue)
}

func TestReadCSV_RoundTrip(t *testing.T) {
	reg := time.Date(2020, 2, 2, 0, 0, 0, 0, time.UTC)
	in := []model.Company{{Name: "A", BusinessID: "1", Industry: "Fishing", RegistrationDate: &reg, Address: "Katu 2"}}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, in))

	out, err := ReadCSV(&buf, nil)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, Row(in[0]), Row(out[0]))
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		errText string
	}{
		{name: "empty", input: "", wantErr: ErrMissingColumn},
		{name: "no business id", input: "name,city\nA,B\n", wantErr: ErrMissingColumn},
		{name: "bad revenue", input: "business_id,name,revenue\n1,A,lots\n", errText: "line 2"},
		{name: "bad date", input: "business_id,name,registration_date\n1,A,31.12.2020\n", errText: "line 2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV(strings.NewReader(tt.input), nil)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			if tt.errText != "" {
				assert.Contains(t, err.Error(), tt.errText)
			}
		})
	}
}
