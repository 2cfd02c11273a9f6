package export_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/industry-atlas/internal/common"
	"github.com/Veraticus/industry-atlas/internal/export"
	"github.com/Veraticus/industry-atlas/internal/filter"
	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/Veraticus/industry-atlas/internal/testutil"
)

func TestCollect_SQLite(t *testing.T) {
	builder := testutil.NewCompanyBuilder().WithBasicCompanies()
	for i := 0; i < 20; i++ {
		builder.WithCompany("Farm", "Dairy farming", "Kuopio")
	}
	db := testutil.SetupTestDB(t, builder.Build())
	ctx := context.Background()

	tests := []struct {
		name     string
		filters  filter.CompanyFilters
		maxItems int
		want     int
	}{
		{
			name:     "all",
			maxItems: 100,
			want:     25,
		},
		{
			name:     "capped",
			maxItems: 7,
			want:     7,
		},
		{
			name:     "category",
			filters:  filter.CompanyFilters{Categories: model.NewFilterSelection("A")},
			maxItems: 100,
			want:     22,
		},
		{
			name:     "city",
			filters:  filter.CompanyFilters{City: "tampere"},
			maxItems: 100,
			want:     1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := export.Collect(ctx, db.Storage, tt.filters, tt.maxItems)
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}

	_, err := export.Collect(ctx, db.Storage, filter.CompanyFilters{CompanyName: "nobody"}, 100)
	assert.ErrorIs(t, err, common.ErrNothingToExport)

	bravo := db.MustGet(3)
	assert.Equal(t, "Bravo Builders Oy", bravo.Name)
	require.NotNil(t, bravo.Revenue)
	assert.InDelta(t, 250000.0, *bravo.Revenue, 0.001)
}
