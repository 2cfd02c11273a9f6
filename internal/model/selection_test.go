package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterSelection_Toggle(t *testing.T) {
	var sel FilterSelection

	assert.True(t, sel.Toggle("A"))
	assert.True(t, sel.Toggle("C"))
	assert.Equal(t, []string{"A", "C"}, sel.IDs())

	assert.False(t, sel.Toggle("A"))
	assert.Equal(t, []string{"C"}, sel.IDs())
	assert.False(t, sel.Contains("A"))
}

func TestFilterSelection_Uniqueness(t *testing.T) {
	sel := NewFilterSelection("A", "B", "A", "", "B")

	assert.Equal(t, 2, sel.Len())
	assert.Equal(t, []string{"A", "B"}, sel.IDs())

	sel.Add("A")
	assert.Equal(t, 2, sel.Len())
}

func TestFilterSelection_Clear(t *testing.T) {
	sel := NewFilterSelection("A", "B")
	sel.Clear()

	assert.True(t, sel.IsEmpty())
	assert.Empty(t, sel.IDs())
}

func TestFilterSelection_IDsIsCopy(t *testing.T) {
	sel := NewFilterSelection("A")
	ids := sel.IDs()
	ids[0] = "Z"

	assert.Equal(t, []string{"A"}, sel.IDs())
}

func TestFilterSelection_JSON(t *testing.T) {
	tests := []struct {
		name string
		sel  FilterSelection
		want string
	}{
		{name: "empty", sel: FilterSelection{}, want: `[]`},
		{name: "ordered ids", sel: NewFilterSelection("F", "A"), want: `["F","A"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.sel)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestFilterSelection_UnmarshalDeduplicates(t *testing.T) {
	var sel FilterSelection
	require.NoError(t, json.Unmarshal([]byte(`["A","B","A"]`), &sel))
	assert.Equal(t, []string{"A", "B"}, sel.IDs())

	assert.Error(t, json.Unmarshal([]byte(`{"A":true}`), &sel))
}

func TestHashRecords(t *testing.T) {
	a := []ClassificationRecord{{Code: "01", Level: 1, Name: "Agriculture"}}
	b := []ClassificationRecord{{Code: "01", Level: 1, Name: "Agriculture"}}
	c := []ClassificationRecord{{Code: "01", Level: 2, Name: "Agriculture"}}

	assert.Equal(t, HashRecords(a), HashRecords(b))
	assert.NotEqual(t, HashRecords(a), HashRecords(c))
	assert.NotEqual(t, HashRecords(nil), HashRecords(a))
}

func TestCompanyPage_TotalPages(t *testing.T) {
	assert.Equal(t, 0, CompanyPage{Total: 0, Limit: 10}.TotalPages())
	assert.Equal(t, 1, CompanyPage{Total: 10, Limit: 10}.TotalPages())
	assert.Equal(t, 3, CompanyPage{Total: 21, Limit: 10}.TotalPages())
	assert.Equal(t, 0, CompanyPage{Total: 5, Limit: 0}.TotalPages())
}
