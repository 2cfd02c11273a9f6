package flatfile

import (
	"strings"
	"testing"

	"github.com/Veraticus/industry-atlas/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `"koodi";"taso";"nimike";"kuvaus"`

func TestParse_SingleLine(t *testing.T) {
	records := ParseString(header + "\n" + `"'01';1;"Agriculture";"`)

	require.Len(t, records, 1)
	assert.Equal(t, model.ClassificationRecord{Code: "01", Level: 1, Name: "Agriculture"}, records[0])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []model.ClassificationRecord
	}{
		{
			name:  "header only",
			input: header + "\n",
			want:  nil,
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name: "quoted code with trailing fields",
			input: header + "\n" +
				`"'01'";1;"Agriculture, forestry and fishing";"Includes crop and animal production";"x"` + "\n" +
				`"'011'";2;"Growing of non-perennial crops";""` + "\n",
			want: []model.ClassificationRecord{
				{Code: "01", Level: 1, Name: "Agriculture, forestry and fishing"},
				{Code: "011", Level: 2, Name: "Growing of non-perennial crops"},
			},
		},
		{
			name: "blank and truncated lines are skipped",
			input: header + "\n" +
				`"A";1;"Agriculture";` + "\n" +
				"\n" +
				"   \n" +
				`"B";1;"Mini`,
			want: []model.ClassificationRecord{
				{Code: "A", Level: 1, Name: "Agriculture"},
			},
		},
		{
			name: "malformed lines are skipped",
			input: header + "\n" +
				`"C";x;"Manufacturing";` + "\n" +
				`C;1;"Manufacturing";` + "\n" +
				`"C";1;Manufacturing;` + "\n" +
				`"10";2;"Manufacture of food products";` + "\n",
			want: []model.ClassificationRecord{
				{Code: "10", Level: 2, Name: "Manufacture of food products"},
			},
		},
		{
			name:  "windows line endings",
			input: header + "\r\n" + `"F";1;"Construction";` + "\r\n" + `"41";2;"Construction of buildings";` + "\r\n",
			want: []model.ClassificationRecord{
				{Code: "F", Level: 1, Name: "Construction"},
				{Code: "41", Level: 2, Name: "Construction of buildings"},
			},
		},
		{
			name:  "header is skipped even when it looks like data",
			input: `"00";0;"Header";` + "\n" + `"01";1;"Data";`,
			want: []model.ClassificationRecord{
				{Code: "01", Level: 1, Name: "Data"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseString(tt.input))
		})
	}
}

func TestParse_PreservesOrder(t *testing.T) {
	var b strings.Builder
	b.WriteString(header + "\n")
	codes := []string{"03", "01", "02"}
	for _, c := range codes {
		b.WriteString(`"` + c + `";1;"Name ` + c + `";` + "\n")
	}

	records := ParseString(b.String())
	require.Len(t, records, 3)
	for i, c := range codes {
		assert.Equal(t, c, records[i].Code)
	}
}

func TestParseLine_Windows1252(t *testing.T) {
	// "Kasvinviljely ja kotieläintalous" with ä encoded as 0xE4.
	line := "\"01\";1;\"Kasvinviljely ja kotiel\xe4intalous\";"

	rec, ok := ParseLine(line)
	require.True(t, ok)
	assert.Equal(t, "Kasvinviljely ja kotieläintalous", rec.Name)
}

func TestParseLine_LevelOverflow(t *testing.T) {
	_, ok := ParseLine(`"01";99999999999999999999999;"Overflow";`)
	assert.False(t, ok)
}
