package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterQuotesEveryField(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"Fecha", "Estudiante", "Estado"},
		Rows: []map[string]string{
			{"Fecha": "2024-03-01", "Estudiante": "Juan Pérez", "Estado": "Presente"},
			{"Fecha": "2024-03-01", "Estudiante": `Ana "Anita" García`, "Estado": "Ausente"},
		},
	})
	require.NoError(t, err)

	expected := "Fecha,Estudiante,Estado\n" +
		`"2024-03-01","Juan Pérez","Presente"` + "\n" +
		`"2024-03-01","Ana ""Anita"" García","Ausente"`
	assert.Equal(t, expected, string(payload))
}

func TestCSVExporterMissingValueRendersEmptyQuoted(t *testing.T) {
	exporter := NewCSVExporter()

	payload, err := exporter.Render(Dataset{
		Headers: []string{"A", "B"},
		Rows:    []map[string]string{{"A": "x"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A,B\n\"x\",\"\"", string(payload))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()

	_, err := exporter.Render(Dataset{})
	require.Error(t, err)
}
