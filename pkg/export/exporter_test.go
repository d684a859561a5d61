package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Headers: []string{"Hora", "Lunes", "Martes"},
		Rows: []map[string]string{
			{"Hora": "07:00 - 08:30", "Lunes": "Materia: Cálculo\nGrupo: G1\nAula: A-101\nDocente: Ana Ruiz"},
			{"Hora": "08:30 - 10:00", "Martes": "Materia: Física"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset(), "ignored")
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\ufeff"))))
	records, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Hora", "Lunes", "Martes"}, records[0])
	assert.Contains(t, records[1][1], "Docente: Ana Ruiz")
	assert.Equal(t, "", records[2][1])
}

func TestCSVExporterDelimiter(t *testing.T) {
	out, err := NewCSVExporterWithDelimiter(";").Render(sampleDataset(), "")
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(out, []byte("\ufeff"))))
	reader.Comma = ';'
	records, err := reader.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"Hora", "Lunes", "Martes"}, records[0])

	for _, raw := range []string{"", "\"", "\n"} {
		assert.Equal(t, ',', NewCSVExporterWithDelimiter(raw).comma, "delimiter %q", raw)
	}
}

func TestExportersRequireHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{}, "")
	assert.Error(t, err)
	_, err = NewPDFExporter().Render(Dataset{}, "")
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset(), "Horario G1")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}
