package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	exporter := NewCSVExporter()
	data := Dataset{
		Headers: []string{"Student", "Paid", "Remaining"},
		Rows: []map[string]string{
			{"Student": "Alice Johnson", "Paid": "5000", "Remaining": "19000"},
			{"Student": "Bob Smith", "Paid": "0", "Remaining": "12000"},
		},
	}

	out, err := exporter.Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Student,Paid,Remaining\nAlice Johnson,5000,19000\nBob Smith,0,12000\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	exporter := NewCSVExporter()
	_, err := exporter.Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.Render(Dataset{
		Headers: []string{"Name", "Grade"},
		Rows:    []map[string]string{{"Name": "Alice", "Grade": "10th"}},
	}, "Student Roster")
	require.NoError(t, err)
	assert.True(t, len(out) > 0)
	assert.Equal(t, "%PDF", string(out[:4]))
}

func TestPDFExporterRenderReceipt(t *testing.T) {
	exporter := NewPDFExporter()
	out, err := exporter.RenderReceipt(Receipt{
		SchoolName:  "Manikgad Cbse classes",
		ReceiptNo:   "RCP-4821",
		Date:        "2024-09-15",
		StudentName: "Alice Johnson",
		StudentID:   "1",
		Grade:       "10th",
		Category:    "Tuition Fee",
		Method:      "UPI",
		Amount:      "5000",
		CollectedBy: "Super Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))

	_, err = exporter.RenderReceipt(Receipt{})
	assert.Error(t, err)
}
