package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"pricecatalog/testhelpers"
)

// run executes the command tree and returns stdout and the log output.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, logs bytes.Buffer
	root := NewRootCmd(&logs)
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--no-color", "--json-logs"}, args...))
	err := root.Execute()
	return out.String(), logs.String(), err
}

func TestDemo_EveryFormat(t *testing.T) {
	prefixes := map[string]string{
		"pdf":  "%PDF-",
		"xlsx": "PK",
		"html": "<!doctype html>",
		"txt":  "",
	}

	for ext, prefix := range prefixes {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "catalogue."+ext)

			out, logs, err := run(t, "demo", "--output", path, "--details")
			require.NoError(t, err)

			data, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(data), prefix), "%s output starts with %q", ext, prefix)
			assert.NotEmpty(t, data)

			assert.Contains(t, out, "✓ "+path)
			assert.Contains(t, out, "("+ext+", ")
			assert.Contains(t, logs, `"message":"document rendered"`)
			assert.Contains(t, logs, `"document_id":`)
		})
	}
}

func TestDemo_FormatFlagOverridesExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.out")

	out, _, err := run(t, "demo", "-o", path, "--format", "txt", "--locale", "en", "--title", "Price list")
	require.NoError(t, err)
	assert.Contains(t, out, "(txt, ")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	testhelpers.AssertContains(t, string(data), "Price list", "Page 1 of ", "Size", "$/case")
}

func TestDemo_RequiresOutput(t *testing.T) {
	_, _, err := run(t, "demo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}

func TestDemo_RejectsInvalidOptions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalogue.pdf")

	_, _, err := run(t, "demo", "-o", path, "--locale", "de")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validate options")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written for invalid options")
}

const renderCSV = `Item Code,Description,Format,Caisse,Category,Class,Qty Min,Qty Max,05-GROS,01-EXP
SM500,Savon moussant,500ML,12,Hygiène,Savons,1,11,"4,50",3.10
SM500,Savon moussant,500ML,12,Hygiène,Savons,12,,"4,20",3.10
BAD,Article,1L,,Hygiène,Savons,x,,1,1
`

func TestRender_CSVWithErrorReport(t *testing.T) {
	dir := t.TempDir()
	input := testhelpers.WriteFile(t, "prix.csv", renderCSV)
	output := filepath.Join(dir, "prix.xlsx")
	report := filepath.Join(dir, "erreurs.xlsx")

	out, logs, err := run(t, "render", "-i", input, "-o", output, "--errors-report", report)
	require.NoError(t, err)
	assert.Contains(t, out, "(xlsx, 1 page, ")
	assert.Contains(t, logs, `"message":"price list imported"`)
	assert.Contains(t, logs, `"valid_rows":2`)
	assert.Contains(t, logs, `"row":4`)

	f, err := excelize.OpenFile(report)
	require.NoError(t, err)
	defer f.Close()
	b2, _ := f.GetCellValue("Errors", "B2")
	assert.Equal(t, "Qty Min", b2)

	doc, err := excelize.OpenFile(output)
	require.NoError(t, err)
	defer doc.Close()
	a1, _ := doc.GetCellValue(doc.GetSheetName(0), "A1")
	assert.Equal(t, "Hygiène", a1)
}

func TestRender_MissingInput(t *testing.T) {
	dir := t.TempDir()
	_, _, err := run(t, "render", "-i", filepath.Join(dir, "absent.csv"), "-o", filepath.Join(dir, "out.pdf"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open input")
}

func TestColumns_Demo(t *testing.T) {
	out, _, err := run(t, "columns", "--demo")
	require.NoError(t, err)

	testhelpers.AssertContains(t, out,
		"Entretien\n",
		"  Dégraissants: 5-GROS* 2-DET 3-IND 4-GREXP 8-PDS ($/L)",
		"Hygiène\n",
		"  Savons: ",
	)
	assert.NotContains(t, out, "1-EXP", "cost column hidden without --details")
}

func TestColumns_Details(t *testing.T) {
	out, _, err := run(t, "columns", "--demo", "--details", "--column", "03-IND")
	require.NoError(t, err)
	assert.Contains(t, out, "3-IND*")
	assert.Contains(t, out, "1-EXP")
}

func TestColumns_NeedsSource(t *testing.T) {
	_, _, err := run(t, "columns")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--input or --demo")
}

func TestPagesLabel(t *testing.T) {
	assert.Equal(t, "1 page", pagesLabel(1))
	assert.Equal(t, "12 pages", pagesLabel(12))
	assert.Equal(t, "1,234 pages", pagesLabel(1234))
}
