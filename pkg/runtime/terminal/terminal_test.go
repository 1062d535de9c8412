package terminal

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/de-tools/shopping-atlas/pkg/store/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const csvData = `Customer ID,Age,Gender,Item Purchased,Category,Purchase Amount (USD),Location,Season
1,25,Male,Boots,Footwear,50,Maine,Winter
2,30,Female,Sandals,Footwear,30,Ohio,Summer
3,41,Male,Jacket,Outerwear,80,Texas,Winter
`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shopping_trends.csv")
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cli := NewCLI(Options{Output: &out, LogOutput: io.Discard})
	cli.rootCmd.SetArgs(args)
	err := cli.Execute()
	return out.String(), err
}

func TestCLI_Render(t *testing.T) {
	out, err := run(t, "render", "--dataset", writeDataset(t), "--gender", "Male")
	require.NoError(t, err)

	assert.Contains(t, out, "Shopping trends: 2 purchases match")
	assert.Contains(t, out, "Average purchase amount (Male): 65.00")
	assert.Contains(t, out, "Average purchase amount (Female): no data")
}

func TestCLI_Render_EmptySelection(t *testing.T) {
	out, err := run(t, "render", "--dataset", writeDataset(t), "--category", "")
	require.NoError(t, err)

	assert.Contains(t, out, "Shopping trends: 0 purchases match")
	assert.Contains(t, out, "Nothing selected for: category")
}

func TestCLI_Render_DuckDBEngine(t *testing.T) {
	t.Setenv("ATLAS_DASHBOARD_ENGINE", "duckdb")

	out, err := run(t, "render", "--dataset", writeDataset(t), "--amount-max", "60")
	require.NoError(t, err)

	assert.Contains(t, out, "Shopping trends: 2 purchases match")
	assert.Contains(t, out, "Average purchase amount (Male): 50.00")
}

func TestCLI_Render_Errors(t *testing.T) {
	_, err := run(t, "render", "--dataset", filepath.Join(t.TempDir(), "absent.csv"))
	assert.ErrorIs(t, err, dataset.ErrMissingFile)

	_, err = run(t, "render", "--dataset", writeDataset(t), "--age-min", "50", "--age-max", "20")
	assert.Error(t, err)

	_, err = run(t, "render", "--dataset", writeDataset(t), "--amount-min", "cheap")
	assert.Error(t, err)
}

func TestCLI_Charts(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "charts")

	out, err := run(t, "charts", "--dataset", writeDataset(t), "--out", dir)
	require.NoError(t, err)

	for _, name := range []string{"category_counts", "season_mean", "age_histogram", "item_share", "gender_share", "gender_mean"} {
		data, err := os.ReadFile(filepath.Join(dir, name+".png"))
		require.NoError(t, err, name)
		assert.Equal(t, []byte("\x89PNG"), data[:4], name)
	}
	assert.Contains(t, out, "Purchases by category:")
}

func TestCLI_Charts_NoData(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "charts", "--dataset", writeDataset(t), "--out", dir, "--item", "")
	require.NoError(t, err)

	assert.Contains(t, out, "Purchases by category: no data")
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestCLI_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "atlas.xlsx")

	out, err := run(t, "export", "--dataset", writeDataset(t), "--out", path, "--gender", "Female")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 1 rows to")

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rows")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Location", rows[0][7])
	assert.Equal(t, "Ohio", rows[1][7])
}

func TestCLI_Profiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "datasets.ini")
	content := "[retail]\npath = shopping_trends.csv\n\n[archive]\npath = s3://retail/shopping_trends.csv\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	out, err := run(t, "profiles", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Name: `retail`, Type: `file`, Path: `shopping_trends.csv`")
	assert.Contains(t, out, "Name: `archive`, Type: `s3`, Path: `s3://retail/shopping_trends.csv`")
}

func TestCLI_Profile_Dataset(t *testing.T) {
	profiles := filepath.Join(t.TempDir(), "datasets.ini")
	content := "[local]\npath = " + writeDataset(t) + "\n"
	require.NoError(t, os.WriteFile(profiles, []byte(content), 0o600))
	t.Setenv("ATLAS_DATASET_PROFILES", profiles)

	out, err := run(t, "render", "--profile", "local")
	require.NoError(t, err)
	assert.Contains(t, out, "Shopping trends: 3 purchases match")
}
