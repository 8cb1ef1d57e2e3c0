package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/accidentprep/internal/cli/testutil"
)

// execute runs the root command with args and returns stdout and stderr.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

type jsonReport struct {
	RunID string `json:"run_id"`
	Input string `json:"input"`
	Raw   struct {
		Rows       int `json:"rows"`
		Duplicates int `json:"duplicates"`
	} `json:"raw"`
	Positives int      `json:"positives"`
	Dropped   []string `json:"dropped"`
	Output    string   `json:"output"`
	Features  *struct {
		Numeric     []string `json:"numeric"`
		Categorical []string `json:"categorical"`
	} `json:"features"`
	Shapes *struct {
		XTrain []int `json:"x_train"`
		XTest  []int `json:"x_test"`
		YTrain []int `json:"y_train"`
		YTest  []int `json:"y_test"`
	} `json:"shapes"`
	Transformed *struct {
		XTrain []int `json:"x_train"`
		XTest  []int `json:"x_test"`
	} `json:"transformed"`
}

func decodeReport(t *testing.T, s string) jsonReport {
	t.Helper()
	var rep jsonReport
	require.NoError(t, json.Unmarshal([]byte(s), &rep), "output: %s", s)
	return rep
}

func TestRun_JSON(t *testing.T) {
	dir := testutil.SetupTestProject(t, 60, 3)

	stdout, _, err := execute(t, "run", "-f", "json")
	require.NoError(t, err)

	rep := decodeReport(t, stdout)
	assert.NotEmpty(t, rep.RunID)
	assert.Equal(t, "Accident.csv", rep.Input)
	assert.Equal(t, 63, rep.Raw.Rows)
	assert.Equal(t, 3, rep.Raw.Duplicates)
	assert.Equal(t, 20, rep.Positives)
	assert.Equal(t, "Accident_cleaned.csv", rep.Output)
	require.NotNil(t, rep.Features)
	assert.Equal(t, []string{"Weather", "Road Type"}, rep.Features.Categorical)
	require.NotNil(t, rep.Shapes)
	assert.Equal(t, []int{48, 8}, rep.Shapes.XTrain)
	assert.Equal(t, []int{12, 8}, rep.Shapes.XTest)
	assert.Equal(t, []int{48}, rep.Shapes.YTrain)
	assert.Equal(t, []int{12}, rep.Shapes.YTest)
	assert.Nil(t, rep.Transformed)

	assert.True(t, testutil.FileExists(dir, "Accident_cleaned.csv"))
}

func TestRun_FitPlan(t *testing.T) {
	testutil.SetupTestProject(t, 60, 0)

	stdout, _, err := execute(t, "run", "--fit-plan", "-f", "json")
	require.NoError(t, err)

	rep := decodeReport(t, stdout)
	require.NotNil(t, rep.Transformed)
	assert.Equal(t, 48, rep.Transformed.XTrain[0])
	assert.Equal(t, 12, rep.Transformed.XTest[0])
	assert.Equal(t, rep.Transformed.XTrain[1], rep.Transformed.XTest[1])
	// 6 scaled numeric columns plus at least one indicator per category
	assert.Greater(t, rep.Transformed.XTrain[1], 6)
}

func TestRun_Markdown(t *testing.T) {
	testutil.SetupTestProject(t, 60, 3)

	stdout, stderr, err := execute(t, "run", "-f", "markdown")
	require.NoError(t, err)

	testutil.AssertNoANSI(t, stdout)
	testutil.AssertValidMarkdown(t, stdout)
	for _, want := range []string{"# Before cleaning", "# Cleaning", "# After cleaning", "# Features", "# Split", "X_train", "(48, 8)", "(12,)"} {
		assert.Contains(t, stdout, want)
	}
	assert.Contains(t, stderr, "Cleaned table written to Accident_cleaned.csv")
	assert.Contains(t, stderr, "5 dates could not be parsed")
	assert.Contains(t, stderr, "driver ages were missing or out of range")
}

func TestRun_YAML(t *testing.T) {
	testutil.SetupTestProject(t, 60, 0)

	stdout, _, err := execute(t, "run", "-f", "yaml")
	require.NoError(t, err)
	assert.Contains(t, stdout, "run_id:")
	assert.Contains(t, stdout, "shapes:")
	assert.Contains(t, stdout, "x_train:")
	assert.NotContains(t, stdout, `"run_id"`)
}

func TestRun_OutputFlagAndArgument(t *testing.T) {
	dir := testutil.SetupTestProject(t, 30, 0)
	require.NoError(t, os.Rename(filepath.Join(dir, "Accident.csv"), filepath.Join(dir, "raw.csv")))

	stdout, _, err := execute(t, "run", "raw.csv", "-O", "clean.csv", "-f", "json")
	require.NoError(t, err)

	rep := decodeReport(t, stdout)
	assert.Equal(t, "raw.csv", rep.Input)
	assert.Equal(t, "clean.csv", rep.Output)
	assert.True(t, testutil.FileExists(dir, "clean.csv"))
	assert.False(t, testutil.FileExists(dir, "Accident_cleaned.csv"))
}

func TestRun_SQLiteSink(t *testing.T) {
	dir := testutil.SetupTestProject(t, 30, 0)

	stdout, _, err := execute(t, "run", "--sink", "sqlite", "-O", "clean.db", "--table", "accidents", "-f", "json")
	require.NoError(t, err)

	rep := decodeReport(t, stdout)
	assert.Equal(t, "clean.db#accidents", rep.Output)
	assert.True(t, testutil.FileExists(dir, "clean.db"))
}

func TestRun_ConfigPrecedence(t *testing.T) {
	dir := testutil.SetupTestProject(t, 60, 0)
	testutil.WriteConfig(t, dir, `
split:
  test_fraction: 0.5
sink:
  path: from-config.csv
output: json
`)

	stdout, _, err := execute(t, "run")
	require.NoError(t, err)
	rep := decodeReport(t, stdout)
	assert.Equal(t, []int{30}, rep.Shapes.YTest)
	assert.Equal(t, "from-config.csv", rep.Output)

	t.Setenv("ACCIDENTPREP_SPLIT__TEST_FRACTION", "0.3")
	stdout, _, err = execute(t, "run")
	require.NoError(t, err)
	assert.Equal(t, []int{18}, decodeReport(t, stdout).Shapes.YTest)

	stdout, _, err = execute(t, "run", "--test-fraction", "0.25")
	require.NoError(t, err)
	assert.Equal(t, []int{15}, decodeReport(t, stdout).Shapes.YTest)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		errSubstr string
	}{
		{
			name:      "missing input",
			args:      []string{"run", "absent.csv"},
			errSubstr: "load: ",
		},
		{
			name:      "unknown sink",
			args:      []string{"run", "--sink", "parquet"},
			errSubstr: "unknown sink type \"parquet\"",
		},
		{
			name:      "bad fraction",
			args:      []string{"run", "--test-fraction", "0"},
			errSubstr: "split.test_fraction",
		},
		{
			name:      "bad format",
			args:      []string{"run", "-f", "html"},
			errSubstr: "output must be one of",
		},
		{
			name:      "too many arguments",
			args:      []string{"run", "a.csv", "b.csv"},
			errSubstr: "accepts at most 1 arg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := testutil.SetupTestProject(t, 30, 0)
			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.False(t, testutil.FileExists(dir, "Accident_cleaned.csv"))
		})
	}
}

func TestProfile(t *testing.T) {
	dir := testutil.SetupTestProject(t, 40, 2)

	stdout, _, err := execute(t, "profile", "-f", "markdown")
	require.NoError(t, err)
	testutil.AssertValidMarkdown(t, stdout)
	assert.Contains(t, stdout, "# Before cleaning")
	assert.Contains(t, stdout, "Driver age")
	assert.NotContains(t, stdout, "# After cleaning")
	assert.Contains(t, stdout, "_Profile only: nothing was cleaned or written._")
	assert.False(t, testutil.FileExists(dir, "Accident_cleaned.csv"))

	stdout, _, err = execute(t, "profile", "-f", "json")
	require.NoError(t, err)
	rep := decodeReport(t, stdout)
	assert.Equal(t, 42, rep.Raw.Rows)
	assert.Equal(t, 2, rep.Raw.Duplicates)
	assert.Nil(t, rep.Shapes)
}

func TestVersionAndCompletion(t *testing.T) {
	testutil.SetupTestProject(t, 10, 0)

	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, stdout, "accidentprep v"+Version)

	stdout, _, err = execute(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "accidentprep "+Version, strings.TrimSpace(stdout))

	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		stdout, _, err = execute(t, "completion", shell)
		require.NoError(t, err, shell)
		assert.Contains(t, stdout, "accidentprep", shell)
	}

	_, _, err = execute(t, "completion", "tcsh")
	require.Error(t, err)
}

func TestVerboseLogsToStderr(t *testing.T) {
	dir := testutil.SetupTestProject(t, 30, 0)
	testutil.WriteConfig(t, dir, "output: json\n")

	stdout, stderr, err := execute(t, "run", "-v")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Using config file: accidentprep.yaml")
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "stage=split")
	decodeReport(t, stdout)
}
