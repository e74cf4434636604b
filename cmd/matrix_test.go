package cmd

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"

	"idfctl/internal/matrix"
)

const matrixTestConfig = `metadata:
  default_app: blink
  default_build_type: Debug
  target: esp32c6
  idf_versions:
    - release/v5.5
    - release/v5.4
  build_types:
    - [Debug, Release]
    - [Debug]

apps:
  blink:
    description: Blink an LED
  sensor_hub:
    description: Sensor aggregation demo
    ci_enabled: false

ci_config:
  exclude_combinations:
    - app_name: blink
      build_type: Release
      idf_version: release/v5.5
`

func runForJSON(t *testing.T, run func(*cobra.Command, []string) error) []byte {
	t.Helper()

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := run(cmd, nil); err != nil {
		t.Fatalf("command failed: %v", err)
	}
	return buf.Bytes()
}

func TestRunMatrixGitHubFormat(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	output := runForJSON(t, runMatrix)

	var gh matrix.GitHubMatrix
	if err := json.Unmarshal(output, &gh); err != nil {
		t.Fatalf("Expected GitHub Actions JSON, got %q: %v", output, err)
	}

	// blink: 3 legal rows minus the configured exclusion leaves 2.
	// sensor_hub is not CI-enabled and must not appear.
	if len(gh.Include) != 2 {
		t.Fatalf("Expected 2 matrix rows, got %d: %+v", len(gh.Include), gh.Include)
	}
	for _, row := range gh.Include {
		if row.AppName != "blink" {
			t.Errorf("Expected only blink rows, got %s", row.AppName)
		}
		if row.AppName == "blink" && row.BuildType == "Release" && row.IDFVersion == "release/v5.5" {
			t.Errorf("Excluded combination present in matrix: %+v", row)
		}
	}
}

func TestRunMatrixFullSkipsExclusions(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	oldFull := matrixFull
	matrixFull = true
	defer func() { matrixFull = oldFull }()

	output := runForJSON(t, runMatrix)

	var gh matrix.GitHubMatrix
	if err := json.Unmarshal(output, &gh); err != nil {
		t.Fatalf("Expected GitHub Actions JSON, got %q: %v", output, err)
	}

	// Both apps, all legal rows, no exclusions: 3 per app.
	if len(gh.Include) != 6 {
		t.Fatalf("Expected 6 matrix rows, got %d", len(gh.Include))
	}

	foundSensorHub := false
	for _, row := range gh.Include {
		if row.AppName == "sensor_hub" {
			foundSensorHub = true
		}
		if row.Target != "esp32c6" {
			t.Errorf("Expected target esp32c6, got %s", row.Target)
		}
	}
	if !foundSensorHub {
		t.Error("Expected non-CI app in full matrix")
	}
}

func TestRunMatrixValidateReportsPerRowOutcomes(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	oldValidate := matrixValidate
	matrixValidate = true
	defer func() { matrixValidate = oldValidate }()

	cmd := &cobra.Command{}
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	if err := runMatrix(cmd, nil); err != nil {
		t.Fatalf("matrix --validate failed: %v", err)
	}

	// The matrix JSON on stdout must stay parseable.
	var gh matrix.GitHubMatrix
	if err := json.Unmarshal(out.Bytes(), &gh); err != nil {
		t.Fatalf("Expected GitHub Actions JSON on stdout, got %q: %v", out.String(), err)
	}

	report := errOut.String()
	if !bytes.Contains(errOut.Bytes(), []byte("OK      blink Debug release/v5.5")) {
		t.Errorf("Expected per-row outcome on stderr, got %q", report)
	}
	if !bytes.Contains(errOut.Bytes(), []byte("Validated 2 matrix rows, 0 invalid")) {
		t.Errorf("Expected validation summary on stderr, got %q", report)
	}
	if bytes.Contains(errOut.Bytes(), []byte("INVALID")) {
		t.Errorf("Expected no invalid rows, got %q", report)
	}
}

func TestValidateRowsFlagsInconsistentRow(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	res, err := loadConfiguration()
	if err != nil {
		t.Fatalf("loadConfiguration: %v", err)
	}

	cmd := &cobra.Command{}
	var errOut bytes.Buffer
	cmd.SetErr(&errOut)

	rows := []matrix.Row{
		{AppName: "blink", BuildType: "Release", IDFVersion: "release/v5.4"},
	}
	if err := validateRows(cmd, res, rows); err == nil {
		t.Fatal("Expected error for an invalid row")
	}
	if !bytes.Contains(errOut.Bytes(), []byte("INVALID blink Release release/v5.4")) {
		t.Errorf("Expected invalid row report, got %q", errOut.String())
	}
}

func TestRunCombinationsTextOutput(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runCombinations(cmd, nil); err != nil {
		t.Fatalf("combinations failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"APP", "blink", "sensor_hub", "release/v5.5", "global"} {
		if !bytes.Contains([]byte(output), []byte(want)) {
			t.Errorf("Expected %q in output, got %q", want, output)
		}
	}
}

func TestRunCombinationsAppFilter(t *testing.T) {
	writeTestConfig(t, matrixTestConfig)

	oldApp := combinationsApp
	combinationsApp = "sensor_hub"
	defer func() { combinationsApp = oldApp }()

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runCombinations(cmd, nil); err != nil {
		t.Fatalf("combinations failed: %v", err)
	}
	if bytes.Contains(buf.Bytes(), []byte("blink")) {
		t.Errorf("Expected only sensor_hub rows, got %q", buf.String())
	}
}
