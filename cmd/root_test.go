package cmd

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"idfctl/pkg/logging"
)

func TestMain(m *testing.M) {
	logging.InitForCLI(logging.LevelError, io.Discard)
	os.Exit(m.Run())
}

func TestSetVersion(t *testing.T) {
	// Test setting version
	testVersion := "1.2.3-test"
	SetVersion(testVersion)

	if rootCmd.Version != testVersion {
		t.Errorf("Expected version to be %s, got %s", testVersion, rootCmd.Version)
	}
}

func TestRootCommand(t *testing.T) {
	// Test root command properties
	if rootCmd.Use != "idfctl" {
		t.Errorf("Expected Use to be 'idfctl', got %s", rootCmd.Use)
	}

	if rootCmd.Short == "" {
		t.Error("Expected Short description to be set")
	}

	if rootCmd.Long == "" {
		t.Error("Expected Long description to be set")
	}

	if !rootCmd.SilenceUsage {
		t.Error("Expected SilenceUsage to be true")
	}
}

func TestVersionTemplate(t *testing.T) {
	// Create a new command to test version template
	testCmd := &cobra.Command{
		Use:     "test",
		Version: "1.0.0",
	}

	// Set the same version template as in Execute()
	testCmd.SetVersionTemplate(`{{printf "idfctl version %s\n" .Version}}`)

	var buf bytes.Buffer
	testCmd.SetOut(&buf)

	testCmd.SetArgs([]string{"--version"})
	err := testCmd.Execute()
	if err != nil {
		t.Fatalf("Error executing version command: %v", err)
	}

	output := buf.String()
	expected := "idfctl version 1.0.0\n"
	if output != expected {
		t.Errorf("Expected version output %q, got %q", expected, output)
	}
}

func TestSubcommands(t *testing.T) {
	// Test that subcommands are added
	commands := rootCmd.Commands()

	expectedCommands := []string{
		"version", "self-update", "list", "info",
		"validate", "combinations", "matrix", "resolve", "serve",
	}
	foundCommands := make(map[string]bool)

	for _, cmd := range commands {
		foundCommands[cmd.Name()] = true
	}

	for _, expected := range expectedCommands {
		if !foundCommands[expected] {
			t.Errorf("Expected subcommand %q to be registered", expected)
		}
	}
}

func TestPersistentFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"project-path", "format", "verbose"} {
		if flags.Lookup(name) == nil {
			t.Errorf("Expected persistent flag %q to be registered", name)
		}
	}

	if got := flags.Lookup("format").DefValue; got != "text" {
		t.Errorf("Expected format default to be 'text', got %s", got)
	}
}

// writeTestConfig writes a minimal configuration file into a temp directory
// and points --project-path at it for the duration of the test.
func writeTestConfig(t *testing.T, content string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "app_config.yml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing test config: %v", err)
	}

	oldPath, oldFormat := projectPath, outputFormat
	projectPath = dir
	t.Cleanup(func() {
		projectPath = oldPath
		outputFormat = oldFormat
	})
}

const rootTestConfig = `metadata:
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
    source_file: main/blink.c
    category: basic

  sensor_hub:
    description: Sensor aggregation demo
    idf_versions:
      - release/v5.5
    ci_enabled: false
`

func TestLoadConfigurationFromProjectPath(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	res, err := loadConfiguration()
	if err != nil {
		t.Fatalf("loadConfiguration: %v", err)
	}

	if res.Model.Metadata.DefaultApp != "blink" {
		t.Errorf("Expected default_app 'blink', got %s", res.Model.Metadata.DefaultApp)
	}
	if len(res.Model.AppOrder) != 2 {
		t.Errorf("Expected 2 apps, got %d", len(res.Model.AppOrder))
	}
}

func TestPrintOutputFormats(t *testing.T) {
	type payload struct {
		Name string `json:"name" yaml:"name"`
	}

	cases := []struct {
		format string
		want   string
	}{
		{"text", "hello\n"},
		{"json", "{\n  \"name\": \"blink\"\n}\n"},
		{"yaml", "name: blink\n"},
	}

	oldFormat := outputFormat
	defer func() { outputFormat = oldFormat }()

	for _, tc := range cases {
		outputFormat = tc.format

		cmd := &cobra.Command{}
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		err := printOutput(cmd, payload{Name: "blink"}, func() string { return "hello" })
		if err != nil {
			t.Fatalf("printOutput(%s): %v", tc.format, err)
		}
		if buf.String() != tc.want {
			t.Errorf("printOutput(%s) = %q, want %q", tc.format, buf.String(), tc.want)
		}
	}
}

func TestPrintOutputUnknownFormat(t *testing.T) {
	oldFormat := outputFormat
	defer func() { outputFormat = oldFormat }()
	outputFormat = "xml"

	cmd := &cobra.Command{}
	err := printOutput(cmd, nil, func() string { return "" })
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("Expected unknown format error, got %v", err)
	}
}
