package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestRunInfoTextOutput(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runInfo(cmd, []string{"blink"}); err != nil {
		t.Fatalf("info failed: %v", err)
	}

	output := buf.String()
	for _, want := range []string{"blink", "Blink an LED", "esp32c6", "release/v5.5"} {
		if !strings.Contains(output, want) {
			t.Errorf("Expected %q in output, got %q", want, output)
		}
	}
}

func TestRunInfoUnknownApp(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := runInfo(cmd, []string{"missing_app"})
	if err == nil {
		t.Fatal("Expected error for unknown app")
	}
	if !strings.Contains(err.Error(), "missing_app") {
		t.Errorf("Expected app name in error, got %v", err)
	}
}

func TestRunInfoSingleField(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	cases := []struct {
		field string
		want  string
	}{
		{"source_file", "main/blink.c\n"},
		{"category", "basic\n"},
		{"target", "esp32c6\n"},
		{"ci_enabled", "true\n"},
		{"idf_versions", "release/v5.5 release/v5.4\n"},
	}

	for _, tc := range cases {
		cmd := &cobra.Command{}
		var buf bytes.Buffer
		cmd.SetOut(&buf)

		if err := runInfo(cmd, []string{"blink", tc.field}); err != nil {
			t.Fatalf("info %s failed: %v", tc.field, err)
		}
		if buf.String() != tc.want {
			t.Errorf("info blink %s = %q, want %q", tc.field, buf.String(), tc.want)
		}
	}
}

func TestRunInfoBuildTypesField(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	if err := runInfo(cmd, []string{"blink", "build_types"}); err != nil {
		t.Fatalf("info build_types failed: %v", err)
	}

	// One line per effective IDF version, in declaration order.
	want := "release/v5.5: Debug Release\nrelease/v5.4: Debug\n"
	if buf.String() != want {
		t.Errorf("info blink build_types = %q, want %q", buf.String(), want)
	}
}

func TestRunInfoUnknownField(t *testing.T) {
	writeTestConfig(t, rootTestConfig)

	cmd := &cobra.Command{}
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	err := runInfo(cmd, []string{"blink", "bogus_field"})
	if err == nil {
		t.Fatal("Expected error for unknown field")
	}
	if !strings.Contains(err.Error(), "bogus_field") {
		t.Errorf("Expected field name in error, got %v", err)
	}
}
