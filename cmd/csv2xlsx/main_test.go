package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx"
	"github.com/ukaji3/csv2xlsx-go/pkg/csv2xlsx/models"
	"github.com/xuri/excelize/v2"
)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func inputDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write input: %v", err)
		}
	}
	return dir
}

func sheetRows(t *testing.T, path, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows(%q) failed: %v", sheet, err)
	}
	return rows
}

func TestRunReportsProgressAndSummary(t *testing.T) {
	in := inputDir(t, map[string]string{
		"sales.csv":  "name,amt\nx,1\n",
		"costs.csv":  "name;amt\ny;2\n",
		"readme.txt": "ignored",
	})
	out := filepath.Join(t.TempDir(), "combined.xlsx")

	stdout, _, err := execute(t, "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	if n := strings.Count(stdout, "adding sheet"); n != 2 {
		t.Errorf("Expected 2 progress lines, got %d:\n%s", n, stdout)
	}
	if !strings.Contains(stdout, "wrote workbook") {
		t.Errorf("Expected completion line, got:\n%s", stdout)
	}
	for _, want := range []string{"SHEET", "costs", "sales", "; (detected)", "2 SHEETS", "0 WARNINGS"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("Expected summary to contain %q, got:\n%s", want, stdout)
		}
	}

	if rows := sheetRows(t, out, "costs"); !reflect.DeepEqual(rows, [][]string{{"name", "amt"}, {"y", "2"}}) {
		t.Errorf("Unexpected rows in costs: %v", rows)
	}
}

func TestRunQuiet(t *testing.T) {
	in := inputDir(t, map[string]string{"a.csv": "1,2\n"})
	out := filepath.Join(t.TempDir(), "out.xlsx")

	stdout, stderr, err := execute(t, "-q", "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if stdout != "" || stderr != "" {
		t.Errorf("Expected no output, got stdout=%q stderr=%q", stdout, stderr)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("Expected workbook: %v", err)
	}
}

func TestRunJSON(t *testing.T) {
	in := inputDir(t, map[string]string{"a.csv": "x\ty\n1\t2\n"})
	out := filepath.Join(t.TempDir(), "out.xlsx")

	stdout, stderr, err := execute(t, "--json", "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}

	var result models.WorkbookResult
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("Expected JSON on stdout, got %q: %v", stdout, err)
	}
	if result.Output != out || len(result.Sheets) != 1 || result.Sheets[0].Delimiter != `\t` {
		t.Errorf("Unexpected result %+v", result)
	}
	if !strings.Contains(stderr, "adding sheet") {
		t.Errorf("Expected progress on stderr, got %q", stderr)
	}
}

func TestRunTabDelimiterEscape(t *testing.T) {
	in := inputDir(t, map[string]string{"a.csv": "x\ty,z\n"})
	out := filepath.Join(t.TempDir(), "out.xlsx")

	if _, _, err := execute(t, "-q", "--delimiter", `\t`, "-i", in, "-o", out); err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if rows := sheetRows(t, out, "a"); !reflect.DeepEqual(rows, [][]string{{"x", "y,z"}}) {
		t.Errorf("Expected tab-split row, got %v", rows)
	}
}

func TestRunConfigPrecedence(t *testing.T) {
	in := inputDir(t, map[string]string{
		"top.csv":     "a;b\n",
		"sub/low.csv": "c;d\n",
	})
	configPath := filepath.Join(t.TempDir(), "csv2xlsx.toml")
	config := "delimiter = \";\"\nrecursive = true\nquiet = true\n"
	if err := os.WriteFile(configPath, []byte(config), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	out := filepath.Join(t.TempDir(), "out.xlsx")

	stdout, _, err := execute(t, "--config", configPath, "--delimiter", ",", "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if stdout != "" {
		t.Errorf("Expected quiet from config, got %q", stdout)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	if got := f.GetSheetList(); !reflect.DeepEqual(got, []string{"low", "top"}) {
		t.Errorf("Expected recursive discovery from config, got %v", got)
	}
	if rows := sheetRows(t, out, "top"); !reflect.DeepEqual(rows, [][]string{{"a;b"}}) {
		t.Errorf("Expected flag delimiter to win, got %v", rows)
	}
}

func TestRunErrors(t *testing.T) {
	in := inputDir(t, map[string]string{"a.csv": "1\n"})
	empty := t.TempDir()
	file := filepath.Join(in, "a.csv")
	out := filepath.Join(t.TempDir(), "out.xlsx")

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"missing input", []string{"-i", filepath.Join(empty, "nope"), "-o", out}, csv2xlsx.ErrNotDirectory},
		{"input is a file", []string{"-i", file, "-o", out}, csv2xlsx.ErrNotDirectory},
		{"no csv files", []string{"-i", empty, "-o", out}, csv2xlsx.ErrNoInputFiles},
		{"bad encoding", []string{"--encoding", "klingon", "-i", in, "-o", out}, nil},
		{"bad delimiter", []string{"--delimiter", "ab", "-i", in, "-o", out}, nil},
		{"missing output flag", []string{"-i", in}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, err := execute(t, tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
			if !strings.Contains(stderr, "Error:") {
				t.Errorf("Expected message on stderr, got %q", stderr)
			}
			if _, err := os.Stat(out); !os.IsNotExist(err) {
				t.Errorf("Expected no workbook, stat returned %v", err)
			}
		})
	}
}
