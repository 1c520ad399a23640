package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

// runCmd executes the command tree with args and returns what it printed.
func runCmd(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("LOG_FILE", "-")
	t.Setenv("LOG_LEVEL", "error")

	var stdout, stderr bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--env-file", ""}, args...))

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestAnalyzeMarkdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "extrato.csv", "data;valor;historico\n2024-01-02;10,5;PIX\n2024-01-03;;TED\n")

	stdout, stderr, err := runCmd(t, "analyze", path)
	if err != nil {
		t.Fatalf("analyze error = %v (stderr %q)", err, stderr)
	}

	for _, want := range []string{
		"## " + path,
		"Rows: 2",
		"Columns: 3",
		"| historico | object | 2 | 0 | PIX, TED |",
		"```json",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestAnalyzeJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.csv", "id,name\n1,x\n2,y\n")
	b := writeFile(t, dir, "b.txt", "id\tqty\n1\t3\n")

	stdout, _, err := runCmd(t, "analyze", "--format", "json", a, b)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var reports []struct {
		FileName  string `json:"file_name"`
		TotalRows int    `json:"total_rows"`
		Columns   []struct {
			Name         string `json:"name"`
			InferredType string `json:"inferred_type"`
		} `json:"columns"`
	}
	if err := json.Unmarshal([]byte(stdout), &reports); err != nil {
		t.Fatalf("stdout is not a JSON array: %v\n%s", err, stdout)
	}
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}
	if reports[0].FileName != a || reports[1].FileName != b {
		t.Errorf("report order = %q, %q; want %q, %q", reports[0].FileName, reports[1].FileName, a, b)
	}
	if reports[1].TotalRows != 1 || len(reports[1].Columns) != 2 {
		t.Errorf("b.txt report = %+v, want 1 row and 2 columns", reports[1])
	}
	if got := reports[0].Columns[0].InferredType; got != "int64" {
		t.Errorf("id type = %q, want int64", got)
	}
}

func TestAnalyzeYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.csv", "id,name\n1,x\n")

	stdout, _, err := runCmd(t, "analyze", "-f", "yaml", path)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}

	var report map[string]any
	if err := yaml.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("stdout is not YAML: %v\n%s", err, stdout)
	}
	if report["total_rows"] != 1 {
		t.Errorf("total_rows = %v, want 1", report["total_rows"])
	}
}

func TestAnalyzeContinuesPastFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.csv", "a,b\n1,2\n")
	bad := writeFile(t, dir, "scan.pdf", "%PDF-1.4")
	missing := filepath.Join(dir, "missing.csv")

	stdout, stderr, err := runCmd(t, "analyze", bad, missing, good)
	if err == nil {
		t.Fatal("analyze error = nil, want failure for bad files")
	}
	if !strings.Contains(err.Error(), "2 of 3 files failed") {
		t.Errorf("error = %v, want the failure count", err)
	}

	if !strings.Contains(stdout, "## "+good) {
		t.Errorf("stdout missing the good report:\n%s", stdout)
	}
	for _, want := range []string{"✗ " + bad + ":", "✗ " + missing + ":"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestAnalyzeRejectsUnknownFormat(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.csv", "a\n1\n")

	_, _, err := runCmd(t, "analyze", "--format", "xml", path)
	if err == nil || !strings.Contains(err.Error(), "unsupported --format") {
		t.Errorf("error = %v, want unsupported --format", err)
	}
}

func TestAnalyzeRequiresFiles(t *testing.T) {
	if _, _, err := runCmd(t, "analyze"); err == nil {
		t.Error("analyze with no files: error = nil, want an argument error")
	}
}

func TestEnvFileFeedsConfig(t *testing.T) {
	dir := t.TempDir()
	env := writeFile(t, dir, "test.env", "ANALYSIS_EXAMPLE_VALUES=1\n")
	path := writeFile(t, dir, "a.csv", "n\n1\n2\n3\n")
	t.Setenv("ANALYSIS_EXAMPLE_VALUES", "5")

	stdout, _, err := runCmd(t, "--env-file", env, "analyze", "-f", "json", path)
	if err != nil {
		t.Fatalf("analyze error = %v", err)
	}
	var reports []struct {
		Columns []struct {
			ExampleValues []any `json:"example_values"`
		} `json:"columns"`
	}
	if err := json.Unmarshal([]byte(stdout), &reports); err != nil {
		t.Fatalf("stdout is not a JSON array: %v", err)
	}
	if got := len(reports[0].Columns[0].ExampleValues); got != 1 {
		t.Errorf("example values = %d, want 1 from the env file", got)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	path := writeFile(t, t.TempDir(), "a.csv", "a\n1\n")
	t.Setenv("SERVER_PORT", "not-a-port")

	if _, _, err := runCmd(t, "analyze", path); err == nil {
		t.Error("error = nil, want config error")
	}
}
