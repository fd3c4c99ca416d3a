package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRootCommand_PrintsVersion(t *testing.T) {
	isolate(t)
	cmd := newRootCmd()

	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs([]string{"--version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(out.String(), version) {
		t.Fatalf("expected output to include version, got %q", out.String())
	}
}

func TestRootCommand_RejectsUnknownMode(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "--mode", "delete")
	if err == nil {
		t.Fatalf("expected error, got nil (output %q)", out)
	}
}

func TestRootCommand_RejectsMissingSource(t *testing.T) {
	dir := isolate(t)
	_, _, err := execute(t, "--src", filepath.Join(dir, "missing"), "--dest", dir, "--log-file=")
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestRootCommand_DryRunByDefault(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "inbox")
	dest := filepath.Join(dir, "library")
	writeFile(t, src, "IMG_20240102_030405.jpg")
	writeFile(t, src, "VID_20130730_111421.mp4")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, logs, err := execute(t, "--src", src, "--dest", dest, "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	entries, _ := os.ReadDir(dest)
	if len(entries) != 0 {
		t.Fatalf("dry run created entries: %v", entries)
	}
	if !strings.Contains(out, "Simulated") || !strings.Contains(out, "Found 2 files, relocated 0 (dryrun") {
		t.Fatalf("unexpected summary: %q", out)
	}
	if !strings.Contains(logs, "would have moved or copied") {
		t.Fatalf("expected simulated relocations in the log, got %q", logs)
	}
}

func TestRootCommand_Copy(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "inbox")
	dest := filepath.Join(dir, "library")
	writeFile(t, src, "IMG_20240102_030405.jpg")
	writeFile(t, src, "sub/VID_20130730_111421.mp4")
	writeFile(t, src, "sub/.thumbs/IMG_20200101_000000.jpg")
	writeFile(t, src, "album.json")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, _, err := execute(t, "-m", "copy", "-s", src, "-d", dest)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, rel := range []string{"2024/01/IMG_20240102_030405.jpg", "2013/07/VID_20130730_111421.mp4"} {
		if _, err := os.Stat(filepath.Join(dest, filepath.FromSlash(rel))); err != nil {
			t.Errorf("file was not copied to %s: %v", rel, err)
		}
	}
	if !strings.Contains(out, "Copied") {
		t.Fatalf("expected outcome labels in summary, got %q", out)
	}
	if !strings.Contains(out, "Found 2 files, relocated 2 (copy") {
		t.Fatalf("unexpected summary: %q", out)
	}

	// The default log file lands in the working directory.
	data, err := os.ReadFile(filepath.Join(dir, "mediasort.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "copied") || !strings.Contains(string(data), "run_id=") {
		t.Fatalf("unexpected log file content: %q", data)
	}
}

func TestRootCommand_ConfigFileAndFlagPrecedence(t *testing.T) {
	dir := isolate(t)
	src := filepath.Join(dir, "inbox")
	dest := filepath.Join(dir, "library")
	writeFile(t, src, "IMG_20240102_030405.jpg")
	if err := os.MkdirAll(dest, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	cfgPath := filepath.Join(dir, "custom.toml")
	body := "mode = \"copy\"\nsrc = \"" + filepath.ToSlash(src) + "\"\ndest = \"" + filepath.ToSlash(dest) + "\"\n[log]\nfile = \"\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	// The flag overrides the file's copy mode.
	out, _, err := execute(t, "--config", cfgPath, "--mode", "dryrun")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "relocated 0 (dryrun") {
		t.Fatalf("expected flag to win over config, got %q", out)
	}

	out, _, err = execute(t, "--config", cfgPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(out, "relocated 1 (copy") {
		t.Fatalf("expected config mode to apply, got %q", out)
	}
	if _, err := os.Stat(filepath.Join(dir, "mediasort.log")); !os.IsNotExist(err) {
		t.Fatalf("expected no log file when disabled in config, got %v", err)
	}
}

func TestRootCommand_ImplausibleYearFlag(t *testing.T) {
	dir := isolate(t)
	writeFile(t, dir, "in/IMG_20240102_030405.jpg")

	_, logs, err := execute(t, "-s", filepath.Join(dir, "in"), "-d", dir, "--max-year", "2000", "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !strings.Contains(logs, "implausible capture year") {
		t.Fatalf("expected plausibility warning, got %q", logs)
	}
}

func TestScanCommand_RequiresOneArg(t *testing.T) {
	isolate(t)
	if _, _, err := execute(t, "scan"); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestScanCommand_PrintsCandidates(t *testing.T) {
	dir := isolate(t)
	root := filepath.Join(dir, "tree")

	writeFile(t, root, "a.jpg")
	writeFile(t, root, "desktop.ini")
	writeFile(t, root, ".hidden/b.jpg")
	writeFile(t, root, "sub/c.mp4")

	out, _, err := execute(t, "scan", root, "--max-depth", "0", "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.TrimSpace(out) != "a.jpg" {
		t.Fatalf("expected only top-level candidate, got %q", out)
	}

	out, _, err = execute(t, "scan", root, "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if strings.TrimSpace(out) != "a.jpg\nsub/c.mp4" {
		t.Fatalf("unexpected candidates: %q", out)
	}
}

func TestScanCommand_JSONOutput(t *testing.T) {
	dir := isolate(t)
	root := filepath.Join(dir, "tree")
	writeFile(t, root, "a.jpg")
	writeFile(t, root, "b.json")

	out, _, err := execute(t, "scan", root, "--json", "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var records []struct {
		Path          string    `json:"path"`
		FileSizeBytes int64     `json:"file_size_bytes"`
		ModTime       time.Time `json:"mod_time"`
	}
	if err := json.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("failed to parse JSON: %v", err)
	}
	if len(records) != 1 || records[0].Path != "a.jpg" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[0].FileSizeBytes <= 0 || records[0].ModTime.IsZero() {
		t.Fatalf("expected size and mod time, got %+v", records[0])
	}
}

func TestDuplicatesCommand(t *testing.T) {
	dir := isolate(t)
	dest := filepath.Join(dir, "library")
	src := filepath.Join(dir, "inbox")

	writeFile(t, dest, "2013/07/a.jpg")
	writeFile(t, dest, "2014/01/a.jpg")
	writeFile(t, dest, "2014/01/b.jpg")
	writeFile(t, src, "b.jpg")
	writeFile(t, src, "c.jpg")

	out, logs, err := execute(t, "duplicates", "--dest", dest, "--src", src, "--log-file=")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !strings.Contains(out, "2 names indexed, 1 found in more than one directory") {
		t.Fatalf("unexpected duplicate summary: %q", out)
	}
	if !strings.Contains(out, filepath.Join(dest, "2013", "07")) || !strings.Contains(out, filepath.Join(dest, "2014", "01")) {
		t.Fatalf("expected both directories in the table, got %q", out)
	}
	if !strings.Contains(out, "1 source files not found in "+dest) {
		t.Fatalf("unexpected missing summary: %q", out)
	}
	if !strings.Contains(logs, "possible duplicate") || !strings.Contains(logs, "c.jpg") {
		t.Fatalf("unexpected logs: %q", logs)
	}
}

func TestDuplicatesCommand_RequiresDirectory(t *testing.T) {
	dir := isolate(t)
	if _, _, err := execute(t, "duplicates", "--dest", filepath.Join(dir, "missing"), "--log-file="); err == nil {
		t.Fatalf("expected error, got nil")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "conf", "mediasort.toml")

	out, _, err := execute(t, "config", "init", "--path", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, path) {
		t.Fatalf("expected path in output, got %q", out)
	}

	if _, _, err := execute(t, "config", "init", "--path", path); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}

	out, _, err = execute(t, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "Configuration OK ("+path+")") || !strings.Contains(out, "dryrun") {
		t.Fatalf("unexpected validate output: %q", out)
	}
}

// isolate points HOME and the working directory at a fresh temp dir so that
// no user config is read and no log file lands in the source tree.
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("NO_COLOR", "1")
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd()
	out := new(bytes.Buffer)
	errOut := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, dir string, relPath string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(relPath))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(relPath), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
}
