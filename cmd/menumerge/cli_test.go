package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"menumerge/internal/config"
	"menumerge/internal/history"
	"menumerge/internal/reconcile"
	"menumerge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("MENUMERGE_DATA_DIR", "")
	t.Setenv("MENUMERGE_LOG_LEVEL", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func writeInputs(t *testing.T, env *cliTestEnv) (string, string) {
	t.Helper()
	osm := map[string]any{
		"origin": "osm",
		"restaurants": []map[string]any{
			{"id": "node-1", "name": "The Corner Bistro", "latitude": 41.8781, "longitude": -87.6298, "phone": "312-555-0100", "cuisine": "french"},
			{"id": "node-2", "name": "Avec", "latitude": 41.8843, "longitude": -87.6428},
		},
	}
	yelp := map[string]any{
		"all_restaurants": []map[string]any{
			{"id": "cb-1", "name": "Corner Bistro Restaurant", "latitude": 41.8784, "longitude": -87.6298, "phone": "(312) 555-0100", "rating": 4.5},
		},
	}
	pathA := filepath.Join(env.baseDir, "osm.json")
	pathB := filepath.Join(env.baseDir, "yelp.json")
	testsupport.WriteJSON(t, pathA, osm)
	testsupport.WriteJSON(t, pathB, yelp)
	return pathA, pathB
}

func TestMatchWritesReportAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA, pathB := writeInputs(t, env)
	outPath := filepath.Join(env.baseDir, "out", "merged.json")

	stdout, _, err := runCLI(t, env, "match", "--a", pathA, "--b", pathB, "--out", outPath)
	if err != nil {
		t.Fatalf("match: %v", err)
	}

	// stdout is not a terminal, so auto format yields JSON.
	var report reconcile.RestaurantReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode stdout: %v (%q)", err, stdout)
	}
	if report.Stats.Matches != 1 || len(report.Records) != 2 {
		t.Fatalf("unexpected report: %+v", report.Stats)
	}
	if report.Records[0].ID != "merged_node-1_cb-1" || report.Records[1].ID != "osm_only_node-2" {
		t.Fatalf("unexpected record ids: %s, %s", report.Records[0].ID, report.Records[1].ID)
	}
	if report.Records[0].SourceIDs["yelp"] != "cb-1" {
		t.Fatalf("expected origin from file name, got %v", report.Records[0].SourceIDs)
	}

	written, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read output file: %v", err)
	}
	requireContains(t, string(written), report.RunID)

	stdout, _, err = runCLI(t, env, "runs", "list", "--json")
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	var runs []history.Run
	if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
		t.Fatalf("decode runs: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != report.RunID || runs[0].Kind != history.KindRestaurants {
		t.Fatalf("unexpected runs: %+v", runs)
	}

	stdout, _, err = runCLI(t, env, "--format", "table", "runs", "show", report.RunID)
	if err != nil {
		t.Fatalf("runs show: %v", err)
	}
	requireContains(t, stdout, "Match rate")
	requireContains(t, stdout, "merged_node-1_cb-1")
	requireContains(t, stdout, "Corner Bistro Restaurant")
}

func TestMatchTableOutput(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithHistory(false))
	pathA, pathB := writeInputs(t, env)

	stdout, _, err := runCLI(t, env, "--format", "table", "match", "--a", pathA, "--b", pathB, "--assignment", "optimal")
	if err != nil {
		t.Fatalf("match: %v", err)
	}
	requireContains(t, stdout, "optimal assignment")
	requireContains(t, stdout, "Corner Bistro Restaurant")
	requireContains(t, stdout, "osm_only_node-2")

	_, _, err = runCLI(t, env, "runs", "list")
	if !errors.Is(err, errHistoryDisabled) {
		t.Fatalf("expected history disabled error, got %v", err)
	}
}

func TestMatchInputErrorsUseExitCodes(t *testing.T) {
	env := setupCLITestEnv(t)
	pathA, _ := writeInputs(t, env)
	bad := filepath.Join(env.baseDir, "bad.json")
	testsupport.WriteJSON(t, bad, map[string]any{
		"origin":      "yelp",
		"restaurants": []map[string]any{{"id": "1", "name": nil}},
	})

	_, _, err := runCLI(t, env, "match", "--a", pathA, "--b", bad)
	if err == nil || exitCode(err) != 2 {
		t.Fatalf("expected validation exit code 2, got %v (code %d)", err, exitCode(err))
	}

	_, _, err = runCLI(t, env, "match", "--a", pathA, "--b", filepath.Join(env.baseDir, "missing.json"))
	if err == nil || exitCode(err) != 2 {
		t.Fatalf("expected input exit code 2, got %v", err)
	}

	_, _, err = runCLI(t, env, "match", "--a", pathA, "--b", pathA, "--assignment", "random")
	if err == nil || exitCode(err) != 1 {
		t.Fatalf("expected generic failure for bad assignment, got %v", err)
	}
}

func TestAggregateCapsAndRecords(t *testing.T) {
	env := setupCLITestEnv(t)
	path := filepath.Join(env.baseDir, "candidates.json")
	testsupport.WriteJSON(t, path, map[string]any{
		"candidates": []map[string]any{
			{"name": "Caesar Salad", "price": "$9", "confidence": 0.6, "source": "css"},
			{"name": "caesar salad", "confidence": 0.8, "source": "text"},
			{"name": "Ribeye", "price": 32, "confidence": 0.9, "sources": []string{"css"}},
		},
	})

	stdout, _, err := runCLI(t, env, "aggregate", "--candidates", path, "--cap", "1", "--json")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	var report reconcile.MenuReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.Groups != 2 || len(report.Items) != 1 || report.Items[0].RawName != "Ribeye" || report.Items[0].Price != "32" {
		t.Fatalf("unexpected report: %+v", report)
	}

	stdout, _, err = runCLI(t, env, "--format", "table", "aggregate", "--candidates", path)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	requireContains(t, stdout, "2 items from 3 candidates")
	requireContains(t, stdout, "caesar salad")

	if _, _, err := runCLI(t, env, "aggregate", "--candidates", path, "--cap", "-1"); err == nil {
		t.Fatal("expected negative cap to fail")
	}
}

func TestRunsShowUnknownAndDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "runs", "show", "missing")
	if !errors.Is(err, history.ErrRunNotFound) || exitCode(err) != 3 {
		t.Fatalf("expected not found exit code 3, got %v", err)
	}

	stdout, _, err := runCLI(t, env, "--format", "table", "runs", "list")
	if err != nil {
		t.Fatalf("runs list: %v", err)
	}
	requireContains(t, stdout, "No runs recorded")

	path := filepath.Join(env.baseDir, "candidates.json")
	testsupport.WriteJSON(t, path, map[string]any{"candidates": []map[string]any{{"name": "Pho", "confidence": 0.5}}})
	stdout, _, err = runCLI(t, env, "aggregate", "--candidates", path, "--json")
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	var report reconcile.MenuReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}

	stdout, _, err = runCLI(t, env, "runs", "delete", report.RunID)
	if err != nil {
		t.Fatalf("runs delete: %v", err)
	}
	requireContains(t, stdout, "Deleted run")
	if _, _, err := runCLI(t, env, "runs", "delete", report.RunID); exitCode(err) != 3 {
		t.Fatalf("expected second delete to be not found, got %v", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.HistoryPath())

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, env, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, env, "config", "init", "--path", target); err == nil {
		t.Fatal("expected existing config to be protected")
	}
	if _, _, err := runCLI(t, env, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestRejectsUnknownFormat(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, env, "--format", "yaml", "runs", "list"); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
