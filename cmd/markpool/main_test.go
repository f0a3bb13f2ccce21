package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"markpool/internal/exam"
	"markpool/internal/marking"
	"markpool/internal/testsupport"
)

func TestRootRequiresWorkerCount(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, nil, env.configPath)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}

	_, _, err = runCLI(t, []string{"three"}, env.configPath)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for non-integer, got %v", err)
	}

	_, _, err = runCLI(t, []string{"2", "3"}, env.configPath)
	if !errors.Is(err, errUsage) {
		t.Fatalf("expected usage error for extra args, got %v", err)
	}
}

func TestRootRunsSingleExam(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRubric(t, env.cfg.Paths.DataDir, testsupport.DefaultRubric)
	testsupport.WriteExams(t, env.cfg.Paths.DataDir, 42)

	out, _, err := runCLI(t, []string{"3", "--seed", "9"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Stop reason")
	requireContains(t, out, string(marking.StopExhausted))
	requireContains(t, out, "#2 (student 42)")
}

func TestRootFailsWithoutFirstExam(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRubric(t, env.cfg.Paths.DataDir, testsupport.DefaultRubric)

	_, _, err := runCLI(t, []string{"2"}, env.configPath)
	var startup *marking.StartupError
	if !errors.As(err, &startup) {
		t.Fatalf("expected startup error, got %v", err)
	}
}

func TestRootRejectsUnknownMode(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteRubric(t, env.cfg.Paths.DataDir, testsupport.DefaultRubric)
	testsupport.WriteExams(t, env.cfg.Paths.DataDir, 42)

	_, _, err := runCLI(t, []string{"2", "--mode", "chaotic"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "chaotic") {
		t.Fatalf("expected mode error, got %v", err)
	}
}

func TestSeedThenRunThenHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"seed", "--exams", "3"}, env.configPath)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	requireContains(t, out, "Wrote 3 exam files")
	requireContains(t, out, "exam3.txt carries the sentinel id 9999")

	if _, _, err := runCLI(t, []string{"seed"}, env.configPath); err == nil {
		t.Fatal("expected seed to refuse overwriting the rubric")
	}
	out, _, err = runCLI(t, []string{"seed", "--exams", "3", "--overwrite"}, env.configPath)
	if err != nil {
		t.Fatalf("seed --overwrite: %v", err)
	}
	requireContains(t, out, "Backed up existing rubric")
	if _, err := os.Stat(env.cfg.RubricPath() + ".bak"); err != nil {
		t.Fatalf("expected rubric backup: %v", err)
	}

	out, _, err = runCLI(t, []string{"4"}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, string(marking.StopSentinel))

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "sentinel")
	requireContains(t, out, "guarded")

	// The run id column holds the 8 character prefix accepted by show.
	var prefix string
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "sentinel") {
			fields := strings.Fields(strings.Trim(line, "│ "))
			if len(fields) > 0 {
				prefix = fields[0]
			}
		}
	}
	if prefix == "" {
		t.Fatalf("could not find run id in %q", out)
	}

	out, _, err = runCLI(t, []string{"history", "show", prefix}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, "Subtask Completed")
	requireContains(t, out, "Item Advanced")

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 runs")
}

func TestCheckReportsMissingData(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil {
		t.Fatal("expected check to fail without rubric and exams")
	}
	requireContains(t, out, "Rubric file")
	requireContains(t, out, "failed")

	testsupport.WriteRubric(t, env.cfg.Paths.DataDir, testsupport.DefaultRubric)
	testsupport.WriteExams(t, env.cfg.Paths.DataDir, 1, exam.SentinelID)
	out, _, err = runCLI(t, []string{"check"}, env.configPath)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	requireContains(t, out, "read/write ok")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.cfg.Paths.DataDir)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected config init to refuse overwriting")
	}
}

func TestEventLabel(t *testing.T) {
	if got := eventLabel("subtask_claimed"); got != "Subtask Claimed" {
		t.Fatalf("unexpected label %q", got)
	}
}

func TestLogsFiltersByGrader(t *testing.T) {
	env := setupCLITestEnv(t)
	content := strings.Join([]string{
		"2026-10-19 10:00:00 INFO grader[0]: reviewing exam item_id=42",
		"2026-10-19 10:00:01 INFO grader[1]: reviewing exam item_id=42",
		"2026-10-19 10:00:02 INFO transition: loaded next exam",
		`{"ts":"2026-10-19T10:00:03Z","level":"INFO","msg":"question marked","component":"grader","worker":1}`,
		"",
	}, "\n")
	testsupport.WriteFile(t, filepath.Join(env.cfg.Paths.LogDir, "markpool.log"), content)

	out, _, err := runCLI(t, []string{"logs", "--grader", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs: %v", err)
	}
	requireContains(t, out, "grader[1]: reviewing exam")
	requireContains(t, out, `"worker":1}`)
	if strings.Contains(out, "grader[0]") || strings.Contains(out, "transition") {
		t.Fatalf("unexpected lines in %q", out)
	}

	out, _, err = runCLI(t, []string{"logs", "-n", "1"}, env.configPath)
	if err != nil {
		t.Fatalf("logs -n 1: %v", err)
	}
	if strings.Count(strings.TrimSpace(out), "\n") != 0 {
		t.Fatalf("expected a single line, got %q", out)
	}
}

func TestSingleGraderFloorRejectedExceptForConfigCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Marking.MinWorkers = 1
	writeTestConfig(t, env.configPath, env.cfg)

	_, _, err := runCLI(t, []string{"check"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "marking.min_workers must be at least 2") {
		t.Fatalf("expected min_workers error, got %v", err)
	}

	target := filepath.Join(t.TempDir(), "fresh.toml")
	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, env.configPath)
	if err != nil {
		t.Fatalf("config init with an invalid --config: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
}
