package main

import (
	"bytes"
	"strings"
	"testing"
)

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestCostCommandEstimates(t *testing.T) {
	out, err := runCommand(t, "cost", "--duration", "15", "--premium-tts")
	if err != nil {
		t.Fatalf("cost failed: %v", err)
	}
	if !strings.Contains(out, "3 scenes") {
		t.Errorf("output missing scene count: %q", out)
	}
	if !strings.Contains(out, "7 credits") {
		t.Errorf("output missing cost: %q", out)
	}
	if !strings.Contains(out, "Hook -> Feature -> CTA") {
		t.Errorf("output missing plan: %q", out)
	}
}

func TestCostCommandRejectsTinyDuration(t *testing.T) {
	if _, err := runCommand(t, "cost", "--duration", "3"); err == nil {
		t.Fatal("expected error for sub-scene duration")
	}
}

func TestCreditsTiersCommand(t *testing.T) {
	out, err := runCommand(t, "credits", "tiers")
	if err != nil {
		t.Fatalf("tiers failed: %v", err)
	}
	for _, want := range []string{"starter", "growth", "agency", "800"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q: %q", want, out)
		}
	}
}

func TestConfigPathCommand(t *testing.T) {
	out, err := runCommand(t, "config", "path")
	if err != nil {
		t.Fatalf("config path failed: %v", err)
	}
	if !strings.Contains(out, "config.toml") || !strings.Contains(out, "exists: no") {
		t.Errorf("output = %q", out)
	}
}

func TestConfigInitThenShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"config", "init"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init failed: %v", err)
	}
	if !strings.Contains(buf.String(), "Wrote") {
		t.Errorf("init output = %q", buf.String())
	}

	cmd = newRootCommand()
	buf.Reset()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"config", "init"})
	if err := cmd.Execute(); err == nil {
		t.Fatal("second init without --force should fail")
	}
}

func TestRegenerateRejectsUnknownScene(t *testing.T) {
	_, err := runCommand(t, "regenerate", "run-1", "Outro")
	if err == nil || !strings.Contains(err.Error(), "unknown scene") {
		t.Fatalf("expected unknown scene error, got %v", err)
	}
}
