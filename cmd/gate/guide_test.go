package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestGuideCmd_Help(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "--help"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("guide --help failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Guide management") {
		t.Errorf("expected help to mention 'Guide management', got: %s", out)
	}
	for _, sub := range []string{"list", "top", "show", "add", "edit", "rm"} {
		if !strings.Contains(out, sub) {
			t.Errorf("expected help to list %q subcommand, got: %s", sub, out)
		}
	}
}

func TestNewGuideCmd(t *testing.T) {
	cmd := newGuideCmd()
	if cmd.Use != "guide" {
		t.Errorf("Use = %q, want %q", cmd.Use, "guide")
	}
	if !cmd.HasSubCommands() {
		t.Error("guide command should have subcommands")
	}
}

func TestNewGuideListCmd(t *testing.T) {
	cmd := newGuideListCmd()
	if cmd.Use != "list" {
		t.Errorf("Use = %q, want %q", cmd.Use, "list")
	}
	for _, name := range []string{"search", "status", "vehicle", "config"} {
		if cmd.Flags().Lookup(name) == nil {
			t.Errorf("expected --%s flag", name)
		}
	}
}

func TestNewGuideTopCmd(t *testing.T) {
	cmd := newGuideTopCmd()
	if cmd.Use != "top" {
		t.Errorf("Use = %q, want %q", cmd.Use, "top")
	}
	limitFlag := cmd.Flags().Lookup("limit")
	if limitFlag == nil {
		t.Fatal("expected --limit flag")
	}
	if limitFlag.DefValue != "10" {
		t.Errorf("--limit default = %q, want %q", limitFlag.DefValue, "10")
	}
}

func TestGuideShowCmd_NoArgs(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "show"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing args")
	}
}

func TestGuideAddCmd_MissingName(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "add"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for missing --name")
	}
	if !strings.Contains(err.Error(), "--name is required") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "--name is required")
	}
}

func TestGuideAddCmd_BadVehicle(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "add", "--name", "Asha", "--vehicle", "rocket"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for unknown vehicle type")
	}
	if !strings.Contains(err.Error(), "unknown vehicle type") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "unknown vehicle type")
	}
}

func TestGuideEditCmd_NoFlags(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "edit", "7"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for no edit flags")
	}
	if !strings.Contains(err.Error(), "nothing to change") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "nothing to change")
	}
}

func TestGuideEditCmd_BadID(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"guide", "edit", "seven", "--name", "Asha"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected error for bad id")
	}
	if !strings.Contains(err.Error(), "bad id") {
		t.Errorf("error = %q, want to contain %q", err.Error(), "bad id")
	}
}

func TestGuideRmCmd_DeclinedConfirmation(t *testing.T) {
	cmd := newRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetIn(strings.NewReader("no\n"))
	cmd.SetArgs([]string{"guide", "rm", "7"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("declined removal should not error: %v", err)
	}
	if !strings.Contains(buf.String(), "Aborted.") {
		t.Errorf("expected 'Aborted.' in output, got: %s", buf.String())
	}
}

func TestNewGuideRmCmd_YesFlag(t *testing.T) {
	cmd := newGuideRmCmd()
	flag := cmd.Flags().Lookup("yes")
	if flag == nil {
		t.Fatal("expected --yes flag")
	}
	if flag.Shorthand != "y" {
		t.Errorf("--yes shorthand = %q, want %q", flag.Shorthand, "y")
	}
}
