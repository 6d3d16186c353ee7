package main

import (
	"bytes"
	"testing"
)

func TestRootCmdHasSubcommands(t *testing.T) {
	root := NewRootCmd("test", &app{})

	expected := []string{
		"init", "ingest", "connections", "search", "clusters", "top",
		"recent", "digest", "show", "delete", "status", "index",
		"watch", "log", "diff", "provider",
	}

	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}

	for _, name := range expected {
		if !names[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	root := NewRootCmd("test", &app{})

	for _, flag := range []string{"vault", "json", "debug"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag %q", flag)
		}
	}
}

func TestRootCmdShowsHelp(t *testing.T) {
	root := NewRootCmd("test", nil)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if out.Len() == 0 {
		t.Error("expected help output")
	}
}
