package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return p
}

func TestRunJobTerminalFormatWritesHTML(t *testing.T) {
	dir := t.TempDir()
	in := writeTemp(t, dir, "session.log", "hello world\n")
	out := filepath.Join(dir, "session.html")

	job := Job{In: in, Out: out, Format: "terminal", Palette: "MyDracula"}
	if err := runJob(job, dir, false); err != nil {
		t.Fatalf("runJob: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "hello world") {
		t.Errorf("output missing input text, got %q", string(data))
	}
	if !strings.Contains(string(data), "<html>") {
		t.Errorf("output missing html scaffold, got %q", string(data))
	}
}

func TestRunJobAsciinemaFormatEmbedsVimSession(t *testing.T) {
	dir := t.TempDir()
	//  escapes keep this valid JSON text on disk (a raw control byte
	// inside a JSON string literal is not legal per the JSON grammar).
	recording := "{\"version\":2,\"width\":80,\"height\":24,\"timestamp\":1000}\n" +
		"[0.0,\"o\",\"\\u001b[22;0;0t\\n\"]\n" +
		"[0.1,\"o\",\"editing\\n\"]\n" +
		"[0.2,\"o\",\"\\u001b[23;0;0t\\n\"]\n"
	in := writeTemp(t, dir, "session.cast", recording)
	out := filepath.Join(dir, "session.html")

	job := Job{In: in, Out: out, Format: "asciinema", Palette: "Dracula"}
	if err := runJob(job, dir, true); err != nil {
		t.Fatalf("runJob: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(data), "vim-session") {
		t.Errorf("output missing vim-session marker, got %q", string(data))
	}
	if !strings.Contains(string(data), "vimsession-dropdown") {
		t.Errorf("output missing embedded sub-session dropdown, got %q", string(data))
	}
}

func TestRunJobListGeneratesIndexAndOutputs(t *testing.T) {
	dir := t.TempDir()
	writeTemp(t, dir, "a.log", "first file\n")
	writeTemp(t, dir, "b.log", "second file\n")

	list := `{
  "title": "Test Suite",
  "files": [
    {"id": "a", "in": "a.log", "out": "a.html", "title": "First"},
    {"id": "b", "in": "b.log", "out": "b.html", "title": "Second"}
  ],
  "a-chapters": {"1": "Intro"}
}`
	listPath := writeTemp(t, dir, "jobs.json", list)

	if err := runJobList(listPath, "MyDracula", false, false); err != nil {
		t.Fatalf("runJobList: %v", err)
	}

	for _, name := range []string{"a.html", "b.html", "index.html"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
		}
	}

	index, err := os.ReadFile(filepath.Join(dir, "index.html"))
	if err != nil {
		t.Fatalf("reading index: %v", err)
	}
	if !strings.Contains(string(index), "First") || !strings.Contains(string(index), "Second") {
		t.Errorf("index missing file titles, got %q", string(index))
	}
	if !strings.Contains(string(index), "Intro") {
		t.Errorf("index missing chapter heading, got %q", string(index))
	}
}

func TestRunJobListRejectsMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	listPath := writeTemp(t, dir, "jobs.json", "{not valid json")

	err := runJobList(listPath, "MyDracula", false, false)
	if err == nil {
		t.Fatal("expected an error for malformed job-list JSON")
	}
}

func TestResolveBaseDirHandlesRelativeAndAbsolute(t *testing.T) {
	if got := resolveBaseDir("/a/b", ""); got != "/a/b" {
		t.Errorf("resolveBaseDir empty override = %q", got)
	}
	if got := resolveBaseDir("/a/b", "/c/d"); got != "/c/d" {
		t.Errorf("resolveBaseDir absolute override = %q", got)
	}
	if got := resolveBaseDir("/a/b", "out"); got != filepath.Join("/a/b", "out") {
		t.Errorf("resolveBaseDir relative override = %q", got)
	}
}
