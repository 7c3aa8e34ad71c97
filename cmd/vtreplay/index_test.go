package main

import (
	"strings"
	"testing"
)

func TestIndexAddFileIgnoresDuplicateAdd(t *testing.T) {
	idx := NewIndex("Suite")
	idx.AddFile("a.html", "First")
	idx.AddFile("a.html", "Renamed") // should be a no-op, per Index.add_file

	page := idx.Page()
	if strings.Count(page, "a.html") != 1 {
		t.Errorf("expected a.html to appear exactly once, got page %q", page)
	}
	if !strings.Contains(page, "First") {
		t.Errorf("expected original title to survive, got page %q", page)
	}
	if strings.Contains(page, "Renamed") {
		t.Errorf("duplicate add should not overwrite the title, got page %q", page)
	}
}

func TestIndexAddFileDerivesTitleFromBasenameWhenEmpty(t *testing.T) {
	idx := NewIndex("Suite")
	idx.AddFile("lesson-one.html", "")

	page := idx.Page()
	if !strings.Contains(page, "lesson-one</a>") {
		t.Errorf("expected derived title from basename, got page %q", page)
	}
}

func TestIndexChaptersRenderInSortedOrder(t *testing.T) {
	idx := NewIndex("Suite")
	idx.AddFile("a.html", "A")
	idx.AddChapters("a.html", map[int]string{3: "Third", 1: "First", 2: "Second"})

	page := idx.Page()
	firstPos := strings.Index(page, "First")
	secondPos := strings.Index(page, "Second")
	thirdPos := strings.Index(page, "Third")
	if !(firstPos < secondPos && secondPos < thirdPos) {
		t.Errorf("chapters not in ascending order: %d, %d, %d", firstPos, secondPos, thirdPos)
	}
}
