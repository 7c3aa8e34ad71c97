package main

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// indexFile is one entry of Index.files: the title shown for a processed
// output file plus its chapter anchors, mirroring main.py's Index.files dict.
type indexFile struct {
	title    string
	chapters map[int]string
}

// Index accumulates the processed files of a job-list run into a single
// landing page, mirroring main.py's Index class.
type Index struct {
	title string
	order []string
	files map[string]*indexFile
}

// NewIndex builds an empty index titled title.
func NewIndex(title string) *Index {
	return &Index{title: title, files: make(map[string]*indexFile)}
}

// AddFile registers outfile under title (derived from outfile's basename if
// title is empty), ignoring a duplicate add exactly as Index.add_file does.
func (idx *Index) AddFile(outfile, title string) {
	if _, exists := idx.files[outfile]; exists {
		return
	}
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(outfile), filepath.Ext(outfile))
	}
	idx.files[outfile] = &indexFile{title: title}
	idx.order = append(idx.order, outfile)
}

// AddChapters attaches a command-index → heading map to outfile, registering
// it first if necessary.
func (idx *Index) AddChapters(outfile string, chapters map[int]string) {
	f, ok := idx.files[outfile]
	if !ok {
		idx.AddFile(outfile, "")
		f = idx.files[outfile]
	}
	f.chapters = chapters
}

// Page renders the full index.html document, mirroring Index.get_html_page.
func (idx *Index) Page() string {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\"/>\n<title>%s</title>\n", html.EscapeString(idx.title))
	b.WriteString("<style type=\"text/css\">\nh1 { color: #D1C3CB; text-align: center; }\nh2 { color: #e0e0c0; }\nsection { color: #e0e0c0; font-family: sans-serif; padding-left: 4em; }\nbody { background-color: #21222c; }\n</style>\n</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(idx.title))

	for _, name := range idx.order {
		f := idx.files[name]
		fmt.Fprintf(&b, "<h2><a href=\"%s\">%s</a></h2>\n", html.EscapeString(name), html.EscapeString(f.title))
		if len(f.chapters) == 0 {
			continue
		}
		keys := make([]int, 0, len(f.chapters))
		for k := range f.chapters {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "<section><a href=\"%s#c%d\">%s</a></section>\n", html.EscapeString(name), k, html.EscapeString(f.chapters[k]))
		}
	}
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

// writeIndex writes idx's page to <baseDirOut>/index.html, mirroring
// generate_index.
func writeIndex(baseDirOut string, idx *Index) error {
	if err := os.MkdirAll(baseDirOut, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(baseDirOut, "index.html"), []byte(idx.Page()), 0o644)
}
