package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/lmarchetti/vtreplay"
)

// HopTarget names the other side of a chaptered jump between two processed
// files, mirroring terminal2html.py's HopTarget namedtuple: the id of the
// file being jumped to, its output path, and the set of its own suppressed
// command indices (so a forward link never points into hidden content).
type HopTarget struct {
	ID         string
	OutPath    string
	Suppressed []int
}

// HopSpec is a job's "hopto" field: the chaptered-jump command indices on
// this side, the surrounding link text, the resolved Target on the other
// file, and — in review mode with an "ahopto" sibling field — the reverse
// hop points computed by HopAlign.
type HopSpec struct {
	ID      string `json:"id"`
	Hops    []int  `json:"hops"`
	Pre     string `json:"pre"`
	To      string `json:"to"`
	Post    string `json:"post"`
	Target  *HopTarget          `json:"-"`
	RevHops []vtreplay.HopPoint `json:"rev_hops,omitempty"`
}

// Job is one unit of work: convert In to Out under Palette/Title/Review,
// optionally restricted by Chapters/Suppress/HopTo. Mirrors TodoArgs.
type Job struct {
	ID       string
	In       string
	Out      string
	Format   string // "terminal" or "asciinema"
	Palette  string
	Title    string
	Review   bool
	Chapters map[int]string
	Suppress []int
	HopTo    *HopSpec
	AHopTo   string // sibling job id to compute reverse hops against, review mode only
}

// JobListDocument is the JSON job-list document shape (main.py's
// process_file_list input): a base directory pair, an index title, the job
// records, and loose "<id>-chapters"/"<id>-suppress"/"<id>-hopto" side
// tables keyed by job id, the same flattened shape the Python original uses
// instead of nesting them under each job record.
type JobListDocument struct {
	Title     string                     `json:"title"`
	BaseDirIn  string                    `json:"base_dir_in"`
	BaseDirOut string                    `json:"base_dir_out"`
	Files      []JobRecord               `json:"files"`
	Extra      map[string]json.RawMessage `json:"-"`
}

// JobRecord is one entry of JobListDocument.Files.
type JobRecord struct {
	ID      string `json:"id"`
	In      string `json:"in"`
	Out     string `json:"out"`
	Format  string `json:"format"`
	Title   string `json:"title"`
	Palette string `json:"palette"`
	Review  *bool  `json:"review"`
	AHopTo  string `json:"ahopto"`
}

// UnmarshalJSON captures the side tables (fields outside the fixed schema)
// into Extra, so chapters/suppress/hopto keyed by "<id>-<suffix>" survive.
func (d *JobListDocument) UnmarshalJSON(data []byte) error {
	type alias JobListDocument
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*d = JobListDocument(a)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	d.Extra = raw
	return nil
}

func loadJobList(path string) (*JobListDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var doc JobListDocument
	if err := json.NewDecoder(f).Decode(&doc); err != nil {
		return nil, &vtreplay.UnsupportedInputFormatError{Reason: "job list is not valid JSON: " + err.Error()}
	}
	if doc.Title == "" {
		doc.Title = "Git Training"
	}
	return &doc, nil
}

// runJobList resolves and runs every job in the list at path, then writes
// the generated index.html, mirroring process_file_list/generate_index.
func runJobList(path string, defaultPalette string, defaultReview bool, statsDump bool) error {
	doc, err := loadJobList(path)
	if err != nil {
		return err
	}

	baseDirIn := resolveBaseDir(filepath.Dir(path), doc.BaseDirIn)
	baseDirOut := resolveBaseDir(filepath.Dir(path), doc.BaseDirOut)

	index := NewIndex(doc.Title)
	jobs := make(map[string]Job, len(doc.Files))
	outPaths := make(map[string]string, len(doc.Files))

	for _, rec := range doc.Files {
		outName := rec.Out
		if outName == "" {
			base := rec.In
			ext := filepath.Ext(base)
			outName = base[:len(base)-len(ext)] + ".html"
		}
		outPath := filepath.Join(baseDirOut, outName)
		title := rec.Title
		if title != "" {
			index.AddFile(outName, title)
		} else {
			index.AddFile(outName, "")
		}

		format := rec.Format
		if format == "" {
			format = "terminal"
		}
		palette := rec.Palette
		if palette == "" {
			palette = defaultPalette
		}
		review := defaultReview
		if rec.Review != nil {
			review = *rec.Review
		}

		job := Job{
			ID:      rec.ID,
			In:      filepath.Join(baseDirIn, rec.In),
			Out:     outPath,
			Format:  format,
			Palette: palette,
			Title:   title,
			Review:  review,
			AHopTo:  rec.AHopTo,
		}

		if rec.ID != "" {
			if chRaw, ok := doc.Extra[rec.ID+"-chapters"]; ok {
				var ch map[string]string
				if err := json.Unmarshal(chRaw, &ch); err == nil {
					job.Chapters = make(map[int]string, len(ch))
					for k, v := range ch {
						if idx, err := strconv.Atoi(k); err == nil {
							job.Chapters[idx] = v
						}
					}
					index.AddChapters(outName, job.Chapters)
				}
			}
			if supRaw, ok := doc.Extra[rec.ID+"-suppress"]; ok {
				_ = json.Unmarshal(supRaw, &job.Suppress)
			}
			if hopRaw, ok := doc.Extra[rec.ID+"-hopto"]; ok {
				var hop HopSpec
				if err := json.Unmarshal(hopRaw, &hop); err == nil {
					job.HopTo = &hop
				}
			}
		}

		jobs[rec.ID] = job
		outPaths[rec.ID] = outPath
	}

	// Resolve each job's hop target now that every job's output path is known.
	for id, job := range jobs {
		if job.HopTo != nil && job.HopTo.ID != "" {
			target := jobs[job.HopTo.ID]
			var suppressed []int
			if sib, ok := jobs[job.HopTo.ID]; ok {
				suppressed = sib.Suppress
			}
			job.HopTo.Target = &HopTarget{ID: job.HopTo.ID, OutPath: outPaths[target.ID], Suppressed: suppressed}
			jobs[id] = job
		}
	}

	for id, job := range jobs {
		if job.Review && job.AHopTo != "" {
			sibling, ok := jobs[job.AHopTo]
			if ok {
				hops, err := computeReverseHops(job.In, sibling.In)
				if err != nil {
					slog.Warn("could not compute reverse hops", "job", id, "err", err)
				} else {
					if job.HopTo == nil {
						job.HopTo = &HopSpec{}
					}
					job.HopTo.RevHops = hops
					jobs[id] = job
				}
			}
		}
	}

	for id, job := range jobs {
		slog.Info("process", "in", job.In, "out", job.Out, "title", job.Title, "palette", job.Palette)
		fmt.Println(statusRunning(id, job.In, job.Out))
		if err := runJob(job, baseDirOut, statsDump); err != nil {
			fmt.Println(statusError(fmt.Sprintf("%s: %v", id, err)))
			return err
		}
	}

	slog.Info("generating index file")
	return writeIndex(baseDirOut, index)
}

func resolveBaseDir(dirOfList, override string) string {
	if override == "" {
		return dirOfList
	}
	if filepath.IsAbs(override) {
		return override
	}
	return filepath.Join(dirOfList, override)
}

// computeReverseHops runs HopAlign between fromPath and toPath, mirroring
// parse_file_hops/twebber.parse's ahopto review-mode wiring.
func computeReverseHops(fromPath, toPath string) ([]vtreplay.HopPoint, error) {
	left, err := readRecordingAnyFormat(fromPath)
	if err != nil {
		return nil, err
	}
	right, err := readRecordingAnyFormat(toPath)
	if err != nil {
		return nil, err
	}
	align := vtreplay.HopAlign(left, right)
	return align.HopsFromLeft, nil
}

func readRecordingAnyFormat(path string) (*vtreplay.Recording, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vtreplay.ReadRecording(f)
}

// runJob converts one job's In to its Out (or stdout if Out is empty),
// mirroring parse_file/parse_to_html.
func runJob(job Job, baseDirOut string, statsDump bool) error {
	in, err := os.Open(job.In)
	if err != nil {
		return err
	}
	defer in.Close()

	var out *os.File
	if job.Out != "" {
		if err := os.MkdirAll(filepath.Dir(job.Out), 0o755); err != nil {
			return err
		}
		out, err = os.Create(job.Out)
		if err != nil {
			return err
		}
		defer out.Close()
	} else {
		out = os.Stdout
	}

	palette := vtreplay.Palettes[job.Palette]
	renderer := vtreplay.NewHTMLRenderer(out, palette, true, job.Title)
	if job.Chapters != nil {
		renderer.SetChapters(job.Chapters)
	}
	if job.Suppress != nil {
		renderer.SetSuppress(job.Suppress)
	}
	renderer.SetReview(job.Review)

	parser := vtreplay.NewParser()
	parser.Output = renderer
	detector := vtreplay.NewSessionDetector(parser, "")
	detector.Listener = renderer
	detector.InnerControl = renderer

	renderer.WriteIntro()

	var procErr error
	switch job.Format {
	case "asciinema":
		procErr = runAsciinemaJob(in, detector, renderer)
	default:
		procErr = runTerminalJob(in, detector)
	}
	renderer.Finish()

	if procErr != nil {
		return fmt.Errorf("processing %s: %w", job.In, procErr)
	}

	if statsDump {
		st := parser.Statistics()
		slog.Info("parser statistics",
			"states_visited", len(st.StatesVisited),
			"actions_performed", len(st.ActionsPerformed),
			"control_functions_seen", len(st.ControlFunctionsSeen),
			"escape_sequences_seen", len(st.EscapeSequencesSeen),
			"control_sequences_seen", len(st.ControlSequencesSeen),
			"osc_commands", len(st.OSCommands),
		)
	}
	return nil
}

// runTerminalJob feeds a raw byte log through the parser/detector/renderer
// pipeline a line at a time.
func runTerminalJob(in *os.File, detector *vtreplay.SessionDetector) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	scanner.Split(scanLinesKeepNewline)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		if err := detector.ParseLine(scanner.Bytes()); err != nil {
			return &vtreplay.LineError{Line: lineNum, Err: err}
		}
	}
	return scanner.Err()
}

// scanLinesKeepNewline is bufio.ScanLines without stripping the trailing
// 0x0A, since the parser's Execute(LF) callback needs to see it.
func scanLinesKeepNewline(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	for i, b := range data {
		if b == '\n' {
			return i + 1, data[:i+1], nil
		}
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// runAsciinemaJob drives an AsciinemaPipeline over the parsed recording's
// frames, embedding each finalized editor sub-session as soon as the
// pipeline finalizes it, right after the renderer's vim-end marker.
func runAsciinemaJob(in *os.File, detector *vtreplay.SessionDetector, renderer *vtreplay.HTMLRenderer) error {
	rec, err := vtreplay.ReadRecording(in)
	if err != nil {
		return err
	}

	pipeline := vtreplay.NewAsciinemaPipeline(detector, rec.Header, renderer.BlockCount)
	pipeline.OnSessionFinalized = func(sess *vtreplay.EditorSubSession, blockCount int) {
		renderer.EmbedEditorSession(sess, 0, blockCount)
	}

	for _, f := range rec.Frames {
		if err := pipeline.Feed(f); err != nil {
			return err
		}
	}
	return nil
}
