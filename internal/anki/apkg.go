package anki

import (
	"archive/zip"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"codeberg.org/snonux/linguasphere/internal"
)

// DefaultDeckName is used when no deck name is given
const DefaultDeckName = "LinguaSphere"

// fieldSeparator joins note fields in the notes.flds column
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName   string
	deckID     int64
	modelID    int64
	cards      []Card
	mediaFiles map[string]int // media name -> numbered file in the package
	now        func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	if strings.TrimSpace(deckName) == "" {
		deckName = DefaultDeckName
	}
	ts := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName:   deckName,
		deckID:     ts,
		modelID:    ts + 1,
		cards:      make([]Card, 0),
		mediaFiles: make(map[string]int),
		now:        time.Now,
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the deck as a zipped collection to outputPath
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	if len(g.cards) == 0 {
		return fmt.Errorf("no cards to export")
	}

	tempDir, err := os.MkdirTemp("", "linguasphere_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	// Media must be numbered before the notes reference it
	if err := g.copyMediaFiles(tempDir); err != nil {
		return fmt.Errorf("failed to copy media files: %w", err)
	}
	if err := g.writeMediaMapping(tempDir); err != nil {
		return fmt.Errorf("failed to create media mapping: %w", err)
	}
	if err := g.createDatabase(filepath.Join(tempDir, "collection.anki2")); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := zipDirectory(tempDir, outputPath); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotes(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

type deckConfig struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Mod              int64  `json:"mod"`
	Desc             string `json:"desc"`
	Collapsed        bool   `json:"collapsed"`
	Dyn              int    `json:"dyn"`
	Conf             int    `json:"conf"`
	Usn              int    `json:"usn"`
	NewToday         [2]int `json:"newToday"`
	RevToday         [2]int `json:"revToday"`
	LrnToday         [2]int `json:"lrnToday"`
	TimeToday        [2]int `json:"timeToday"`
	BrowserCollapsed bool   `json:"browserCollapsed"`
	ExtendNew        int    `json:"extendNew"`
	ExtendRev        int    `json:"extendRev"`
}

type noteField struct {
	Name   string   `json:"name"`
	Ord    int      `json:"ord"`
	Sticky bool     `json:"sticky"`
	RTL    bool     `json:"rtl"`
	Font   string   `json:"font"`
	Size   int      `json:"size"`
	Media  []string `json:"media"`
}

type cardTemplate struct {
	Name  string `json:"name"`
	Ord   int    `json:"ord"`
	Qfmt  string `json:"qfmt"`
	Afmt  string `json:"afmt"`
	Did   *int64 `json:"did"`
	Bqfmt string `json:"bqfmt"`
	Bafmt string `json:"bafmt"`
}

type noteType struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Type      int            `json:"type"`
	Mod       int64          `json:"mod"`
	Usn       int            `json:"usn"`
	Sortf     int            `json:"sortf"`
	Did       int64          `json:"did"`
	Req       []any          `json:"req"`
	Vers      []int          `json:"vers"`
	Tags      []string       `json:"tags"`
	LatexPre  string         `json:"latexPre"`
	LatexPost string         `json:"latexPost"`
	Flds      []noteField    `json:"flds"`
	Tmpls     []cardTemplate `json:"tmpls"`
	CSS       string         `json:"css"`
}

// Note fields in flds order
var fieldNames = []string{"Front", "Back", "Languages", "Audio"}

func (g *APKGGenerator) noteType(now int64) noteType {
	flds := make([]noteField, len(fieldNames))
	for i, name := range fieldNames {
		flds[i] = noteField{Name: name, Ord: i, Font: "Arial", Size: 20, Media: []string{}}
	}
	return noteType{
		ID:    g.modelID,
		Name:  "LinguaSphere (Basic + Reverse)",
		Mod:   now,
		Usn:   -1,
		Did:   g.deckID,
		Req:   []any{[]any{0, "all", []int{0}}, []any{1, "all", []int{1}}},
		Vers:  []int{},
		Tags:  []string{},
		Flds:  flds,
		Tmpls: []cardTemplate{
			{Name: "Forward", Ord: 0, Qfmt: frontTemplate, Afmt: backTemplate},
			{Name: "Reverse", Ord: 1, Qfmt: reverseFrontTemplate, Afmt: reverseBackTemplate},
		},
		LatexPre:  "\\documentclass[12pt]{article}\n\\special{papersize=3in,5in}\n\\usepackage[utf8]{inputenc}\n\\usepackage{amssymb,amsmath}\n\\pagestyle{empty}\n\\setlength{\\parindent}{0in}\n\\begin{document}",
		LatexPost: "\\end{document}",
		CSS:       cardCSS,
	}
}

func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := g.now().Unix()

	deck := func(id int64, name, desc string) deckConfig {
		return deckConfig{ID: id, Name: name, Mod: now, Desc: desc, Conf: 1, ExtendNew: 10, ExtendRev: 50}
	}
	decks := map[string]deckConfig{
		"1": deck(1, "Default", ""),
		strconv.FormatInt(g.deckID, 10): deck(g.deckID, g.deckName,
			"Vocabulary flashcards created by LinguaSphere"),
	}
	models := map[string]noteType{strconv.FormatInt(g.modelID, 10): g.noteType(now)}
	conf := map[string]any{
		"nextPos":       1,
		"estTimes":      true,
		"activeDecks":   []int64{1},
		"sortType":      "noteFld",
		"sortBackwards": false,
		"addToCur":      true,
		"curDeck":       1,
		"newSpread":     0,
		"dueCounts":     true,
		"collapseTime":  1200,
		"timeLim":       0,
		"schedVer":      1,
		"curModel":      strconv.FormatInt(g.modelID, 10),
		"dayLearnFirst": false,
	}
	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "dyn": 0, "usn": 0, "mod": now,
			"timer": 0, "maxTaken": 60, "autoplay": true, "replayq": true,
			"new": map[string]any{
				"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500,
				"perDay": 20, "order": 1, "bury": true, "separate": true,
			},
			"lapse": map[string]any{
				"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0,
			},
			"rev": map[string]any{
				"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500,
				"ivlFct": 1, "bury": true, "minSpace": 1,
			},
		},
	}

	encoded := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		encoded = append(encoded, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		1, now, now*1000, now*1000,
		11, // schema version
		0, 0, 0,
		encoded[0], encoded[1], encoded[2], encoded[3],
		"{}",
	)
	return err
}

func (g *APKGGenerator) insertNotes(tx *sql.Tx) error {
	now := g.now()
	base := now.UnixMilli()

	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	for i, card := range g.cards {
		// Three ids per note: the note plus its forward and reverse card
		noteID := base + int64(i*3)

		fields := strings.Join([]string{
			card.Front,
			card.Back,
			languagesField(card),
			g.audioField(card),
		}, fieldSeparator)

		guid := internal.GenerateCardID(card.Front + fieldSeparator + card.Back + fieldSeparator + card.TargetLang)

		if _, err := noteStmt.Exec(
			noteID, guid, g.modelID, now.Unix(), -1,
			card.Tags(), fields, card.Front,
			0, 0, "",
		); err != nil {
			return fmt.Errorf("failed to insert note: %w", err)
		}

		for ord := 0; ord < 2; ord++ {
			cardID := noteID + 1 + int64(ord)
			if _, err := cardStmt.Exec(
				cardID, noteID, g.deckID, ord, now.Unix(), -1,
				0, 0, // new card, new queue
				noteID+int64(ord), // due position
				0, 0, 0, 0, 0, 0, 0, 0, "",
			); err != nil {
				return fmt.Errorf("failed to insert card %d of note %d: %w", ord, i, err)
			}
		}
	}
	return nil
}

func languagesField(c Card) string {
	switch {
	case c.SourceLang != "" && c.TargetLang != "":
		return c.SourceLang + " → " + c.TargetLang
	case c.TargetLang != "":
		return c.TargetLang
	default:
		return c.SourceLang
	}
}

func (g *APKGGenerator) audioField(c Card) string {
	name := mediaName(c.AudioFile)
	if _, ok := g.mediaFiles[name]; name == "" || !ok {
		return ""
	}
	return fmt.Sprintf("[sound:%s]", name)
}

// mediaName is the unique name of a media file inside the collection
func mediaName(path string) string {
	if path == "" {
		return ""
	}
	return internal.SanitizeFilename(filepath.Base(filepath.Dir(path))) + "_" + filepath.Base(path)
}

func (g *APKGGenerator) copyMediaFiles(tempDir string) error {
	for _, card := range g.cards {
		name := mediaName(card.AudioFile)
		if name == "" || !fileExists(card.AudioFile) {
			continue
		}
		if _, exists := g.mediaFiles[name]; exists {
			continue
		}
		num := len(g.mediaFiles)
		if err := copyFile(card.AudioFile, filepath.Join(tempDir, strconv.Itoa(num))); err != nil {
			return fmt.Errorf("failed to copy audio file %s: %w", card.AudioFile, err)
		}
		g.mediaFiles[name] = num
	}
	return nil
}

// writeMediaMapping writes the "media" file mapping numbers to names
func (g *APKGGenerator) writeMediaMapping(tempDir string) error {
	mapping := make(map[string]string, len(g.mediaFiles))
	for name, num := range g.mediaFiles {
		mapping[strconv.Itoa(num)] = name
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(tempDir, "media"), data, 0644)
}

func zipDirectory(dir, outputPath string) (err error) {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	archive := zip.NewWriter(out)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := addZipEntry(archive, filepath.Join(dir, entry.Name()), entry.Name()); err != nil {
			return err
		}
	}
	return archive.Close()
}

func addZipEntry(archive *zip.Writer, path, name string) error {
	w, err := archive.Create(name)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
