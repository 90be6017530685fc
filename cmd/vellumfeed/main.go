// Command vellumfeed runs a demo document against a bbolt-backed feed: a
// lazily loaded Sequence of swipeable rows, seeded from the middle of the
// feed so the list grows in both directions as it is scrolled. Fetch
// requests are answered from the store after a configurable delay, which
// exercises the full request/response cycle the engine's data sources are
// built around.
//
// Keys follow the term host defaults: arrows and j/k scroll, q quits, e
// toggles the error overlay.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/ayn2op/vellum"
	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
	"github.com/ayn2op/vellum/term"
)

// feedEntries is how many rows an empty store is seeded with.
const feedEntries = 120

// feedDocument is the inflated document: one Sequence filling the screen,
// bound to the "feed" data source declared alongside it.
const feedDocument = `{
	"type": "Sequence",
	"id": "feed",
	"rowExtent": 3,
	"snapToRows": true,
	"data": {"source": "feed"}
}`

func main() {
	configPath := flag.String("config", "", "path of the YAML configuration file")
	storePath := flag.String("store", "", "feed database path, overriding the configuration")
	logPath := flag.String("log", "", "append diagnostics to this file")
	flag.Parse()

	if err := run(*configPath, *storePath, *logPath); err != nil {
		fmt.Fprintln(os.Stderr, "vellumfeed:", err)
		os.Exit(1)
	}
}

func run(configPath, storePath, logPath string) error {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}
	if storePath != "" {
		cfg.Store = storePath
	}
	theme, ok := term.ThemeByName(cfg.Theme)
	if !ok {
		return fmt.Errorf("unknown theme %q", cfg.Theme)
	}

	logger := log.New(io.Discard, "", 0)
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log: %w", err)
		}
		defer f.Close()
		logger = log.New(f, "vellumfeed ", log.LstdFlags)
	}

	store, err := OpenStore(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := seedIfEmpty(store); err != nil {
		return err
	}

	settings := cfg.SourceSettings()
	a := &app{
		store:  store,
		chunk:  settings.CacheChunkSize,
		delay:  cfg.responseDelay(),
		logger: logger,
	}

	a.engine = vellum.NewEngine(time.Now()).
		SetLogger(logger).
		SetGestureConfig(term.GestureConfig()).
		SetItemBuilder("feed", a.buildRow).
		RegisterDataSource(datasource.NewTokenSource(settings))

	doc, err := a.feedDocument()
	if err != nil {
		return err
	}
	if _, err := a.engine.InflateDocument(doc); err != nil {
		return fmt.Errorf("inflate document: %w", err)
	}
	// Keep a few chunks of slack loaded around the viewport; the list trims
	// the rest and re-fetches it on the way back.
	if seq, ok := a.engine.ComponentByID("feed").(*vellum.Sequence); ok {
		seq.SetRetainRows(3 * settings.CacheChunkSize)
	}

	a.host = term.NewHost(a.engine).
		SetTheme(theme).
		SetTitle("vellumfeed").
		SetOnEventFunc(a.onEvent)
	return a.host.Run()
}

func seedIfEmpty(store *Store) error {
	n, err := store.Len()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	lines := make([]string, feedEntries)
	for i := range lines {
		lines[i] = fmt.Sprintf("entry %03d of %d", i+1, feedEntries)
	}
	return store.Append(lines)
}

// app bridges the engine's fetch requests to the store.
type app struct {
	engine *vellum.Engine
	host   *term.Host
	store  *Store
	chunk  int
	delay  time.Duration
	logger *log.Logger
}

// feedDocument assembles the document with a seed window served from the
// middle of the store.
func (a *app) feedDocument() (*vellum.Document, error) {
	items, back, fwd, err := a.store.Window(a.chunk)
	if err != nil {
		return nil, err
	}
	seed, err := json.Marshal(datasource.SeedPayload{
		Type:              datasource.KindTokenList,
		ListID:            "feed",
		Items:             items,
		BackwardPageToken: back,
		ForwardPageToken:  fwd,
	})
	if err != nil {
		return nil, err
	}
	return &vellum.Document{
		MainTemplate: vellum.Template{Item: json.RawMessage(feedDocument)},
		DataSources:  map[string]json.RawMessage{"feed": seed},
	}, nil
}

// buildRow materializes one feed entry as a swipeable card.
func (a *app) buildRow(item any) vellum.Component {
	row := vellum.NewTouchWrapper().SetSwipeAway(vellum.SwipeAwaySpec{
		Direction: gesture.DirectionLeft,
		Mode:      gesture.SwipeSlide,
		Replacement: func() vellum.Component {
			return vellum.NewText().SetContent("dismissed")
		},
	})
	row.AppendChild(vellum.NewText().SetContent(entryText(item)))
	return row
}

func entryText(item any) string {
	if m, ok := item.(map[string]any); ok {
		if s, ok := m["text"].(string); ok {
			return s
		}
	}
	return fmt.Sprint(item)
}

func (a *app) onEvent(event vellum.Event) bool {
	switch event := event.(type) {
	case vellum.FetchRequestEvent:
		a.serve(event)
		return true
	case vellum.SwipeDoneEvent:
		a.logger.Printf("row swiped away %v", event.Direction)
		return true
	}
	return false
}

// serve answers one fetch request from the store after the configured
// latency. The reply re-enters the engine through Post, so the mutation
// stays on the host goroutine.
func (a *app) serve(event vellum.FetchRequestEvent) {
	req := event.Value
	go func() {
		time.Sleep(a.delay)
		items, next, err := a.store.Page(req.PageToken, a.chunk)
		a.host.Post(func() {
			if err != nil {
				a.logger.Printf("page %q: %v", req.PageToken, err)
				return
			}
			if items == nil {
				// A nil items key reads as malformed; an empty batch is
				// the retryable case and is what a drained edge means.
				items = []any{}
			}
			payload := datasource.UpdatePayload{
				ListID:    req.ListID,
				PageToken: req.PageToken,
				Items:     items,
			}
			if n, err := strconv.Atoi(req.CorrelationToken); err == nil {
				payload.CorrelationToken = datasource.Correlation(n)
			}
			if next != "" {
				payload.NextPageToken = &next
			}
			data, err := json.Marshal(payload)
			if err != nil {
				a.logger.Printf("marshal update: %v", err)
				return
			}
			a.engine.ProcessDataSourceUpdate(event.Type, data)
		})
	}()
}
