package vellum

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayn2op/vellum/datasource"
	"github.com/ayn2op/vellum/gesture"
)

// Document is the parsed form of a declarative document: a main template
// holding the component tree and the seed payloads of its dynamic data
// sources, keyed by the name components bind with.
type Document struct {
	MainTemplate Template                   `json:"mainTemplate"`
	DataSources  map[string]json.RawMessage `json:"dataSources,omitempty"`
}

// Template holds the root node of a component tree.
type Template struct {
	Item json.RawMessage `json:"item"`
}

// ParseDocument parses the JSON encoding of a document.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return &doc, nil
}

// documentNode is the union of the properties the component kinds accept.
// Properties a kind does not know are ignored.
type documentNode struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`

	Item  json.RawMessage   `json:"item,omitempty"`
	Items []json.RawMessage `json:"items,omitempty"`

	// Text.
	Text string `json:"text,omitempty"`

	// Sequence.
	ScrollDirection string  `json:"scrollDirection,omitempty"`
	RowExtent       float64 `json:"rowExtent,omitempty"`
	SnapToRows      bool    `json:"snapToRows,omitempty"`
	RetainRows      int     `json:"retainRows,omitempty"`
	TrackEnd        bool    `json:"trackEnd,omitempty"`

	// Pager.
	PageDirection string `json:"pageDirection,omitempty"`
	InitialPage   int    `json:"initialPage,omitempty"`

	// TouchWrapper.
	Disabled  bool           `json:"disabled,omitempty"`
	SwipeAway *documentSwipe `json:"swipeAway,omitempty"`

	Data *documentData `json:"data,omitempty"`
}

type documentData struct {
	Source string `json:"source"`
}

type documentSwipe struct {
	Direction   string          `json:"direction"`
	Mode        string          `json:"mode,omitempty"`
	Replacement json.RawMessage `json:"replacement,omitempty"`
}

// inflateNode builds the component for one document node, its subtree
// included.
func (e *Engine) inflateNode(raw json.RawMessage, doc *Document) (Component, error) {
	var node documentNode
	if err := json.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("document node: %w", err)
	}

	switch node.Type {
	case "Container":
		c := NewContainer()
		c.SetID(node.ID)
		if err := e.inflateChildren(c, &node, doc); err != nil {
			return nil, err
		}
		return c, nil

	case "Text":
		t := NewText().SetContent(node.Text)
		t.SetID(node.ID)
		return t, nil

	case "TouchWrapper":
		t := NewTouchWrapper()
		t.SetID(node.ID)
		t.SetDisabled(node.Disabled)
		if node.SwipeAway != nil {
			spec, err := e.swipeSpec(node.SwipeAway, doc)
			if err != nil {
				return nil, err
			}
			t.SetSwipeAway(spec)
		}
		if err := e.inflateChildren(t, &node, doc); err != nil {
			return nil, err
		}
		return t, nil

	case "Sequence":
		s := NewSequence()
		s.SetID(node.ID)
		s.SetHorizontal(node.ScrollDirection == "horizontal")
		if node.RowExtent > 0 {
			s.SetRowExtent(node.RowExtent)
		}
		s.SetSnapToRows(node.SnapToRows)
		s.SetRetainRows(node.RetainRows)
		s.SetTrackEnd(node.TrackEnd)
		s.SetItemBuilder(e.itemBuilder(node.ID))
		if node.Data != nil {
			list, err := e.bindData(node.Data.Source, doc)
			switch {
			case errors.Is(err, datasource.ErrDuplicateList):
				// The first binding stays authoritative; this
				// component just stays empty.
				e.logger.Printf("engine: %v", err)
			case err != nil:
				return nil, err
			default:
				s.BindList(list)
				e.bound = append(e.bound, s)
			}
		} else if err := e.inflateChildren(s, &node, doc); err != nil {
			return nil, err
		}
		return s, nil

	case "Pager":
		p := NewPager()
		p.SetID(node.ID)
		p.SetVertical(node.PageDirection == "vertical")
		p.SetItemBuilder(e.itemBuilder(node.ID))
		if node.Data != nil {
			list, err := e.bindData(node.Data.Source, doc)
			switch {
			case errors.Is(err, datasource.ErrDuplicateList):
				e.logger.Printf("engine: %v", err)
			case err != nil:
				return nil, err
			default:
				p.BindList(list)
				e.bound = append(e.bound, p)
			}
		} else if err := e.inflateChildren(p, &node, doc); err != nil {
			return nil, err
		}
		if node.InitialPage > 0 {
			p.SetCurrentPage(node.InitialPage)
		}
		return p, nil

	case "":
		return nil, errors.New("document node without a type")
	default:
		return nil, fmt.Errorf("document node has unknown type %q", node.Type)
	}
}

// inflateChildren appends the components for a node's item or items.
func (e *Engine) inflateChildren(parent Component, node *documentNode, doc *Document) error {
	if len(node.Item) > 0 {
		child, err := e.inflateNode(node.Item, doc)
		if err != nil {
			return err
		}
		parent.InsertChild(parent.ChildCount(), child)
	}
	for _, raw := range node.Items {
		child, err := e.inflateNode(raw, doc)
		if err != nil {
			return err
		}
		parent.InsertChild(parent.ChildCount(), child)
	}
	return nil
}

// bindData materializes the named data source through its registered
// provider. The seed's listId defaults to the source name.
func (e *Engine) bindData(name string, doc *Document) (*datasource.List, error) {
	raw, ok := doc.DataSources[name]
	if !ok {
		return nil, fmt.Errorf("document names unknown data source %q", name)
	}
	var seed datasource.SeedPayload
	if err := json.Unmarshal(raw, &seed); err != nil {
		return nil, fmt.Errorf("data source %q: %w", name, err)
	}
	if seed.ListID == "" {
		seed.ListID = name
	}
	provider, ok := e.providers[seed.Type]
	if !ok {
		return nil, fmt.Errorf("no provider registered for source type %q", seed.Type)
	}
	return provider.Bind(seed)
}

func (e *Engine) swipeSpec(node *documentSwipe, doc *Document) (SwipeAwaySpec, error) {
	dir, err := parseDirection(node.Direction)
	if err != nil {
		return SwipeAwaySpec{}, err
	}
	mode, err := parseSwipeMode(node.Mode)
	if err != nil {
		return SwipeAwaySpec{}, err
	}
	spec := SwipeAwaySpec{Direction: dir, Mode: mode}
	if len(node.Replacement) > 0 {
		tmpl := node.Replacement
		spec.Replacement = func() Component {
			c, err := e.inflateNode(tmpl, doc)
			if err != nil {
				e.logger.Printf("engine: swipe replacement: %v", err)
				return nil
			}
			return c
		}
	}
	return spec, nil
}

func parseDirection(s string) (gesture.Direction, error) {
	switch s {
	case "left":
		return gesture.DirectionLeft, nil
	case "right":
		return gesture.DirectionRight, nil
	case "up":
		return gesture.DirectionUp, nil
	case "down":
		return gesture.DirectionDown, nil
	}
	return 0, fmt.Errorf("unknown swipe direction %q", s)
}

func parseSwipeMode(s string) (gesture.SwipeMode, error) {
	switch s {
	case "", "slide":
		return gesture.SwipeSlide, nil
	case "reveal":
		return gesture.SwipeReveal, nil
	case "cover":
		return gesture.SwipeCover, nil
	}
	return 0, fmt.Errorf("unknown swipe mode %q", s)
}

// itemText renders a list item as a line of text: the conventional "text"
// key when the item is an object, the string itself otherwise.
func itemText(item any) string {
	switch v := item.(type) {
	case map[string]any:
		if s, ok := v["text"].(string); ok {
			return s
		}
	case string:
		return v
	case nil:
		return ""
	}
	return fmt.Sprint(item)
}

// defaultItemBuilder shows each item as a text row.
func defaultItemBuilder(item any) Component {
	return NewText().SetContent(itemText(item))
}
