package schedule

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Shape identifies which schedule layout a payload uses.
type Shape string

const (
	ShapeStages   Shape = "stages"
	ShapeBrackets Shape = "brackets"
)

// Section is a normalized stage or bracket with its matches in source order.
// Undecodable counts matches dropped because their fields did not decode.
type Section struct {
	Name        string
	Shape       Shape
	Matches     []Match
	Undecodable int
}

// Payload is a parsed schedule document. Shape detection runs once, on first use.
type Payload struct {
	root envelope

	once     sync.Once
	sections []Section
	shape    Shape
	err      error
}

type envelope struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Stages   json.RawMessage `json:"stages,omitempty"`
	Brackets json.RawMessage `json:"brackets,omitempty"`
}

type rawSection struct {
	Name    string            `json:"name,omitempty"`
	Title   string            `json:"title,omitempty"`
	Stage   *rawStage         `json:"stage,omitempty"`
	Matches []json.RawMessage `json:"matches"`
}

type rawStage struct {
	Title string `json:"title,omitempty"`
}

// Parse decodes raw schedule bytes. Empty or invalid JSON, or a stages/brackets
// list whose entries are not sections, yields ErrMalformedPayload. A document of
// unknown shape parses and reports ErrUnrecognizedSchema from Sections.
func Parse(data []byte) (*Payload, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedPayload)
	}
	var root envelope
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	p := &Payload{root: root}
	if _, err := p.Sections(); errors.Is(err, ErrMalformedPayload) {
		return nil, err
	}
	return p, nil
}

// Sections returns the payload's stages or brackets as one normalized sequence.
func (p *Payload) Sections() ([]Section, error) {
	if p == nil {
		return nil, ErrUnrecognizedSchema
	}
	p.once.Do(func() {
		p.sections, p.shape, p.err = detect(p.root, true)
	})
	return p.sections, p.err
}

// Shape returns the detected layout, or "" when detection failed.
func (p *Payload) Shape() Shape {
	if _, err := p.Sections(); err != nil {
		return ""
	}
	return p.shape
}

// Matches flattens every section's matches, preserving order.
func (p *Payload) Matches() ([]Match, error) {
	sections, err := p.Sections()
	if err != nil {
		return nil, err
	}
	var out []Match
	for _, s := range sections {
		out = append(out, s.Matches...)
	}
	return out, nil
}

func detect(env envelope, descend bool) ([]Section, Shape, error) {
	switch {
	case present(env.Stages):
		sections, err := decodeSections(env.Stages, ShapeStages)
		return sections, ShapeStages, err
	case present(env.Brackets):
		sections, err := decodeSections(env.Brackets, ShapeBrackets)
		return sections, ShapeBrackets, err
	case descend && present(env.Data):
		var inner envelope
		if err := json.Unmarshal(env.Data, &inner); err != nil {
			return nil, "", fmt.Errorf("%w: data envelope: %v", ErrUnrecognizedSchema, err)
		}
		return detect(inner, false)
	default:
		return nil, "", ErrUnrecognizedSchema
	}
}

func decodeSections(raw json.RawMessage, shape Shape) ([]Section, error) {
	var items []rawSection
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedPayload, shape, err)
	}
	sections := make([]Section, 0, len(items))
	for _, item := range items {
		section := Section{
			Name:    item.name(),
			Shape:   shape,
			Matches: make([]Match, 0, len(item.Matches)),
		}
		for _, rawMatch := range item.Matches {
			var m Match
			if err := json.Unmarshal(rawMatch, &m); err != nil {
				section.Undecodable++
				continue
			}
			section.Matches = append(section.Matches, m)
		}
		sections = append(sections, section)
	}
	return sections, nil
}

func (r rawSection) name() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Stage != nil && r.Stage.Title != "":
		return r.Stage.Title
	default:
		return r.Title
	}
}

func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}
