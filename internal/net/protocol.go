// Package net shares a notebook read-only over the local network: the host
// runs a websocket Hub, viewers dial it and mirror every page change.
package net

import (
	"encoding/json"
	"fmt"

	"MyLocalNotes/internal/state"
)

// MessageType tags each websocket frame.
type MessageType string

const (
	// TypeHello is the first frame a viewer receives: every page size and
	// its current history.
	TypeHello MessageType = "hello"
	// TypePage replaces one page's history.
	TypePage MessageType = "page"
)

// PageSize is a page's logical size.
type PageSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Message is one frame on the wire.
type Message struct {
	Type MessageType `json:"type"`
	Site string      `json:"site"`

	// page
	Page   int               `json:"page,omitempty"`
	Rev    uint64            `json:"rev,omitempty"`
	Record *state.PageRecord `json:"record,omitempty"`

	// hello
	Name    string             `json:"name,omitempty"`
	Sizes   []PageSize         `json:"sizes,omitempty"`
	Records []state.PageRecord `json:"records,omitempty"`
	Source  []byte             `json:"source,omitempty"`
}

// Decode parses and validates a frame.
func Decode(data []byte) (Message, error) {
	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if err := m.validate(); err != nil {
		return Message{}, err
	}
	return m, nil
}

func (m Message) validate() error {
	switch m.Type {
	case TypeHello:
		if len(m.Sizes) == 0 || len(m.Sizes) != len(m.Records) {
			return fmt.Errorf("hello: %d sizes for %d records", len(m.Sizes), len(m.Records))
		}
		for i, sz := range m.Sizes {
			if sz.Width <= 0 || sz.Height <= 0 {
				return fmt.Errorf("hello: page %d has size %gx%g", i+1, sz.Width, sz.Height)
			}
			if err := m.Records[i].Validate(); err != nil {
				return fmt.Errorf("hello: page %d: %w", i+1, err)
			}
		}
	case TypePage:
		if m.Record == nil || m.Page < 0 {
			return fmt.Errorf("page message without record")
		}
		if err := m.Record.Validate(); err != nil {
			return fmt.Errorf("page %d: %w", m.Page+1, err)
		}
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
	return nil
}
