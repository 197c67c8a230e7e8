package items

import (
	"encoding/json"
	"fmt"

	"github.com/abdul-hamid-achik/itemprobe/packages/datefmt"
)

type itemJSON struct {
	ID        int     `json:"id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Vendor    string  `json:"vendor,omitempty"`
	Date      string  `json:"date,omitempty"`
	Timestamp int64   `json:"timestamp,omitempty"`
}

// Codec encodes Items as JSON, writing dates with its date pattern.
type Codec struct {
	dates *datefmt.Codec
}

// NewCodec returns a codec for a .NET-style date pattern; "" selects RFC 3339.
func NewCodec(datePattern string) (*Codec, error) {
	dates, err := datefmt.NewCodec(datePattern)
	if err != nil {
		return nil, fmt.Errorf("date pattern: %w", err)
	}
	return &Codec{dates: dates}, nil
}

// DefaultCodec encodes dates as RFC 3339.
func DefaultCodec() *Codec {
	c, _ := NewCodec("")
	return c
}

func (c *Codec) DatePattern() string {
	return c.dates.Pattern()
}

func (c *Codec) Marshal(item Item) ([]byte, error) {
	return json.Marshal(c.toWire(item))
}

func (c *Codec) Unmarshal(data []byte) (Item, error) {
	var wire itemJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return Item{}, err
	}
	return c.fromWire(wire)
}

func (c *Codec) UnmarshalList(data []byte) ([]Item, error) {
	var wire []itemJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	list := make([]Item, 0, len(wire))
	for _, w := range wire {
		item, err := c.fromWire(w)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}
	return list, nil
}

func (c *Codec) toWire(item Item) itemJSON {
	wire := itemJSON{
		ID:        item.ID,
		Name:      item.Name,
		Price:     item.Price,
		Vendor:    item.Vendor,
		Timestamp: item.Timestamp,
	}
	if item.Date != nil {
		wire.Date = c.dates.Format(*item.Date)
	}
	return wire
}

func (c *Codec) fromWire(wire itemJSON) (Item, error) {
	item := Item{
		ID:        wire.ID,
		Name:      wire.Name,
		Price:     wire.Price,
		Vendor:    wire.Vendor,
		Timestamp: wire.Timestamp,
	}
	if wire.Date != "" {
		date, err := c.dates.Parse(wire.Date)
		if err != nil {
			return Item{}, err
		}
		item.Date = &date
	}
	return item, nil
}
