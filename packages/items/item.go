package items

import (
	"fmt"
	"strings"
	"time"
)

// Item is the CRUD resource. ID is assigned by the server; Vendor, Date and
// Timestamp are optional and omitted from payloads when empty.
type Item struct {
	ID        int
	Name      string
	Price     float64
	Vendor    string
	Date      *time.Time
	Timestamp int64
}

func (i Item) String() string {
	var b strings.Builder
	if i.Date != nil {
		fmt.Fprintf(&b, "Date: %s, ", i.Date.Format(time.RFC3339Nano))
	}
	if i.Timestamp != 0 {
		fmt.Fprintf(&b, "Timestamp: %d, ", i.Timestamp)
	}
	fmt.Fprintf(&b, "ID: %d, ", i.ID)
	if i.Vendor != "" {
		fmt.Fprintf(&b, "Vendor: %s, ", i.Vendor)
	}
	fmt.Fprintf(&b, "Name: %s, Price: %.2f", i.Name, i.Price)
	return b.String()
}

// IDs returns the ids of list in order.
func IDs(list []Item) []int {
	ids := make([]int, len(list))
	for i, item := range list {
		ids[i] = item.ID
	}
	return ids
}

// Find returns the item with id from list.
func Find(list []Item, id int) (Item, bool) {
	for _, item := range list {
		if item.ID == id {
			return item, true
		}
	}
	return Item{}, false
}
