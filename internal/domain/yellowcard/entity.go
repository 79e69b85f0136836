package yellowcard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is an identifier the upstream sends either as a JSON string or number
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes purely numeric ids back as numbers
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) String() string {
	return string(id)
}

// Entry is a single violation or green card
type Entry struct {
	ID          ID     `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type Employee struct {
	ID         ID      `json:"id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	Violations []Entry `json:"violations"`
	GreenCards []Entry `json:"greenCards"`
}
