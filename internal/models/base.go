package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ID is a server-assigned identifier. The catalog may send it as a JSON
// number or a string; digits are written back as a number.
type ID string

func (id ID) String() string { return string(id) }

// IsZero reports whether no identifier has been assigned yet.
func (id ID) IsZero() bool { return id == "" }

func (id ID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}
	if _, err := strconv.ParseUint(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*id = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// ParseUint returns the numeric form of the id, used by the catalog's
// auto-increment primary key.
func (id ID) ParseUint() (uint, error) {
	n, err := strconv.ParseUint(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id %q is not numeric", string(id))
	}
	return uint(n), nil
}

// IDFromUint formats a numeric primary key as an ID.
func IDFromUint(n uint) ID {
	return ID(strconv.FormatUint(uint64(n), 10))
}
