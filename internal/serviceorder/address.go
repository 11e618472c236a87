package serviceorder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AddressField is one key of a customer address.
type AddressField struct {
	Key   string
	Value string
}

// Address keeps the customer's address keys in payload order. Values that
// were empty, zero, false or null are dropped while decoding.
type Address []AddressField

// Get returns the value stored under key.
func (a Address) Get(key string) string {
	for _, f := range a {
		if f.Key == key {
			return f.Value
		}
	}
	return ""
}

// Format joins the values in key order with " - ".
func (a Address) Format() string {
	values := make([]string, 0, len(a))
	for _, f := range a {
		if f.Value != "" {
			values = append(values, f.Value)
		}
	}
	return strings.Join(values, " - ")
}

// UnmarshalJSON walks the object token by token so that key order survives.
func (a *Address) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = nil
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("address must be an object")
	}

	var out Address
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("address %s: %w", key, err)
		}
		if value, ok := scalarText(raw); ok {
			out = append(out, AddressField{Key: key, Value: value})
		}
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalJSON writes the fields back as an object in the stored order.
func (a Address) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// scalarText renders a truthy scalar the way it reads in an address line.
// Objects, arrays and falsy values report false.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || s == "" {
			return "", false
		}
		return s, true
	case 't':
		return "true", true
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		n, err := strconv.ParseFloat(string(raw), 64)
		if err != nil || n == 0 {
			return "", false
		}
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}
