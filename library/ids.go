package library

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// ID is the canonical identifier of any server entity. The server has sent
// plain strings, extended JSON ({"$oid": "..."}), embedded documents
// ({"_id": ...}) and numbers over time; all decode to the same string.
type ID string

// String implements fmt.Stringer.
func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts every identifier shape the API produces. Unknown
// shapes decode to the empty ID rather than failing the whole document.
func (id *ID) UnmarshalJSON(data []byte) error {
	*id = ID(decodeID(data))
	return nil
}

func decodeID(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return ""
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return ""
		}
		for _, key := range []string{"$oid", "_id", "id"} {
			if raw, ok := obj[key]; ok {
				return decodeID(raw)
			}
		}
		return ""
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return ""
		}
		return n.String()
	}
}

// Timestamp is a tolerant date. A value that cannot be parsed is left zero.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// UnmarshalJSON never fails; see Timestamp.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	t.Time = decodeTime(data)
	return nil
}

// DateOr renders the date part, or fallback when the timestamp is unset.
func (t Timestamp) DateOr(fallback string) string {
	if t.IsZero() {
		return fallback
	}
	return t.Time.Format("2006-01-02")
}

func decodeTime(data []byte) time.Time {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return time.Time{}
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return time.Time{}
		}
		return parseTime(s)
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return time.Time{}
		}
		for _, key := range []string{"$date", "$numberLong"} {
			if raw, ok := obj[key]; ok {
				return decodeTime(raw)
			}
		}
		return time.Time{}
	default:
		ms, err := strconv.ParseInt(string(data), 10, 64)
		if err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC()
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// decodeCount reads a copy count the way the server has stored it: an int, a
// double such as 2.0, a numeric string or an extended JSON number. Anything
// else is nil, which the views show as unknown.
func decodeCount(data []byte) *int {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var text string
	switch data[0] {
	case '"':
		if err := json.Unmarshal(data, &text); err != nil {
			return nil
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil
		}
		for _, key := range []string{"$numberInt", "$numberLong", "$numberDouble"} {
			if raw, ok := obj[key]; ok {
				return decodeCount(raw)
			}
		}
		return nil
	default:
		text = string(data)
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n := int(f)
	return &n
}
