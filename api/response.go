package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
)

// Payload is a response body that was parsed without ever failing. It holds
// either a JSON document or nothing; plain-text bodies are wrapped as
// {"message": text} by SafeParseResponse.
type Payload struct {
	doc json.RawMessage
	obj map[string]json.RawMessage
}

func newPayload(doc []byte) Payload {
	doc = bytes.TrimSpace(doc)
	if len(doc) == 0 || !json.Valid(doc) {
		return Payload{}
	}
	p := Payload{doc: json.RawMessage(doc)}
	if doc[0] == '{' {
		_ = json.Unmarshal(doc, &p.obj)
	}
	return p
}

func messagePayload(text string) Payload {
	doc, _ := json.Marshal(map[string]string{"message": text})
	return newPayload(doc)
}

// SafeParseResponse reads res for the auth screens. A declared JSON body is
// decoded, or replaced by {"message": "Invalid JSON response"} when broken.
// Any other body becomes {"message": text}, or {} when empty.
func SafeParseResponse(res *http.Response) Payload {
	body := readBody(res)
	if isJSON(res) {
		if p := newPayload(body); !p.IsEmpty() {
			return p
		}
		return messagePayload("Invalid JSON response")
	}
	if text := string(body); text != "" {
		return messagePayload(text)
	}
	return Payload{}
}

// SafeParseJSON reads res for the consoles. It decodes a JSON body whatever
// the declared content type and yields {} for anything else.
func SafeParseJSON(res *http.Response) Payload {
	return newPayload(readBody(res))
}

func isJSON(res *http.Response) bool {
	return strings.Contains(res.Header.Get("Content-Type"), "application/json")
}

func readBody(res *http.Response) []byte {
	if res == nil || res.Body == nil {
		return nil
	}
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil
	}
	return body
}

// IsEmpty reports whether no JSON document was recovered.
func (p Payload) IsEmpty() bool { return len(p.doc) == 0 }

// Raw returns the JSON document, or {} when there is none.
func (p Payload) Raw() json.RawMessage {
	if p.IsEmpty() {
		return json.RawMessage("{}")
	}
	return p.doc
}

// String returns a string field of an object body, or "" when the body is
// not an object or the field is not a string.
func (p Payload) String(key string) string {
	raw, ok := p.obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// ErrorMessage picks the text to show for a failed call: the error field, the
// message field, then the raw body.
func (p Payload) ErrorMessage() string {
	if s := p.String("error"); s != "" {
		return s
	}
	if s := p.String("message"); s != "" {
		return s
	}
	return string(p.Raw())
}

// Items returns the list carried by the body: the body itself when it is an
// array, else the first array found under keys. It returns nil when neither
// exists.
func (p Payload) Items(keys ...string) json.RawMessage {
	if !p.IsEmpty() && p.doc[0] == '[' {
		return p.doc
	}
	for _, key := range keys {
		raw := bytes.TrimSpace(p.obj[key])
		if len(raw) > 0 && raw[0] == '[' {
			return json.RawMessage(raw)
		}
	}
	return nil
}
