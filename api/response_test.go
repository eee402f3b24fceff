package api

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func response(contentType, body string) *http.Response {
	h := http.Header{}
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	return &http.Response{StatusCode: http.StatusOK, Header: h, Body: io.NopCloser(strings.NewReader(body))}
}

func TestSafeParseResponse(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantRaw     string
	}{
		{"json object", "application/json", `{"token":"t1"}`, `{"token":"t1"}`},
		{"json with charset", "application/json; charset=utf-8", `{"a":1}`, `{"a":1}`},
		{"broken json", "application/json", `{"token":`, `{"message":"Invalid JSON response"}`},
		{"empty json", "application/json", ``, `{"message":"Invalid JSON response"}`},
		{"plain text", "text/html", `Bad Gateway`, `{"message":"Bad Gateway"}`},
		{"empty text", "text/plain", ``, `{}`},
		{"no content type", "", `{"a":1}`, `{"message":"{\"a\":1}"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SafeParseResponse(response(tt.contentType, tt.body))
			assert.JSONEq(t, tt.wantRaw, string(p.Raw()))
		})
	}
}

func TestSafeParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantRaw     string
	}{
		{"json array", "application/json", `[{"_id":"1"}]`, `[{"_id":"1"}]`},
		{"broken json", "application/json", `[{`, `{}`},
		{"json as text", "text/plain", `{"error":"nope"}`, `{"error":"nope"}`},
		{"html", "text/html", `<h1>500</h1>`, `{}`},
		{"empty", "", ``, `{}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := SafeParseJSON(response(tt.contentType, tt.body))
			assert.JSONEq(t, tt.wantRaw, string(p.Raw()))
		})
	}
}

func TestSafeParseNilBody(t *testing.T) {
	res := &http.Response{Header: http.Header{}}
	assert.True(t, SafeParseJSON(res).IsEmpty())
	assert.True(t, SafeParseResponse(res).IsEmpty())
}

func TestPayloadErrorMessage(t *testing.T) {
	assert.Equal(t, "denied", newPayload([]byte(`{"error":"denied","message":"m"}`)).ErrorMessage())
	assert.Equal(t, "m", newPayload([]byte(`{"message":"m"}`)).ErrorMessage())
	assert.Equal(t, `{"code":7}`, newPayload([]byte(`{"code":7}`)).ErrorMessage())
	assert.Equal(t, `{}`, Payload{}.ErrorMessage())
	assert.Equal(t, `[1]`, newPayload([]byte(`[1]`)).ErrorMessage())
}

func TestPayloadItems(t *testing.T) {
	arr := newPayload([]byte(`[{"_id":"1"}]`))
	assert.JSONEq(t, `[{"_id":"1"}]`, string(arr.Items("books")))

	wrapped := newPayload([]byte(`{"count":1,"data":[{"_id":"2"}]}`))
	assert.JSONEq(t, `[{"_id":"2"}]`, string(wrapped.Items("books", "data")))

	notList := newPayload([]byte(`{"books":"none"}`))
	assert.Nil(t, notList.Items("books"))
}
