package api

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", DefaultBase},
		{"   ", DefaultBase},
		{"localhost:5000", "http://localhost:5000"},
		{"  api.example.com/  ", "http://api.example.com"},
		{"http://localhost:5000///", "http://localhost:5000"},
		{"HTTPS://Library.example", "HTTPS://Library.example"},
		{"https://x.example/v1/", "https://x.example/v1"},
		{"ftp://x.example", "http://ftp://x.example"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeBase(tt.in), "input %q", tt.in)
	}
}

func TestNormalizeBaseProperties(t *testing.T) {
	inputs := []string{"a", "a/", "a//", "http://a/", "https://a", "10.0.0.1:8080/", "host/path//"}
	for _, in := range inputs {
		got := NormalizeBase(in)
		lower := strings.ToLower(got)
		assert.True(t, strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://"), got)
		assert.False(t, strings.HasSuffix(got, "/"), got)
		assert.Equal(t, got, NormalizeBase(got), "normalizing twice changes %q", in)
	}
}
