package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLanguageForFile(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"app/main.py", "Python"},
		{"src/Handler.java", "Java"},
		{"web/index.js", "JavaScript"},
		{"web/App.jsx", "JavaScript (React)"},
		{"web/api.ts", "TypeScript"},
		{"web/App.tsx", "TypeScript (React)"},
		{"server/handler.go", "Go"},
		{"db/schema.SQL", "SQL"},
		{"deploy.yaml", "YAML"},
		{"README.md", UnknownLanguage},
		{"Makefile", UnknownLanguage},
		{"", UnknownLanguage},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LanguageForFile(tt.filename), tt.filename)
	}
}
