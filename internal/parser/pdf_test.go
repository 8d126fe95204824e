package parser

import (
	"strings"
	"testing"
)

func TestPDFParser_InvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		fallback bool
	}{
		{"primary only", false},
		{"with fallback", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &PDFParser{Fallback: tt.fallback}
			_, err := p.Parse(strings.NewReader("this is not a pdf"), "bad.pdf")
			if err == nil {
				t.Fatal("expected error for invalid pdf")
			}
			if !strings.Contains(err.Error(), "extract pdf text") {
				t.Errorf("expected wrapped extract error, got %v", err)
			}
		})
	}
}
