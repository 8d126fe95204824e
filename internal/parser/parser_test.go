package parser

import "testing"

func TestForFile(t *testing.T) {
	tests := []struct {
		filename string
		wantErr  bool
	}{
		{"a.pdf", false},
		{"a.PDF", false},
		{"a.md", false},
		{"a.markdown", false},
		{"a.html", false},
		{"a.docx", false},
		{"a.txt", false},
		{"a.csv", true},
		{"noext", true},
	}
	for _, tt := range tests {
		p, err := ForFile(tt.filename, Options{})
		if (err != nil) != tt.wantErr {
			t.Errorf("%s: expected err=%v, got %v", tt.filename, tt.wantErr, err)
		}
		if err == nil && p == nil {
			t.Errorf("%s: expected parser", tt.filename)
		}
		if IsSupportedExtension(tt.filename) == tt.wantErr {
			t.Errorf("%s: IsSupportedExtension disagrees with ForFile", tt.filename)
		}
	}
}

func TestForFile_PDFFallbackOption(t *testing.T) {
	p, err := ForFile("x.pdf", Options{PDFFallback: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	pp, ok := p.(*PDFParser)
	if !ok || !pp.Fallback {
		t.Errorf("expected PDF parser with fallback, got %#v", p)
	}
}

func TestSizeForLevel(t *testing.T) {
	if sizeForLevel(1) <= sizeForLevel(2) || sizeForLevel(2) <= sizeForLevel(0) {
		t.Error("expected heading sizes to decrease by level and exceed body size")
	}
	if sizeForLevel(-1) != sizeForLevel(0) || sizeForLevel(9) != sizeForLevel(0) {
		t.Error("expected out-of-range levels to use the body size")
	}
}
