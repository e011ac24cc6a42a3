package core

import "testing"

func TestMatchFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantTag  string
		wantOK   bool
	}{
		{
			name:     "plain foto",
			filename: "foto.jpg",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "uppercase",
			filename: "FOTO.JPG",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "foto3x4 without separator",
			filename: "foto3x4.png",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "foto-3x4 with dash",
			filename: "foto-3x4.jpeg",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "foto 3x4 with space",
			filename: "foto 3x4.jpg",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "bare 3x4",
			filename: "3x4.png",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "surrounding whitespace",
			filename: "  foto.jpg  ",
			wantTag:  TagFoto3x4,
			wantOK:   true,
		},
		{
			name:     "wrong extension",
			filename: "foto.gif",
			wantOK:   false,
		},
		{
			name:     "prefix does not anchor",
			filename: "minha_foto.jpg",
			wantOK:   false,
		},
		{
			name:     "unrelated document",
			filename: "rg_frente.jpg",
			wantOK:   false,
		},
		{
			name:     "empty",
			filename: "",
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, ok := MatchFilename(tt.filename)
			if ok != tt.wantOK {
				t.Fatalf("MatchFilename(%q) ok = %v, want %v", tt.filename, ok, tt.wantOK)
			}
			if tag != tt.wantTag {
				t.Errorf("MatchFilename(%q) tag = %q, want %q", tt.filename, tag, tt.wantTag)
			}
		})
	}
}
