package gmail

import (
	"encoding/base64"
	"strings"
	"testing"

	gmailapi "google.golang.org/api/gmail/v1"
)

func b64(s string) string {
	return base64.URLEncoding.EncodeToString([]byte(s))
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		want     string
	}{
		{"path separators", "foto/3x4.png", "foto_3x4.png"},
		{"backslash", `doc\scan.jpg`, "doc_scan.jpg"},
		{"quotes and colons", `rg "frente": cópia.jpg`, "rg _frente__ cópia.jpg"},
		{"whitespace collapsed", "  doc   scan .jpg", "doc scan .jpg"},
		{"accents preserved", "relatório médico.pdf", "relatório médico.pdf"},
		{"already clean", "cnh.jpg", "cnh.jpg"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.filename); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.filename, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilenameClampsLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("a", 300) + ".jpg")

	if len(got) != 255 {
		t.Errorf("len = %d, want 255", len(got))
	}
	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("extension lost: %q", got[len(got)-8:])
	}
}

func TestUsernameFromAddress(t *testing.T) {
	tests := []struct {
		name string
		from string
		want string
	}{
		{"display name form", "Maria Souza <maria.souza@hospital.org.br>", "maria.souza"},
		{"bare address", "joao@example.com", "joao"},
		{"angle brackets only", "<ana@example.com>", "ana"},
		{"no address", "not-an-email", "not-an-email"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := usernameFromAddress(tt.from); got != tt.want {
				t.Errorf("usernameFromAddress(%q) = %q, want %q", tt.from, got, tt.want)
			}
		})
	}
}

func TestDecodeBase64Data(t *testing.T) {
	payload := "Olá, médico! ÇÃÕ"

	tests := []struct {
		name string
		data string
	}{
		{"url encoding", base64.URLEncoding.EncodeToString([]byte(payload))},
		{"raw url encoding", base64.RawURLEncoding.EncodeToString([]byte(payload))},
		{"standard encoding", base64.StdEncoding.EncodeToString([]byte(payload))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := decodeBase64Data(tt.data)
			if err != nil {
				t.Fatalf("decodeBase64Data() error = %v", err)
			}
			if string(got) != payload {
				t.Errorf("decodeBase64Data() = %q, want %q", got, payload)
			}
		})
	}
}

func TestDecodeBase64DataInvalid(t *testing.T) {
	if _, err := decodeBase64Data("!!!"); err == nil {
		t.Error("decodeBase64Data(\"!!!\") expected error")
	}
}

func TestExtractBody(t *testing.T) {
	tests := []struct {
		name    string
		payload *gmailapi.MessagePart
		want    string
	}{
		{
			name:    "nil payload",
			payload: nil,
			want:    "",
		},
		{
			name: "direct plain text",
			payload: &gmailapi.MessagePart{
				MimeType: "text/plain",
				Body:     &gmailapi.MessagePartBody{Data: b64("Segue anexo.\n")},
			},
			want: "Segue anexo.",
		},
		{
			name: "direct html",
			payload: &gmailapi.MessagePart{
				MimeType: "text/html",
				Body:     &gmailapi.MessagePartBody{Data: b64("<p>Olá <b>doutor</b></p>")},
			},
			want: "Olá doutor",
		},
		{
			name: "multipart first text part wins",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("versão texto")}},
					{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<p>versão html</p>")}},
				},
			},
			want: "versão texto",
		},
		{
			name: "html only multipart",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "text/html", Body: &gmailapi.MessagePartBody{Data: b64("<div>apenas  html</div>")}},
				},
			},
			want: "apenas html",
		},
		{
			name: "nested multipart",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmailapi.MessagePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*gmailapi.MessagePart{
							{MimeType: "text/plain", Body: &gmailapi.MessagePartBody{Data: b64("corpo aninhado")}},
						},
					},
					{MimeType: "image/jpeg", Filename: "rg.jpg"},
				},
			},
			want: "corpo aninhado",
		},
		{
			name: "no text anywhere",
			payload: &gmailapi.MessagePart{
				MimeType: "multipart/mixed",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "image/jpeg", Filename: "rg.jpg"},
				},
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractBody(tt.payload); got != tt.want {
				t.Errorf("extractBody() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWalkParts(t *testing.T) {
	tree := &gmailapi.MessagePart{
		MimeType: "multipart/mixed",
		Parts: []*gmailapi.MessagePart{
			{MimeType: "text/plain"},
			{
				MimeType: "multipart/alternative",
				Parts: []*gmailapi.MessagePart{
					{MimeType: "image/jpeg", Filename: "rg.jpg"},
				},
			},
		},
	}

	var visited []string
	walkParts(tree, func(p *gmailapi.MessagePart) {
		visited = append(visited, p.MimeType)
	})

	if len(visited) != 4 {
		t.Fatalf("visited %d parts, want 4: %v", len(visited), visited)
	}
	if visited[0] != "multipart/mixed" {
		t.Errorf("first visited = %q, want root", visited[0])
	}
	if visited[3] != "image/jpeg" {
		t.Errorf("last visited = %q, want nested leaf", visited[3])
	}
}

func TestWalkPartsNil(t *testing.T) {
	called := false
	walkParts(nil, func(p *gmailapi.MessagePart) { called = true })
	if called {
		t.Error("walkParts(nil) should not invoke the callback")
	}
}

func TestFilenameFromDisposition(t *testing.T) {
	tests := []struct {
		name string
		part *gmailapi.MessagePart
		want string
	}{
		{
			name: "quoted filename",
			part: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
				{Name: "Content-Disposition", Value: `attachment; filename="rg frente.jpg"`},
			}},
			want: "rg frente.jpg",
		},
		{
			name: "unquoted filename",
			part: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
				{Name: "content-disposition", Value: "attachment; filename=foto.png"},
			}},
			want: "foto.png",
		},
		{
			name: "no disposition header",
			part: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
				{Name: "Content-Type", Value: "image/jpeg"},
			}},
			want: "",
		},
		{
			name: "disposition without filename",
			part: &gmailapi.MessagePart{Headers: []*gmailapi.MessagePartHeader{
				{Name: "Content-Disposition", Value: "inline"},
			}},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := filenameFromDisposition(tt.part); got != tt.want {
				t.Errorf("filenameFromDisposition() = %q, want %q", got, tt.want)
			}
		})
	}
}
