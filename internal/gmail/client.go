package gmail

import (
	"encoding/base64"
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/jafonso/vision-doc-classifier/internal/core"
	"go.uber.org/zap"
	gmailapi "google.golang.org/api/gmail/v1"
)

// Client wraps the Gmail Users service for corpus extraction
type Client struct {
	svc       *gmailapi.UsersService
	logger    *zap.Logger
	outputDir string
}

// NewClient creates a new extraction client. Downloaded attachments are
// written under outputDir, one folder per sender.
func NewClient(service *gmailapi.Service, logger *zap.Logger, outputDir string) *Client {
	return &Client{
		svc:       service.Users,
		logger:    logger,
		outputDir: outputDir,
	}
}

// FindLabelID resolves a label name to its ID. Matching is case-insensitive.
func (c *Client) FindLabelID(name string) (string, error) {
	res, err := c.svc.Labels.List("me").Do()
	if err != nil {
		return "", fmt.Errorf("failed to list labels: %w", err)
	}

	for _, label := range res.Labels {
		if strings.EqualFold(label.Name, name) {
			return label.Id, nil
		}
	}

	return "", fmt.Errorf("label %q not found", name)
}

// ListMessageIDs lists message IDs carrying the label, up to maxResults,
// paginating as needed.
func (c *Client) ListMessageIDs(labelID string, maxResults int64) ([]string, error) {
	var ids []string
	pageToken := ""

	for {
		remaining := maxResults - int64(len(ids))
		if remaining <= 0 {
			break
		}
		pageSize := remaining
		if pageSize > 100 {
			pageSize = 100
		}

		req := c.svc.Messages.List("me").LabelIds(labelID).MaxResults(pageSize)
		if pageToken != "" {
			req = req.PageToken(pageToken)
		}

		res, err := req.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, msg := range res.Messages {
			ids = append(ids, msg.Id)
		}

		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	if int64(len(ids)) > maxResults {
		ids = ids[:maxResults]
	}

	return ids, nil
}

// FetchEmail downloads one message with its headers, plain-text body and
// attachments. Attachment files are saved before the email is returned.
func (c *Client) FetchEmail(messageID string) (*core.Email, error) {
	msg, err := c.svc.Messages.Get("me", messageID).Format("full").Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", messageID, err)
	}

	from := headerValue(msg.Payload, "From")
	if from == "" {
		from = "unknown@unknown.com"
	}
	subject := headerValue(msg.Payload, "Subject")
	if subject == "" {
		subject = "Sem assunto"
	}

	email := &core.Email{
		From:      from,
		Subject:   subject,
		Body:      extractBody(msg.Payload),
		MessageID: messageID,
	}
	if msg.InternalDate > 0 {
		email.Date = time.UnixMilli(msg.InternalDate).UTC().Format(time.RFC3339)
	}

	folder := filepath.Join(c.outputDir, usernameFromAddress(from))
	email.Attachments = c.downloadAttachments(messageID, msg.Payload, folder)

	return email, nil
}

// downloadAttachments walks the message parts and saves every attachment it
// can. A failed download skips that attachment instead of failing the email.
func (c *Client) downloadAttachments(messageID string, payload *gmailapi.MessagePart, folder string) []*core.Attachment {
	attachments := []*core.Attachment{}

	walkParts(payload, func(part *gmailapi.MessagePart) {
		if part.Body == nil || part.Body.AttachmentId == "" {
			return
		}

		filename := part.Filename
		if filename == "" {
			filename = filenameFromDisposition(part)
		}
		if filename == "" {
			filename = "attachment"
		}
		filename = SanitizeFilename(filename)

		data, err := c.fetchAttachmentData(messageID, part.Body.AttachmentId)
		if err != nil {
			c.logger.Warn("Failed to download attachment",
				zap.String("message_id", messageID),
				zap.String("filename", filename),
				zap.Error(err))
			return
		}

		path := filepath.Join(folder, filename)
		if err := saveAttachment(path, data); err != nil {
			c.logger.Warn("Failed to save attachment",
				zap.String("path", path),
				zap.Error(err))
			return
		}

		mimeType := part.MimeType
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}

		attachments = append(attachments, &core.Attachment{
			Filename:  filename,
			MimeType:  mimeType,
			AnexoPath: path,
			Size:      part.Body.Size,
			Tags:      []string{},
		})

		c.logger.Info("Attachment downloaded", zap.String("path", path))
	})

	return attachments
}

func (c *Client) fetchAttachmentData(messageID, attachmentID string) ([]byte, error) {
	att, err := c.svc.Messages.Attachments.Get("me", messageID, attachmentID).Do()
	if err != nil {
		return nil, err
	}
	return decodeBase64Data(att.Data)
}

// extractBody pulls plain text from the message payload. The first text part
// found wins; HTML parts are stripped down to their text content.
func extractBody(payload *gmailapi.MessagePart) string {
	if payload == nil {
		return ""
	}

	if payload.Body != nil && payload.Body.Data != "" {
		if decoded, err := decodeBase64Data(payload.Body.Data); err == nil {
			if payload.MimeType == "text/html" {
				return strings.TrimSpace(htmlToText(string(decoded)))
			}
			return strings.TrimSpace(string(decoded))
		}
	}

	for _, part := range payload.Parts {
		switch {
		case part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "":
			if decoded, err := decodeBase64Data(part.Body.Data); err == nil {
				return strings.TrimSpace(string(decoded))
			}
		case part.MimeType == "text/html" && part.Body != nil && part.Body.Data != "":
			if decoded, err := decodeBase64Data(part.Body.Data); err == nil {
				return strings.TrimSpace(htmlToText(string(decoded)))
			}
		case len(part.Parts) > 0:
			if body := extractBody(part); body != "" {
				return body
			}
		}
	}

	return ""
}

// walkParts recursively visits every message part
func walkParts(part *gmailapi.MessagePart, fn func(*gmailapi.MessagePart)) {
	if part == nil {
		return
	}

	fn(part)

	for _, subpart := range part.Parts {
		walkParts(subpart, fn)
	}
}

func headerValue(payload *gmailapi.MessagePart, name string) string {
	if payload == nil {
		return ""
	}
	for _, h := range payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

var dispositionFilename = regexp.MustCompile(`filename="?([^"]+)"?`)

func filenameFromDisposition(part *gmailapi.MessagePart) string {
	for _, h := range part.Headers {
		if strings.EqualFold(h.Name, "Content-Disposition") {
			if m := dispositionFilename.FindStringSubmatch(h.Value); m != nil {
				return m[1]
			}
		}
	}
	return ""
}

// decodeBase64Data decodes the base64url payloads the Gmail API returns,
// tolerating missing padding and standard-alphabet data.
func decodeBase64Data(data string) ([]byte, error) {
	if b, err := base64.URLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	if b, err := base64.RawURLEncoding.DecodeString(data); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(data)
}

func saveAttachment(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]`)
	repeatedWhitespace  = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips path separators and other characters that are
// unsafe on disk, collapses whitespace and clamps the name to 255 bytes.
func SanitizeFilename(filename string) string {
	filename = unsafeFilenameChars.ReplaceAllString(filename, "_")
	filename = strings.TrimSpace(repeatedWhitespace.ReplaceAllString(filename, " "))

	if len(filename) > 255 {
		ext := filepath.Ext(filename)
		filename = filename[:255-len(ext)] + ext
	}

	return filename
}

// usernameFromAddress derives a per-sender folder name from a From header.
// The header may be a bare address or a display-name form; either way the
// local part of the address is used.
func usernameFromAddress(from string) string {
	addr := from
	if parsed, err := mail.ParseAddress(from); err == nil {
		addr = parsed.Address
	}
	if i := strings.Index(addr, "@"); i >= 0 {
		addr = addr[:i]
	}
	return SanitizeFilename(addr)
}
