package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jafonso/vision-doc-classifier/internal/core"
)

// LoadCollection reads an email collection from a JSON file
func LoadCollection(path string) (*core.EmailCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}

	var collection core.EmailCollection
	if err := json.Unmarshal(data, &collection); err != nil {
		return nil, fmt.Errorf("failed to parse collection file: %w", err)
	}

	return &collection, nil
}

// SaveCollection writes an email collection to a JSON file. Output is
// pretty-printed and accented text is written literally so the files stay
// reviewable by hand.
func SaveCollection(path string, collection *core.EmailCollection) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(collection); err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write collection file: %w", err)
	}

	return nil
}

// AssignIDs numbers emails and attachments sequentially and resets every
// attachment's tags, preparing a freshly scraped corpus for classification.
// Attachment IDs are global across the collection, not per email.
func AssignIDs(collection *core.EmailCollection) {
	emailID := 1
	attachmentID := 1

	for _, email := range collection.Emails {
		email.EmailID = emailID
		emailID++

		for _, att := range email.Attachments {
			att.AttachmentID = attachmentID
			att.Tags = []string{}
			attachmentID++
		}
	}
}
