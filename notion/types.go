package notion

import "strings"

const (
	blockTypeChildDatabase = "child_database"
	richTextTypeText       = "text"
	parentTypePageID       = "page_id"

	// Notion rejects rich text content longer than this many characters.
	maxRichTextRunes = 2000
	listPageSize     = 100
)

// Database is the part of a Notion database object the sync needs.
type Database struct {
	ID    string
	Title string
	URL   string
}

type textContent struct {
	Content string `json:"content"`
}

type richText struct {
	Type      string       `json:"type,omitempty"`
	Text      *textContent `json:"text,omitempty"`
	PlainText string       `json:"plain_text,omitempty"`
}

func plainText(segments []richText) string {
	var builder strings.Builder
	for _, segment := range segments {
		builder.WriteString(segment.PlainText)
	}
	return builder.String()
}

// textSegments splits content into rich text segments within the API limit.
// Empty content yields no segments.
func textSegments(content string) []richText {
	runes := []rune(content)
	segments := make([]richText, 0, len(runes)/maxRichTextRunes+1)
	for start := 0; start < len(runes); start += maxRichTextRunes {
		end := min(start+maxRichTextRunes, len(runes))
		segments = append(segments, richText{
			Type: richTextTypeText,
			Text: &textContent{Content: string(runes[start:end])},
		})
	}
	return segments
}

type block struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

type blockList struct {
	Results    []block `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type databaseObject struct {
	ID    string     `json:"id"`
	Title []richText `json:"title"`
	URL   string     `json:"url"`
}

func (d databaseObject) toDatabase() Database {
	return Database{ID: d.ID, Title: plainText(d.Title), URL: d.URL}
}

type createdObject struct {
	ID string `json:"id"`
}

type pageParent struct {
	Type   string `json:"type"`
	PageID string `json:"page_id"`
}

type databaseParent struct {
	DatabaseID string `json:"database_id"`
}

type createDatabaseRequest struct {
	Parent     pageParent     `json:"parent"`
	Title      []richText     `json:"title"`
	Properties map[string]any `json:"properties"`
}

type createPageRequest struct {
	Parent     databaseParent `json:"parent"`
	Properties map[string]any `json:"properties"`
}
