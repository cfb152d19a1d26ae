package entity

import "encoding/base64"

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

type ContentType string

const (
	ContentTypeText  ContentType = "text"
	ContentTypeImage ContentType = "image"
)

type ContentPart struct {
	Type     ContentType
	Text     string
	Data     []byte
	MimeType string
}

type Message struct {
	Role  MessageRole
	Parts []ContentPart
}

func TextPart(text string) ContentPart {
	return ContentPart{Type: ContentTypeText, Text: text}
}

func ImagePart(data []byte, mimeType string) ContentPart {
	return ContentPart{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

// DataURL renders an image part as a data URL.
func (p ContentPart) DataURL() string {
	return "data:" + p.MimeType + ";base64," + base64.StdEncoding.EncodeToString(p.Data)
}
