package models

// ImagePayload is a base64-encoded image blob plus its MIME type. Payloads
// are immutable once produced and flow between the upload, edit, and
// generation endpoints unchanged.
type ImagePayload struct {
	Data     string `json:"data"`
	MimeType string `json:"mime_type"`
}
