package capture

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"strings"
)

// DefaultMimeType is assumed for files that carry no declared content type.
// Camera inputs on several platforms omit the type entirely.
const DefaultMimeType = "image/jpeg"

// Payload is the transfer-ready representation of a captured image: raw
// base64 text plus the declared MIME type. The preview reference is never
// part of the payload.
type Payload struct {
	Data     string `json:"base64"`
	MimeType string `json:"mimeType"`
}

// Encode reads r to completion and returns its base64 representation along
// with the declared MIME type. Content that already arrives wrapped as a data
// URL is unwrapped so the result never carries an embedding-scheme prefix.
// An empty declared type falls back to DefaultMimeType.
func Encode(r io.Reader, declaredMime string) (Payload, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Payload{}, fmt.Errorf("read image: %w", err)
	}

	mimeType := declaredMime
	if mimeType == "" {
		mimeType = DefaultMimeType
	}

	if data, embedded, ok := stripDataURL(raw); ok {
		if embedded != "" {
			mimeType = embedded
		}
		return Payload{Data: data, MimeType: mimeType}, nil
	}

	return Payload{
		Data:     base64.StdEncoding.EncodeToString(raw),
		MimeType: mimeType,
	}, nil
}

// stripDataURL unwraps "data:<mime>;base64,<payload>" content, returning the
// bare base64 payload and the MIME type embedded in the header.
func stripDataURL(raw []byte) (data, mimeType string, ok bool) {
	const scheme = "data:"
	const marker = ";base64,"

	if !bytes.HasPrefix(raw, []byte(scheme)) {
		return "", "", false
	}
	s := string(raw)
	idx := strings.Index(s, marker)
	if idx < 0 {
		return "", "", false
	}
	return s[idx+len(marker):], s[len(scheme):idx], true
}
