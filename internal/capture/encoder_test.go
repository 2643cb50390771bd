package capture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestEncodeRoundTrip(t *testing.T) {
	raw := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}

	payload, err := Encode(bytes.NewReader(raw), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "image/jpeg", payload.MimeType)
	require.False(t, strings.Contains(payload.Data, ","))
	require.False(t, strings.HasPrefix(payload.Data, "data:"))

	decoded, err := base64.StdEncoding.DecodeString(payload.Data)
	require.NoError(t, err)
	require.Equal(t, raw, decoded)
}

func TestEncodeDefaultsMimeType(t *testing.T) {
	payload, err := Encode(bytes.NewReader([]byte("pixels")), "")
	require.NoError(t, err)
	require.Equal(t, DefaultMimeType, payload.MimeType)
}

func TestEncodeStripsDataURLPrefix(t *testing.T) {
	raw := []byte("hello capture")
	encoded := base64.StdEncoding.EncodeToString(raw)
	dataURL := "data:image/png;base64," + encoded

	payload, err := Encode(strings.NewReader(dataURL), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, encoded, payload.Data)
	// The embedded header wins over the declared type.
	require.Equal(t, "image/png", payload.MimeType)
}

func TestEncodeLeavesNonBase64DataURLAlone(t *testing.T) {
	content := "data:text/plain,not-base64-content"

	payload, err := Encode(strings.NewReader(content), "image/png")
	require.NoError(t, err)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte(content)), payload.Data)
	require.Equal(t, "image/png", payload.MimeType)
}

func TestEncodePropagatesReadErrors(t *testing.T) {
	_, err := Encode(errReader{}, "image/jpeg")
	require.Error(t, err)
}
