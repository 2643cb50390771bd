package models

type StartCaptureResponse struct {
	SessionID string `json:"sessionId"`
	Prompt    string `json:"prompt"`
}

// CaptureStateResponse reports the session slot: "empty", "loading",
// "ready" or "done". HasPreview tracks the on-screen preview reference only;
// the encoded payload itself is never echoed back.
type CaptureStateResponse struct {
	SessionID  string `json:"sessionId"`
	State      string `json:"state"`
	HasPreview bool   `json:"hasPreview"`
	MimeType   string `json:"mimeType,omitempty"`
}

type ConfirmCaptureResponse struct {
	SessionID string `json:"sessionId"`
	PhotoID   string `json:"photoId,omitempty"`
	Message   string `json:"message"`
}

type SkipCaptureResponse struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}
