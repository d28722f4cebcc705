package memory

import (
	"encoding/json"
	"errors"
	"os"
)

// Message is a minimal persisted view of one chat turn. Only text is stored;
// action requests and results are transient.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text,omitempty"`
}

// Transcript mirrors a conversation for display across restarts. SessionID
// is the platform session the transcript belongs to, so a restarted process
// resumes the same server-side conversation. The platform remains the
// canonical owner of history; this file is only a local cache.
type Transcript struct {
	SessionID string    `json:"session_id"`
	Messages  []Message `json:"messages"`
}

// Append records one turn's user text and assistant reply. Empty texts are
// skipped.
func (t *Transcript) Append(userText, assistantText string) {
	if userText != "" {
		t.Messages = append(t.Messages, Message{Role: "user", Text: userText})
	}
	if assistantText != "" {
		t.Messages = append(t.Messages, Message{Role: "assistant", Text: assistantText})
	}
}

// LoadTranscript reads a transcript from path. A missing file is not an
// error; it returns an empty transcript to start fresh.
func LoadTranscript(path string) (Transcript, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Transcript{}, nil
		}
		return Transcript{}, err
	}
	var t Transcript
	if err := json.Unmarshal(b, &t); err != nil {
		return Transcript{}, err
	}
	return t, nil
}

// SaveTranscript writes the transcript to path.
func SaveTranscript(path string, t Transcript) error {
	b, err := json.MarshalIndent(t, "", " ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}
