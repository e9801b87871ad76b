package agent

import "strings"

// apologyReply is the fixed reply used whenever generation fails. The real
// error never reaches the customer.
const apologyReply = "Sorry, I'm having a little trouble right now. Could you say that again in a moment?"

// collectStream drains a completion stream, forwarding every text token to
// emit and accumulating the full reply. On a terminal stream error the
// apology is forwarded exactly once and becomes the reply, and the raw
// error is returned for logging.
//
// emit may be nil for non-streaming callers.
func collectStream(chunks <-chan StreamChunk, emit func(string)) (string, TokenUsage, error) {
	var (
		text  strings.Builder
		usage TokenUsage
	)

	for chunk := range chunks {
		if chunk.Error != nil {
			if emit != nil {
				emit(apologyReply)
			}
			return apologyReply, usage, chunk.Error
		}
		if chunk.Text != "" {
			text.WriteString(chunk.Text)
			if emit != nil {
				emit(chunk.Text)
			}
		}
		if chunk.Done {
			usage = chunk.Usage
			break
		}
	}

	return text.String(), usage, nil
}
