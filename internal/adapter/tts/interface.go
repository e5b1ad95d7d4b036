// Package tts provides an abstraction for the speech-synthesis client.
package tts

import "context"

// Synthesizer converts text to audio bytes.
type Synthesizer interface {
	// Synthesize returns encoded audio (mp3) for the given text and voice.
	Synthesize(ctx context.Context, text, voiceID string) ([]byte, error)
}
