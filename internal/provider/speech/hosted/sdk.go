package hosted

import (
	"context"
	"fmt"
	"strings"
	"time"

	gctts "cloud.google.com/go/texttospeech/apiv1"
	ttspb "cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"go.uber.org/zap"

	"PodcastStudio/internal/provider/speech"
)

// SDKClient — вариант размещённого шлюза поверх официального SDK
// Cloud Text-to-Speech. Клиент SDK создаётся на каждый вызов.
type SDKClient struct {
	logger *zap.SugaredLogger
}

func NewSDK(logger *zap.SugaredLogger) *SDKClient {
	return &SDKClient{logger: logger}
}

// Synthesize выполняет запрос через SDK и возвращает MP3-пейлоад.
func (c *SDKClient) Synthesize(ctx context.Context, text string, voiceID string) (speech.Payload, error) {
	if strings.TrimSpace(text) == "" {
		return speech.Payload{}, fmt.Errorf("hosted tts sdk: empty input text")
	}

	ttsClient, err := gctts.NewClient(ctx)
	if err != nil {
		return speech.Payload{}, err
	}
	defer ttsClient.Close()

	req := &ttspb.SynthesizeSpeechRequest{
		Input: &ttspb.SynthesisInput{InputSource: &ttspb.SynthesisInput_Text{Text: text}},
		Voice: &ttspb.VoiceSelectionParams{
			LanguageCode: languageOf(voiceID),
			Name:         voiceID,
		},
		AudioConfig: &ttspb.AudioConfig{AudioEncoding: ttspb.AudioEncoding_MP3},
	}

	started := time.Now()
	resp, err := ttsClient.SynthesizeSpeech(ctx, req)
	if err != nil {
		return speech.Payload{}, err
	}
	if c.logger != nil {
		c.logger.Infow("Hosted TTS synthesize completed", "took", time.Since(started).String())
	}

	if len(resp.GetAudioContent()) == 0 {
		return speech.Payload{}, fmt.Errorf("hosted tts sdk: %w", speech.ErrSynthesisFailed)
	}
	return speech.Payload{Data: resp.GetAudioContent(), Format: "mp3"}, nil
}
