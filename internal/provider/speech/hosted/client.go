package hosted

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2/google"

	"PodcastStudio/internal/provider/speech"
)

// По умолчанию используем Cloud TTS v1beta1 text:synthesize, совместимый с Generative AI TTS.
const defaultEndpoint = "https://texttospeech.googleapis.com/v1beta1/text:synthesize"

// Client реализует размещённый синтез речи через REST и возвращает байты аудио.
// HTTP-клиент с учётными данными создаётся заново на каждый вызов, чтобы не
// захватывать протухшие токены между прогонами.
type Client struct {
	endpoint string
	model    string
	logger   *zap.SugaredLogger
}

func New(endpoint, model string, logger *zap.SugaredLogger) *Client {
	if strings.TrimSpace(endpoint) == "" {
		endpoint = defaultEndpoint
	}
	return &Client{endpoint: endpoint, model: model, logger: logger}
}

// requestPayload — максимально нейтральная структура, покрывающая input.text и voice.model_name.
type requestPayload struct {
	Input struct {
		Text string `json:"text,omitempty"`
	} `json:"input"`
	Voice struct {
		ModelName    string `json:"modelName,omitempty"`
		LanguageCode string `json:"languageCode,omitempty"`
		VoiceName    string `json:"name,omitempty"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding string `json:"audioEncoding,omitempty"`
	} `json:"audioConfig"`
}

// Ответ приходит как JSON с base64 полем audioContent.
type jsonAudioResponse struct {
	AudioContent string `json:"audioContent"`
}

// Synthesize выполняет запрос синтеза и возвращает MP3-пейлоад.
func (c *Client) Synthesize(ctx context.Context, text string, voiceID string) (speech.Payload, error) {
	if strings.TrimSpace(text) == "" {
		return speech.Payload{}, fmt.Errorf("hosted tts: empty input text")
	}

	var rp requestPayload
	rp.Input.Text = text
	rp.Voice.ModelName = strings.TrimSpace(c.model)
	rp.Voice.VoiceName = strings.TrimSpace(voiceID)
	rp.Voice.LanguageCode = languageOf(voiceID)
	rp.AudioConfig.AudioEncoding = "MP3"

	body, err := json.Marshal(&rp)
	if err != nil {
		return speech.Payload{}, err
	}

	// OAuth2 HTTP-клиент строим только через ADC/metadata, на каждый вызов заново.
	httpClient, err := google.DefaultClient(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return speech.Payload{}, fmt.Errorf("hosted tts: ADC credentials not found: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return speech.Payload{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return speech.Payload{}, err
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Infow("Hosted TTS request completed", "status", resp.StatusCode, "took", time.Since(started).String())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return speech.Payload{}, fmt.Errorf("hosted tts error: status=%d, body=%s", resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var jr jsonAudioResponse
	dec := json.NewDecoder(io.LimitReader(resp.Body, 20<<20)) // до 20 МБ JSON
	if err := dec.Decode(&jr); err != nil {
		return speech.Payload{}, fmt.Errorf("hosted tts: decode json response: %w", err)
	}
	if strings.TrimSpace(jr.AudioContent) == "" {
		return speech.Payload{}, fmt.Errorf("hosted tts: %w", speech.ErrSynthesisFailed)
	}
	data, err := base64.StdEncoding.DecodeString(jr.AudioContent)
	if err != nil {
		return speech.Payload{}, fmt.Errorf("hosted tts: base64 decode: %w", err)
	}
	return speech.Payload{Data: data, Format: "mp3"}, nil
}

// languageOf выводит код языка из имени голоса вида "ru-RU-Chirp3-HD-Kore".
// Для коротких имён без префикса языка возвращается en-US.
func languageOf(voiceID string) string {
	parts := strings.SplitN(voiceID, "-", 3)
	if len(parts) >= 2 && len(parts[0]) == 2 && len(parts[1]) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return "en-US"
}
