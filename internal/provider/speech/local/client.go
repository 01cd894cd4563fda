package local

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"PodcastStudio/internal/provider/speech"
)

// Client реализует синтез через локальный нейро-движок (HTTP-демон),
// отдающий WAV в теле ответа. HTTP-клиент создаётся на каждый вызов.
type Client struct {
	addr string
}

func New(addr string) *Client {
	return &Client{addr: strings.TrimRight(addr, "/")}
}

// Synthesize выполняет запрос к локальному демону и возвращает WAV-пейлоад.
func (c *Client) Synthesize(ctx context.Context, text string, voiceID string) (speech.Payload, error) {
	if strings.TrimSpace(c.addr) == "" {
		return speech.Payload{}, fmt.Errorf("local tts: empty daemon address (set LOCAL_TTS_ADDR or -local-tts-addr)")
	}

	form := url.Values{}
	form.Set("text", text)
	form.Set("voice", voiceID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.addr+"/api/tts", strings.NewReader(form.Encode()))
	if err != nil {
		return speech.Payload{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return speech.Payload{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if len(b) == 0 {
			b = []byte(resp.Status)
		}
		return speech.Payload{}, fmt.Errorf("local tts error: status=%d, body=%s", resp.StatusCode, bytes.TrimSpace(b))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	if err != nil {
		return speech.Payload{}, err
	}
	if len(data) == 0 {
		return speech.Payload{}, fmt.Errorf("local tts: %w", speech.ErrSynthesisFailed)
	}
	return speech.Payload{Data: data, Format: "wav"}, nil
}
