package speech

import (
	"context"
	"errors"
)

// Payload — сырой ответ синтеза: байты аудио и контейнер ("mp3"|"wav").
type Payload struct {
	Data   []byte
	Format string
}

// ErrSynthesisFailed — в ответе провайдера нет декодируемого аудио.
var ErrSynthesisFailed = errors.New("speech: no decodable payload in response")

// Synthesizer абстракция речевого шлюза. Реализации взаимозаменяемы и
// возвращают контент, не воспроизводя его.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voiceID string) (Payload, error)
}
