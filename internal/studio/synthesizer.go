package studio

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"PodcastStudio/internal/audio"
	"PodcastStudio/internal/provider/speech"
	"PodcastStudio/internal/retry"
	"PodcastStudio/internal/script"
	"PodcastStudio/internal/voice"
)

// SegmentSynthesizer превращает один сегмент сценария в клип: разрешает голос
// внутри семейства активного решения, вызывает речевой шлюз через политику
// повторов и декодирует ответ.
type SegmentSynthesizer struct {
	synth      speech.Synthesizer
	policy     retry.Policy
	candidates []voice.Profile
	mapping    map[string]string
	logger     *zap.SugaredLogger
}

func NewSegmentSynthesizer(synth speech.Synthesizer, policy retry.Policy, candidates []voice.Profile, mapping map[string]string, logger *zap.SugaredLogger) *SegmentSynthesizer {
	return &SegmentSynthesizer{synth: synth, policy: policy, candidates: candidates, mapping: mapping, logger: logger}
}

// Render проводит сегмент по машине состояний pending → generating →
// {completed|error}. Ошибка терминальна для этого сегмента и не трогает
// соседние; повторов сверх политики нет.
func (s *SegmentSynthesizer) Render(ctx context.Context, seg *script.Segment) (*audio.Clip, error) {
	seg.Status = script.StatusGenerating

	prof, err := voice.Resolve(seg.Speaker, s.mapping, s.candidates)
	if err != nil {
		seg.Status = script.StatusError
		return nil, fmt.Errorf("segment %s: %w", seg.ID, err)
	}

	var payload speech.Payload
	err = s.policy.Do(ctx, "synthesize", func(ctx context.Context) error {
		var e error
		payload, e = s.synth.Synthesize(ctx, seg.Text, prof.ProviderVoiceID)
		return e
	})
	if err != nil {
		seg.Status = script.StatusError
		return nil, err
	}

	clip, err := audio.Decode(payload)
	if err != nil {
		seg.Status = script.StatusError
		return nil, err
	}
	seg.Status = script.StatusCompleted

	if s.logger != nil {
		s.logger.Infow("Сегмент синтезирован",
			"speaker", seg.Speaker, "voice", prof.DisplayName,
			"duration", fmt.Sprintf("%.3fs", clip.Duration()))
	}
	return clip, nil
}
