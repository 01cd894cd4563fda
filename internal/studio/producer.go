package studio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/faiface/beep"
	"go.uber.org/zap"

	"PodcastStudio/internal/audio"
	"PodcastStudio/internal/provider/imageurl"
	"PodcastStudio/internal/provider/speech"
	"PodcastStudio/internal/retry"
	"PodcastStudio/internal/routing"
	"PodcastStudio/internal/script"
	"PodcastStudio/internal/subtitle"
	"PodcastStudio/internal/voice"
)

// ErrRunInProgress — попытка начать прогон, пока предыдущий не завершён.
// Запрос отклоняется, в очередь не ставится.
var ErrRunInProgress = errors.New("studio: production already in progress")

// PipelineError — прогон прерван на конкретном сегменте; накопленные буферы
// отброшены, частичный артефакт не возвращается.
type PipelineError struct {
	SegmentID string
	Speaker   string
	Err       error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("studio: production aborted at segment %s (%s): %v", e.SegmentID, e.Speaker, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// Options — входы одного прогона. Всё передаётся явно, ядро не читает
// окружение и глобальное состояние.
type Options struct {
	Quality     routing.Quality
	AccountTier string // водяной знак добавляется только для "free"
	Container   audio.Container
	VoiceMap    map[string]string
	IntroText   string
	OutroText   string
	CoverPrompt string
	OnProgress  func(done, total int)
}

// Timing — итоговый тайминг сегмента для отображения вызывающей стороной.
type Timing struct {
	ID       string  `json:"id"`
	Speaker  string  `json:"speaker"`
	Text     string  `json:"text"`
	Start    float64 `json:"start"`
	Duration float64 `json:"duration"`
}

// Artifact — результат успешного прогона. Неизменяем после возврата и целиком
// замещается следующим прогоном.
type Artifact struct {
	Audio     []byte
	Container audio.Container
	Subtitles string
	Timing    []Timing
	Decision  routing.Decision
	CoverURL  string
}

// Producer проводит один полный прогон: сегменты → клипы → мастер-трек →
// субтитры. Сегменты обрабатываются строго последовательно: порядок буферов
// и накопление startTime зависят от порядка завершения.
type Producer struct {
	hosted    speech.Synthesizer
	local     speech.Synthesizer
	assembler *audio.Assembler
	policy    retry.Policy
	logger    *zap.SugaredLogger

	running atomic.Bool
	abort   atomic.Bool
}

func NewProducer(hosted, local speech.Synthesizer, policy retry.Policy, logger *zap.SugaredLogger) *Producer {
	return &Producer{
		hosted:    hosted,
		local:     local,
		assembler: audio.NewAssembler(logger),
		policy:    policy,
		logger:    logger,
	}
}

// Abort просит остановить прогон. Текущий сетевой вызов не прерывается: флаг
// проверяется между сегментами.
func (p *Producer) Abort() { p.abort.Store(true) }

// Produce выполняет прогон от упорядоченных сегментов до готового артефакта.
// Решение о синтезе принимается один раз на весь прогон, не на сегмент.
func (p *Producer) Produce(ctx context.Context, opts Options, segments []*script.Segment, creds routing.Credentials) (*Artifact, error) {
	if !p.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer p.running.Store(false)
	p.abort.Store(false)

	decision, err := routing.SelectModel(routing.TaskAudioSynthesis, opts.Quality, false, creds)
	if err != nil {
		return nil, err
	}

	// Вступление и завершение — служебные сегменты по краям прогона,
	// не часть редактируемого сценария.
	run := make([]*script.Segment, 0, len(segments)+2)
	if strings.TrimSpace(opts.IntroText) != "" {
		run = append(run, script.NewInjected(opts.IntroText))
	}
	run = append(run, segments...)
	if strings.TrimSpace(opts.OutroText) != "" {
		run = append(run, script.NewInjected(opts.OutroText))
	}
	if len(run) == 0 {
		return nil, errors.New("studio: empty production run")
	}

	family := voice.FamilyForProvider(decision.Provider)
	synth := p.local
	if family == voice.FamilyHosted {
		synth = p.hosted
	}
	segSynth := NewSegmentSynthesizer(synth, p.policy, voice.Catalog(family), opts.VoiceMap, p.logger)

	if p.logger != nil {
		p.logger.Infow("Запуск производства",
			"segments", len(run), "model", decision.ModelID,
			"provider", decision.Provider, "reason", decision.Reason)
	}

	clips := make([]*audio.Clip, 0, len(run))
	var cursor float64
	var baseRate beep.SampleRate
	for i, sg := range run {
		if p.abort.Load() {
			return nil, &PipelineError{SegmentID: sg.ID, Speaker: sg.Speaker, Err: errors.New("stopped by user")}
		}

		clip, rerr := segSynth.Render(ctx, sg)
		if rerr != nil {
			return nil, &PipelineError{SegmentID: sg.ID, Speaker: sg.Speaker, Err: rerr}
		}
		if i == 0 {
			baseRate = clip.Format().SampleRate
		} else {
			clip = clip.Resampled(baseRate)
		}

		sg.Clip = clip
		sg.StartTime = cursor
		sg.Duration = clip.Duration()
		cursor += sg.Duration
		clips = append(clips, clip)

		if opts.OnProgress != nil {
			opts.OnProgress(i+1, len(run))
		}
	}

	data, err := p.assembler.Assemble(clips, strings.EqualFold(opts.AccountTier, "free"), opts.Container)
	if err != nil {
		return nil, err
	}

	timing := make([]Timing, 0, len(run))
	for _, sg := range run {
		timing = append(timing, Timing{ID: sg.ID, Speaker: sg.Speaker, Text: sg.Text, Start: sg.StartTime, Duration: sg.Duration})
	}

	var coverURL string
	if strings.TrimSpace(opts.CoverPrompt) != "" {
		imgDec, ierr := routing.SelectModel(routing.TaskImageGeneration, opts.Quality, false, creds)
		if ierr != nil {
			// обложка не критична для прогона, но молча терять ошибку нельзя
			if p.logger != nil {
				p.logger.Warnw("Обложка пропущена: маршрутизация не выбрала модель", "error", ierr)
			}
		} else {
			coverURL = imageurl.Build(opts.CoverPrompt, "podcast cover art", imgDec.ModelID)
		}
	}

	if p.logger != nil {
		p.logger.Infow("Производство завершено",
			"duration", fmt.Sprintf("%.3fs", cursor), "bytes", len(data), "container", string(opts.Container))
	}

	return &Artifact{
		Audio:     data,
		Container: opts.Container,
		Subtitles: subtitle.Generate(run),
		Timing:    timing,
		Decision:  decision,
		CoverURL:  coverURL,
	}, nil
}
