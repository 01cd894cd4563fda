package studio

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/faiface/beep"

	"PodcastStudio/internal/audio"
	"PodcastStudio/internal/provider/speech"
	"PodcastStudio/internal/retry"
	"PodcastStudio/internal/routing"
	"PodcastStudio/internal/script"
)

// wavPayload — валидный WAV на полсекунды тишины (8 кГц).
func wavPayload(t *testing.T) speech.Payload {
	t.Helper()
	buf := beep.NewBuffer(beep.Format{SampleRate: 8000, NumChannels: 2, Precision: 2})
	buf.Append(beep.Silence(4000))
	data, err := audio.EncodeWAV(audio.NewClip(buf))
	if err != nil {
		t.Fatalf("encode wav: %v", err)
	}
	return speech.Payload{Data: data, Format: "wav"}
}

// fakeSynth отдаёт заготовленный пейлоад и ошибки по номеру вызова.
type fakeSynth struct {
	mu      sync.Mutex
	payload speech.Payload
	failOn  map[int]error // номер вызова (с единицы) → ошибка
	calls   int
	onCall  func(n int)
}

func (f *fakeSynth) Synthesize(_ context.Context, _ string, _ string) (speech.Payload, error) {
	f.mu.Lock()
	f.calls++
	n := f.calls
	f.mu.Unlock()
	if f.onCall != nil {
		f.onCall(n)
	}
	if err, ok := f.failOn[n]; ok {
		return speech.Payload{}, err
	}
	return f.payload, nil
}

func (f *fakeSynth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func noSleep(_ context.Context, _ time.Duration) error { return nil }

func testPolicy(maxRetries int) retry.Policy {
	return retry.Policy{MaxRetries: maxRetries, BaseDelay: 2 * time.Second, Multiplier: 2, Sleep: noSleep}
}

func testOptions() Options {
	return Options{
		Quality:     routing.QualityBalanced, // → локальное семейство
		AccountTier: "pro",
		Container:   audio.ContainerWAV,
		IntroText:   "вступление",
		OutroText:   "завершение",
	}
}

// TestProduceFiveSegments — сценарий из трёх реплик с вступлением и
// завершением даёт прогон из пяти сегментов с накопительным таймингом.
func TestProduceFiveSegments(t *testing.T) {
	synth := &fakeSynth{payload: wavPayload(t)}
	p := NewProducer(nil, synth, testPolicy(3), nil)

	segs := script.Parse("Host: раз\nGuest: два\nHost: три")
	var progress []float64
	opts := testOptions()
	opts.OnProgress = func(done, total int) {
		progress = append(progress, float64(done)/float64(total))
	}

	art, err := p.Produce(context.Background(), opts, segs, routing.Credentials{})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if synth.callCount() != 5 {
		t.Errorf("synth calls = %d, want 5", synth.callCount())
	}
	if len(art.Timing) != 5 {
		t.Fatalf("timing entries = %d, want 5", len(art.Timing))
	}

	// каждый клип — ровно полсекунды; startTime = сумма предыдущих длительностей
	var cursor float64
	for i, tm := range art.Timing {
		if math.Abs(tm.Start-cursor) > 1e-9 {
			t.Errorf("segment %d start = %v, want %v", i, tm.Start, cursor)
		}
		if math.Abs(tm.Duration-0.5) > 1e-9 {
			t.Errorf("segment %d duration = %v, want 0.5", i, tm.Duration)
		}
		cursor += tm.Duration
	}

	if art.Timing[0].Speaker != script.DefaultSpeaker || art.Timing[4].Speaker != script.DefaultSpeaker {
		t.Error("вступление/завершение не по краям прогона")
	}
	for i, s := range segs {
		if s.Status != script.StatusCompleted {
			t.Errorf("segment %d status = %s, want completed", i, s.Status)
		}
	}

	wantProgress := []float64{0.2, 0.4, 0.6, 0.8, 1.0}
	if len(progress) != len(wantProgress) {
		t.Fatalf("progress = %v", progress)
	}
	for i := range wantProgress {
		if math.Abs(progress[i]-wantProgress[i]) > 1e-9 {
			t.Errorf("progress[%d] = %v, want %v", i, progress[i], wantProgress[i])
		}
	}

	if len(art.Audio) == 0 || art.Subtitles == "" {
		t.Error("артефакт неполон")
	}
	if art.Decision.Provider != routing.ProviderLocal {
		t.Errorf("decision provider = %s, want local", art.Decision.Provider)
	}
}

// TestProduceAbortsRunOnSegmentFailure — отказ четвёртого сегмента после
// исчерпания повторов прерывает прогон без артефакта.
func TestProduceAbortsRunOnSegmentFailure(t *testing.T) {
	rateLimit := errors.New("status 429: quota exceeded")
	synth := &fakeSynth{
		payload: wavPayload(t),
		// сегмент 4 — вызовы 4 и 5 (один повтор политики)
		failOn: map[int]error{4: rateLimit, 5: rateLimit},
	}
	p := NewProducer(nil, synth, testPolicy(1), nil)

	segs := script.Parse("Host: раз\nGuest: два\nHost: три")
	art, err := p.Produce(context.Background(), testOptions(), segs, routing.Credentials{})
	if art != nil {
		t.Fatal("частичный артефакт не должен возвращаться")
	}
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PipelineError", err)
	}
	if !errors.Is(err, rateLimit) {
		t.Errorf("не сохранена исходная ошибка: %v", err)
	}
	// 3 успешных + 2 попытки четвёртого, пятый сегмент не начинался
	if synth.callCount() != 5 {
		t.Errorf("synth calls = %d, want 5", synth.callCount())
	}
	if segs[2].Status != script.StatusError {
		t.Errorf("упавший сегмент status = %s, want error", segs[2].Status)
	}
	if segs[0].Status != script.StatusCompleted {
		t.Errorf("завершённый сосед не должен терять статус: %s", segs[0].Status)
	}
}

// TestProduceRejectsConcurrentRun — второй прогон во время первого отклоняется.
func TestProduceRejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	synth := &fakeSynth{payload: wavPayload(t)}
	synth.onCall = func(n int) {
		if n == 1 {
			close(started)
			<-release
		}
	}
	p := NewProducer(nil, synth, testPolicy(0), nil)

	segs := script.Parse("Host: раз")
	done := make(chan error, 1)
	go func() {
		_, err := p.Produce(context.Background(), testOptions(), segs, routing.Credentials{})
		done <- err
	}()

	<-started
	_, err := p.Produce(context.Background(), testOptions(), script.Parse("Host: два"), routing.Credentials{})
	if !errors.Is(err, ErrRunInProgress) {
		t.Errorf("err = %v, want ErrRunInProgress", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("первый прогон упал: %v", err)
	}
}

// TestProduceAbortCheckedBetweenSegments — Abort не прерывает текущий вызов,
// но останавливает прогон перед следующим сегментом.
func TestProduceAbortCheckedBetweenSegments(t *testing.T) {
	synth := &fakeSynth{payload: wavPayload(t)}
	p := NewProducer(nil, synth, testPolicy(0), nil)
	synth.onCall = func(n int) {
		if n == 2 {
			p.Abort()
		}
	}

	segs := script.Parse("Host: раз\nGuest: два\nHost: три")
	_, err := p.Produce(context.Background(), testOptions(), segs, routing.Credentials{})
	var pe *PipelineError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PipelineError", err)
	}
	// вступление и первая реплика успели, дальше остановка
	if synth.callCount() != 2 {
		t.Errorf("synth calls = %d, want 2", synth.callCount())
	}
}

// TestProduceSelectsHostedOnPremium — premium ведёт в размещённое семейство.
func TestProduceSelectsHostedOnPremium(t *testing.T) {
	hosted := &fakeSynth{payload: wavPayload(t)}
	local := &fakeSynth{payload: wavPayload(t)}
	p := NewProducer(hosted, local, testPolicy(0), nil)

	opts := testOptions()
	opts.Quality = routing.QualityPremium
	if _, err := p.Produce(context.Background(), opts, script.Parse("Host: раз"), routing.Credentials{}); err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if hosted.callCount() == 0 || local.callCount() != 0 {
		t.Errorf("hosted=%d local=%d, want только hosted", hosted.callCount(), local.callCount())
	}
}

// TestProduceWatermarkByTier — бесплатный тариф даёт более длинный мастер.
func TestProduceWatermarkByTier(t *testing.T) {
	synth := &fakeSynth{payload: wavPayload(t)}
	p := NewProducer(nil, synth, testPolicy(0), nil)

	free := testOptions()
	free.AccountTier = "free"
	freeArt, err := p.Produce(context.Background(), free, script.Parse("Host: раз"), routing.Credentials{})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}

	paid := testOptions()
	paidArt, err := p.Produce(context.Background(), paid, script.Parse("Host: раз"), routing.Credentials{})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if len(freeArt.Audio) <= len(paidArt.Audio) {
		t.Errorf("free=%d paid=%d, want free длиннее за счёт водяного знака", len(freeArt.Audio), len(paidArt.Audio))
	}
}

// TestProduceCoverURL — при заданном промпте артефакт несёт URL обложки.
func TestProduceCoverURL(t *testing.T) {
	synth := &fakeSynth{payload: wavPayload(t)}
	p := NewProducer(nil, synth, testPolicy(0), nil)

	opts := testOptions()
	opts.CoverPrompt = "студия с микрофонами"
	art, err := p.Produce(context.Background(), opts, script.Parse("Host: раз"), routing.Credentials{})
	if err != nil {
		t.Fatalf("Produce error: %v", err)
	}
	if art.CoverURL == "" {
		t.Error("CoverURL пуст")
	}
}
