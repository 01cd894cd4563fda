package player

import (
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Аудио-контекст (speaker) создаётся один раз на время жизни процесса и
// переиспользуется всеми воспроизведениями; освобождается при завершении.
var (
	initOnce sync.Once
	initErr  error
	initRate beep.SampleRate
)

func ensureSpeaker(sr beep.SampleRate) (beep.SampleRate, error) {
	initOnce.Do(func() {
		initRate = sr
		initErr = speaker.Init(sr, sr.N(time.Second/10))
	})
	return initRate, initErr
}

// Player воспроизводит готовый артефакт (mp3 или wav).
type Player struct {
	volumeDB float64

	mu   sync.Mutex
	stop func()
}

// New создаёт плеер без изменения громкости (0 dB).
func New() *Player { return &Player{volumeDB: 0} }

// NewWithVolume создаёт плеер с предустановленной громкостью в dB (отрицательные — тише).
func NewWithVolume(db float64) *Player { return &Player{volumeDB: db} }

// Play декодирует поток и воспроизводит его до конца либо до Stop.
func (p *Player) Play(format string, r io.ReadCloser) error {
	var (
		streamer beep.StreamSeekCloser
		f        beep.Format
		err      error
	)
	switch strings.ToLower(format) {
	case "wav":
		streamer, f, err = wav.Decode(r)
	case "mp3":
		streamer, f, err = mp3.Decode(r)
	default:
		return errors.New("player: unsupported format for playback; use mp3 or wav")
	}
	if err != nil {
		return err
	}
	defer streamer.Close()

	rate, err := ensureSpeaker(f.SampleRate)
	if err != nil {
		return err
	}

	// Контекст один на процесс: потоки с другой частотой приводим к его частоте
	var s beep.Streamer = streamer
	if f.SampleRate != rate {
		s = beep.Resample(4, f.SampleRate, rate, streamer)
	}

	vol := &effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   p.volumeDB,
		Silent:   false,
	}

	done := make(chan struct{})
	var once sync.Once
	finish := func() { once.Do(func() { close(done) }) }
	p.mu.Lock()
	p.stop = finish
	p.mu.Unlock()

	speaker.Play(beep.Seq(vol, beep.Callback(finish)))
	<-done
	return nil
}

// Stop немедленно останавливает воспроизведение. Сетевые вызовы синтеза при
// этом не прерываются — оркестратор проверяет флаг остановки между сегментами.
func (p *Player) Stop() {
	speaker.Clear()
	p.mu.Lock()
	if p.stop != nil {
		p.stop()
	}
	p.mu.Unlock()
}
