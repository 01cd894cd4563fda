package audio

import (
	"errors"
	"fmt"

	"github.com/faiface/beep"
	"go.uber.org/zap"
)

// Container — контейнер экспорта. Выбирается конфигурацией, не выводится из данных.
type Container string

const (
	ContainerWAV Container = "wav"
	ContainerMP3 Container = "mp3"
)

// Assembler склеивает упорядоченные клипы в один мастер-буфер и кодирует его.
type Assembler struct {
	logger *zap.SugaredLogger
}

func NewAssembler(logger *zap.SugaredLogger) *Assembler {
	return &Assembler{logger: logger}
}

// Assemble конкатенирует клипы в строгом порядке следования, на бесплатном
// тарифе добавляет водяной знак последним элементом и кодирует результат.
// Каналы и частота результата — от первого клипа; все клипы обязаны прийти с
// общей частотой (ресемплинг — обязанность синтезатора).
func (a *Assembler) Assemble(clips []*Clip, withWatermark bool, container Container) ([]byte, error) {
	if len(clips) == 0 {
		return nil, errors.New("audio: nothing to assemble")
	}

	base := clips[0].Format()
	master := beep.NewBuffer(base)
	for i, c := range clips {
		if c.Format().SampleRate != base.SampleRate {
			return nil, fmt.Errorf("audio: clip %d sample rate %d differs from %d", i, c.Format().SampleRate, base.SampleRate)
		}
		master.Append(c.Streamer())
	}

	if withWatermark {
		wm, err := Watermark(base)
		if err != nil {
			return nil, err
		}
		master.Append(wm.Streamer())
	}

	m := &Clip{buf: master}
	if a.logger != nil {
		a.logger.Infow("Мастер-трек собран",
			"clips", len(clips), "watermark", withWatermark,
			"duration", fmt.Sprintf("%.3fs", m.Duration()), "container", string(container))
	}

	switch container {
	case ContainerWAV:
		return EncodeWAV(m)
	case ContainerMP3:
		return EncodeMP3(m)
	default:
		return nil, fmt.Errorf("audio: unknown container %q", container)
	}
}
