package audio

import (
	"bytes"
	"fmt"
	"io"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"

	"PodcastStudio/internal/provider/speech"
)

// Clip — декодированный PCM-буфер одного сегмента. Владение эксклюзивное:
// синтезатор создаёт клип и передаёт его сборщику целиком.
type Clip struct {
	buf *beep.Buffer
}

func NewClip(buf *beep.Buffer) *Clip { return &Clip{buf: buf} }

// Decode превращает сырой пейлоад провайдера в PCM-буфер.
func Decode(p speech.Payload) (*Clip, error) {
	r := io.NopCloser(bytes.NewReader(p.Data))
	var (
		s   beep.StreamSeekCloser
		f   beep.Format
		err error
	)
	switch p.Format {
	case "wav", "WAV":
		s, f, err = wav.Decode(r)
	case "mp3", "MP3":
		s, f, err = mp3.Decode(r)
	default:
		return nil, fmt.Errorf("audio: unsupported payload format %q", p.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("audio: decode %s: %w", p.Format, err)
	}
	defer s.Close()

	buf := beep.NewBuffer(f)
	buf.Append(s)
	return &Clip{buf: buf}, nil
}

func (c *Clip) Format() beep.Format { return c.buf.Format() }

// Samples — число сэмплов на канал.
func (c *Clip) Samples() int { return c.buf.Len() }

// Duration — длительность в секундах: sampleCount / sampleRate.
func (c *Clip) Duration() float64 {
	return float64(c.buf.Len()) / float64(c.buf.Format().SampleRate)
}

func (c *Clip) Streamer() beep.StreamSeeker { return c.buf.Streamer(0, c.buf.Len()) }

// Resampled приводит клип к целевой частоте дискретизации. Это обязанность
// синтезатора: в сборщик буферы приходят уже с общей частотой.
func (c *Clip) Resampled(target beep.SampleRate) *Clip {
	f := c.buf.Format()
	if f.SampleRate == target {
		return c
	}
	nf := beep.Format{SampleRate: target, NumChannels: f.NumChannels, Precision: f.Precision}
	out := beep.NewBuffer(nf)
	out.Append(beep.Resample(4, f.SampleRate, target, c.Streamer()))
	return &Clip{buf: out}
}
