package audio

import (
	"bytes"
	"fmt"

	shine "github.com/braheezy/shine-mp3/pkg/mp3"
	"github.com/faiface/beep/wav"
)

// EncodeWAV кодирует клип в несжатый линейный PCM контейнер. Заголовок
// описывает каналы/частоту/глубину из формата клипа; результат байт-в-байт
// одинаков для одинакового входа.
func EncodeWAV(c *Clip) ([]byte, error) {
	var ws memWriteSeeker
	if err := wav.Encode(&ws, c.Streamer(), c.Format()); err != nil {
		return nil, fmt.Errorf("audio: wav encode: %w", err)
	}
	return ws.buf, nil
}

// EncodeMP3 кодирует клип в сжатый контейнер. Настройки кодера фиксированы,
// поэтому для одинакового входа результат детерминирован.
func EncodeMP3(c *Clip) ([]byte, error) {
	f := c.Format()
	ch := f.NumChannels
	if ch < 1 {
		ch = 1
	}
	if ch > 2 {
		ch = 2
	}

	pcm := interleaveInt16(c, ch)

	enc := shine.NewEncoder(int(f.SampleRate), ch)
	var out bytes.Buffer
	if err := enc.Write(&out, pcm); err != nil {
		return nil, fmt.Errorf("audio: mp3 encode: %w", err)
	}
	return out.Bytes(), nil
}

// interleaveInt16 вычитывает стример клипа в знаковый 16-битный PCM с
// чередованием каналов.
func interleaveInt16(c *Clip, ch int) []int16 {
	s := c.Streamer()
	pcm := make([]int16, 0, c.Samples()*ch)
	tmp := make([][2]float64, 512)
	for {
		n, ok := s.Stream(tmp)
		for i := 0; i < n; i++ {
			if ch == 1 {
				pcm = append(pcm, toInt16((tmp[i][0]+tmp[i][1])/2))
				continue
			}
			pcm = append(pcm, toInt16(tmp[i][0]), toInt16(tmp[i][1]))
		}
		if !ok {
			break
		}
	}
	return pcm
}

func toInt16(v float64) int16 {
	if v > 1 {
		v = 1
	}
	if v < -1 {
		v = -1
	}
	return int16(v * 32767)
}
