package audio

import (
	"fmt"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/generators"
)

// Watermark — фиксированный короткий звуковой идентификатор, добавляемый в
// конец выпуска на бесплатном тарифе: три тона с паузами. Для одного формата
// результат детерминирован.
func Watermark(f beep.Format) (*Clip, error) {
	buf := beep.NewBuffer(f)
	sr := f.SampleRate
	toneLen := sr.N(180 * time.Millisecond)
	gapLen := sr.N(60 * time.Millisecond)

	for i, freq := range []int{880, 660, 880} {
		if i > 0 {
			buf.Append(beep.Silence(gapLen))
		}
		tone, err := generators.SinTone(sr, freq)
		if err != nil {
			return nil, fmt.Errorf("audio: watermark tone: %w", err)
		}
		buf.Append(beep.Take(toneLen, tone))
	}
	buf.Append(beep.Silence(gapLen))

	return &Clip{buf: buf}, nil
}
