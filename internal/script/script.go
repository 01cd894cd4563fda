package script

import (
	"strings"

	"github.com/google/uuid"

	"PodcastStudio/internal/audio"
)

// Status — состояние сегмента в машине pending → generating → {completed|error}.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// DefaultSpeaker — метка для реплик без явного спикера и для служебных
// вступления/завершения.
const DefaultSpeaker = "Narrator"

// Segment — одна реплика сценария и её состояние синтеза. Сегменты выводятся
// из текста сценария и замещаются при его изменении, отдельно не хранятся.
type Segment struct {
	ID      string
	Speaker string
	Text    string
	Status  Status

	// Заполняются по мере прохождения конвейера
	Clip      *audio.Clip
	StartTime float64
	Duration  float64
}

// Parse разбирает текст сценария в упорядоченный список сегментов.
// Строка вида "Спикер: реплика" задаёт спикера; строки без двоеточия (или со
// слишком длинным префиксом) относятся к DefaultSpeaker. Пустые строки
// пропускаются: текст сегмента всегда непуст после обрезки.
func Parse(text string) []*Segment {
	lines := strings.Split(text, "\n")
	out := make([]*Segment, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		speaker, body := splitSpeaker(line)
		if body == "" {
			continue
		}
		out = append(out, &Segment{
			ID:      uuid.NewString(),
			Speaker: speaker,
			Text:    body,
			Status:  StatusPending,
		})
	}
	return out
}

// Resegment перечитывает сценарий, сохраняя состояние сегментов, чьи
// (спикер, текст) пережили правку: косметическое редактирование не теряет
// уже выполненный синтез. Порядок — строго порядок нового текста.
func Resegment(prev []*Segment, text string) []*Segment {
	next := Parse(text)
	used := make([]bool, len(prev))
	for _, seg := range next {
		for i, old := range prev {
			if used[i] || old.Speaker != seg.Speaker || old.Text != seg.Text {
				continue
			}
			used[i] = true
			seg.ID = old.ID
			seg.Status = old.Status
			seg.Clip = old.Clip
			seg.StartTime = old.StartTime
			seg.Duration = old.Duration
			break
		}
	}
	return next
}

// NewInjected создаёт служебный сегмент (вступление/завершение), не
// являющийся частью редактируемого сценария.
func NewInjected(text string) *Segment {
	return &Segment{
		ID:      uuid.NewString(),
		Speaker: DefaultSpeaker,
		Text:    strings.TrimSpace(text),
		Status:  StatusPending,
	}
}

// splitSpeaker отделяет метку спикера от реплики. Префикс длиннее 32 рун не
// считается меткой: это обычное предложение с двоеточием.
func splitSpeaker(line string) (string, string) {
	head, tail, ok := strings.Cut(line, ":")
	head, tail = strings.TrimSpace(head), strings.TrimSpace(tail)
	if !ok || head == "" || tail == "" || len([]rune(head)) > 32 {
		return DefaultSpeaker, line
	}
	return head, tail
}
