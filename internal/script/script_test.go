package script

import (
	"strings"
	"testing"
)

const sample = `
Host: Привет, это наш подкаст.
Guest: Рад быть здесь!

Просто строка без спикера.
Host: Продолжим.
`

func TestParse(t *testing.T) {
	segs := Parse(sample)
	if len(segs) != 4 {
		t.Fatalf("segments = %d, want 4", len(segs))
	}
	wantSpeakers := []string{"Host", "Guest", DefaultSpeaker, "Host"}
	for i, s := range segs {
		if s.Speaker != wantSpeakers[i] {
			t.Errorf("segment %d speaker = %q, want %q", i, s.Speaker, wantSpeakers[i])
		}
		if strings.TrimSpace(s.Text) == "" {
			t.Errorf("segment %d пустой текст", i)
		}
		if s.Status != StatusPending {
			t.Errorf("segment %d status = %s, want pending", i, s.Status)
		}
		if s.ID == "" {
			t.Errorf("segment %d без ID", i)
		}
	}
}

// TestParseLongPrefixNotSpeaker — длинный префикс с двоеточием не метка спикера.
func TestParseLongPrefixNotSpeaker(t *testing.T) {
	segs := Parse("Это очень длинное вводное предложение до двоеточия: и его хвост")
	if len(segs) != 1 {
		t.Fatalf("segments = %d, want 1", len(segs))
	}
	if segs[0].Speaker != DefaultSpeaker {
		t.Errorf("speaker = %q, want %q", segs[0].Speaker, DefaultSpeaker)
	}
	if !strings.Contains(segs[0].Text, "двоеточия:") {
		t.Errorf("текст усечён: %q", segs[0].Text)
	}
}

// TestResegmentKeepsSurvivors — не тронутые правкой сегменты сохраняют
// идентичность и статус, новые создаются pending.
func TestResegmentKeepsSurvivors(t *testing.T) {
	prev := Parse("Host: один\nGuest: два")
	prev[0].Status = StatusCompleted
	prev[0].StartTime = 0
	prev[0].Duration = 1.5
	prev[1].Status = StatusError

	next := Resegment(prev, "Host: один\nGuest: двойка\nGuest: два")
	if len(next) != 3 {
		t.Fatalf("segments = %d, want 3", len(next))
	}
	if next[0].ID != prev[0].ID || next[0].Status != StatusCompleted || next[0].Duration != 1.5 {
		t.Errorf("выживший сегмент потерял состояние: %+v", next[0])
	}
	if next[1].Status != StatusPending || next[1].ID == prev[1].ID {
		t.Errorf("новый сегмент должен быть pending с новым ID: %+v", next[1])
	}
	if next[2].ID != prev[1].ID || next[2].Status != StatusError {
		t.Errorf("перенесённый сегмент потерял состояние: %+v", next[2])
	}
}

// TestResegmentIdempotent — повторный прогон того же текста ничего не меняет.
func TestResegmentIdempotent(t *testing.T) {
	one := Parse("Host: один\nGuest: два")
	two := Resegment(one, "Host: один\nGuest: два")
	if len(two) != len(one) {
		t.Fatalf("len = %d, want %d", len(two), len(one))
	}
	for i := range one {
		if two[i].ID != one[i].ID {
			t.Errorf("segment %d сменил ID", i)
		}
	}
}

// TestResegmentDuplicateLines — одинаковые реплики сопоставляются по одной.
func TestResegmentDuplicateLines(t *testing.T) {
	prev := Parse("Host: ага\nHost: ага")
	prev[0].Status = StatusCompleted
	prev[1].Status = StatusError

	next := Resegment(prev, "Host: ага\nHost: ага")
	if next[0].Status != StatusCompleted || next[1].Status != StatusError {
		t.Errorf("дубликаты сопоставлены неверно: %s / %s", next[0].Status, next[1].Status)
	}
}

func TestNewInjected(t *testing.T) {
	seg := NewInjected("  Добро пожаловать!  ")
	if seg.Speaker != DefaultSpeaker || seg.Text != "Добро пожаловать!" || seg.Status != StatusPending {
		t.Errorf("injected = %+v", seg)
	}
}
