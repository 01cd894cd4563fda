package subtitle

import (
	"strings"
	"testing"

	"PodcastStudio/internal/script"
)

func seg(speaker, text string, start, dur float64) *script.Segment {
	return &script.Segment{Speaker: speaker, Text: text, StartTime: start, Duration: dur}
}

func TestGenerateThreeCues(t *testing.T) {
	segs := []*script.Segment{
		seg("Host", "первая реплика", 0, 2.0),
		seg("Guest", "вторая реплика", 2.0, 3.5),
		seg("Host", "третья реплика", 5.5, 1.0),
	}
	got := Generate(segs)

	want := "1\n00:00:00,000 --> 00:00:02,000\nHost: первая реплика\n\n" +
		"2\n00:00:02,000 --> 00:00:05,500\nGuest: вторая реплика\n\n" +
		"3\n00:00:05,500 --> 00:00:06,500\nHost: третья реплика\n\n"
	if got != want {
		t.Errorf("Generate() =\n%s\nwant\n%s", got, want)
	}
}

// TestGenerateKeepsGaps — разрыв во входном тайминге не корректируется.
func TestGenerateKeepsGaps(t *testing.T) {
	got := Generate([]*script.Segment{
		seg("Host", "до паузы", 0, 1.0),
		seg("Host", "после паузы", 10.0, 1.0),
	})
	if !strings.Contains(got, "00:00:10,000 --> 00:00:11,000") {
		t.Errorf("разрыв потерян:\n%s", got)
	}
}

func TestTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:00,000"},
		{2.0, "00:00:02,000"},
		{5.5, "00:00:05,500"},
		{6.5, "00:00:06,500"},
		{3661.042, "01:01:01,042"},
		{-1, "00:00:00,000"},
	}
	for _, c := range cases {
		if got := Timestamp(c.in); got != c.want {
			t.Errorf("Timestamp(%v) = %s, want %s", c.in, got, c.want)
		}
	}
}
