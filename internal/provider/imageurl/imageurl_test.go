package imageurl

import (
	"net/url"
	"strings"
	"testing"
)

func TestBuildEmbedsPromptAndSeed(t *testing.T) {
	got := Build("уютная студия подкастов", "watercolor", "flux")

	u, err := url.Parse(got)
	if err != nil {
		t.Fatalf("Build() вернул невалидный URL: %v", err)
	}
	if u.Scheme != "https" || u.Host != "image.pollinations.ai" {
		t.Errorf("host = %s://%s", u.Scheme, u.Host)
	}
	// u.Path уже декодирован парсером
	if !strings.Contains(u.Path, "уютная студия подкастов, watercolor") {
		t.Errorf("prompt не встроен в путь: %s", u.Path)
	}
	q := u.Query()
	if q.Get("model") != "flux" {
		t.Errorf("model = %q, want flux", q.Get("model"))
	}
	if q.Get("seed") == "" {
		t.Error("seed отсутствует")
	}
}

// TestBuildNeverFails — построение URL тотально, в том числе для пустого промпта.
func TestBuildNeverFails(t *testing.T) {
	if got := Build("", "", ""); got == "" {
		t.Fatal("Build() вернул пустую строку")
	}
}
