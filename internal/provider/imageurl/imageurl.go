package imageurl

import (
	"fmt"
	"math/rand"
	"net/url"
	"strings"
)

const base = "https://image.pollinations.ai/prompt/"

// Build собирает URL обложки. Чистое построение строки: запрос не выполняется
// и не валидируется. Случайный seed ломает кэш при повторных сборках.
func Build(prompt, styleTag, modelTag string) string {
	p := strings.TrimSpace(prompt)
	if st := strings.TrimSpace(styleTag); st != "" {
		p += ", " + st
	}
	seed := rand.Intn(1_000_000_000)
	return fmt.Sprintf("%s%s?width=1024&height=1024&model=%s&seed=%d&nologo=true",
		base, url.PathEscape(p), url.QueryEscape(modelTag), seed)
}
