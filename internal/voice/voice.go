package voice

import (
	"errors"
	"strings"

	"PodcastStudio/internal/routing"
)

// Family — семейство движка синтеза. Голос принадлежит ровно одному семейству,
// и оно должно совпадать с семейством активного решения маршрутизатора.
type Family string

const (
	FamilyLocal  Family = "local"  // локальный нейро-движок
	FamilyHosted Family = "hosted" // размещённый у провайдера
)

// Profile — голос синтеза.
type Profile struct {
	ID              string
	DisplayName     string
	Family          Family
	ProviderVoiceID string
	SampleText      string
}

// ErrNoCandidates — в семействе нет ни одного голоса; разрешение невозможно.
var ErrNoCandidates = errors.New("voice: no candidates in engine family")

// Встроенные каталоги. Локальные имена соответствуют голосам нейро-демона,
// размещённые — голосам провайдера.
var localCatalog = []Profile{
	{ID: "local-anna", DisplayName: "Anna", Family: FamilyLocal, ProviderVoiceID: "ru_RU-anna-medium", SampleText: "Привет! Это мой обычный голос."},
	{ID: "local-boris", DisplayName: "Boris", Family: FamilyLocal, ProviderVoiceID: "ru_RU-boris-medium", SampleText: "Добрый день, проверка связи."},
	{ID: "local-amy", DisplayName: "Amy", Family: FamilyLocal, ProviderVoiceID: "en_US-amy-medium", SampleText: "Hi there, this is a sample."},
	{ID: "local-ryan", DisplayName: "Ryan", Family: FamilyLocal, ProviderVoiceID: "en_US-ryan-high", SampleText: "Testing, one two three."},
}

var hostedCatalog = []Profile{
	{ID: "hosted-kore", DisplayName: "Kore", Family: FamilyHosted, ProviderVoiceID: "Kore", SampleText: "Warm and steady narration voice."},
	{ID: "hosted-puck", DisplayName: "Puck", Family: FamilyHosted, ProviderVoiceID: "Puck", SampleText: "Upbeat conversational voice."},
	{ID: "hosted-charon", DisplayName: "Charon", Family: FamilyHosted, ProviderVoiceID: "Charon", SampleText: "Deep and calm delivery."},
	{ID: "hosted-aoede", DisplayName: "Aoede", Family: FamilyHosted, ProviderVoiceID: "Aoede", SampleText: "Light, breezy phrasing."},
}

// Catalog возвращает копию каталога семейства.
func Catalog(f Family) []Profile {
	var src []Profile
	switch f {
	case FamilyHosted:
		src = hostedCatalog
	default:
		src = localCatalog
	}
	out := make([]Profile, len(src))
	copy(out, src)
	return out
}

// FamilyForProvider сопоставляет провайдера решения с семейством движка.
func FamilyForProvider(provider string) Family {
	if provider == routing.ProviderGoogle {
		return FamilyHosted
	}
	return FamilyLocal
}

// Resolve подбирает голос для спикера среди кандидатов одного семейства:
//  1. явное сопоставление спикера, если указанный голос есть среди кандидатов;
//  2. первый кандидат, чьё отображаемое имя содержит метку спикера (без учёта регистра);
//  3. первый кандидат семейства.
//
// Пока в семействе есть хотя бы один голос, разрешение всегда успешно.
func Resolve(speaker string, mapping map[string]string, candidates []Profile) (Profile, error) {
	if len(candidates) == 0 {
		return Profile{}, ErrNoCandidates
	}

	if id, ok := mapping[speaker]; ok {
		for _, p := range candidates {
			if p.ID == id || p.ProviderVoiceID == id {
				return p, nil
			}
		}
		// сопоставление есть, но голос из другого семейства — игнорируем
	}

	label := strings.ToLower(strings.TrimSpace(speaker))
	if label != "" {
		for _, p := range candidates {
			if strings.Contains(strings.ToLower(p.DisplayName), label) {
				return p, nil
			}
		}
	}

	return candidates[0], nil
}
