package routing

import (
	"errors"
	"fmt"
)

// Task — вид задачи, для которой выбирается модель.
type Task string

const (
	TaskScriptGeneration Task = "script_generation"
	TaskImageGeneration  Task = "image_generation"
	TaskAudioSynthesis   Task = "audio_synthesis"
)

// Quality — запрошенный уровень качества.
type Quality string

const (
	QualityPremium  Quality = "premium"
	QualityBalanced Quality = "balanced"
	QualityFree     Quality = "free"
)

// Providers
const (
	ProviderGoogle       = "google"
	ProviderPollinations = "pollinations"
	ProviderLocal        = "local"
)

// Credentials — наличие учётных данных на момент выбора. Только факт наличия,
// сами значения ключей сюда не попадают.
type Credentials struct {
	GeminiKey bool // платный ключ Gemini
}

// Decision — результат маршрутизации: модель, провайдер, обоснование и оценка
// стоимости одного запроса в USD (0 — бесплатно).
type Decision struct {
	ModelID       string  `json:"modelId"`
	Provider      string  `json:"provider"`
	Reason        string  `json:"reason"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// ErrUnsupportedTask возвращается для неизвестного вида задачи. Это ошибка
// программиста, а не данных: все три вида задач перечислены выше.
var ErrUnsupportedTask = errors.New("routing: unsupported task kind")

// Оценки стоимости одного запроса. Для бесплатных веток экономия считается по
// фиксированной эвристике (стоимость ближайшей платной альтернативы), это не
// точная бухгалтерия.
const (
	costReasoning  = 0.0050
	costBalanced   = 0.0010
	costImage      = 0.0200
	costPremiumTTS = 0.0005
)

// SelectModel — чистая функция выбора модели: одинаковые входы всегда дают
// одинаковое решение. reasoning передаётся вызывающей стороной (например, по
// эвристике длины темы) и здесь не вычисляется.
func SelectModel(task Task, quality Quality, reasoning bool, creds Credentials) (Decision, error) {
	switch task {
	case TaskScriptGeneration:
		if quality == QualityPremium || reasoning {
			return Decision{
				ModelID:       "gemini-2.5-pro",
				Provider:      ProviderGoogle,
				Reason:        "premium или требуются рассуждения — рассуждающая модель верхнего уровня",
				EstimatedCost: costReasoning,
			}, nil
		}
		if quality == QualityBalanced && creds.GeminiKey {
			return Decision{
				ModelID:       "gemini-2.5-flash",
				Provider:      ProviderGoogle,
				Reason:        "balanced и есть платный ключ — средняя модель провайдера",
				EstimatedCost: costBalanced,
			}, nil
		}
		return Decision{
			ModelID:       "openai-community",
			Provider:      ProviderPollinations,
			Reason:        "бесплатная ветка; экономия оценивается эвристикой, не фактом",
			EstimatedCost: 0,
		}, nil

	case TaskImageGeneration:
		if quality == QualityPremium && creds.GeminiKey {
			return Decision{
				ModelID:       "imagen-4",
				Provider:      ProviderGoogle,
				Reason:        "premium и есть платный ключ — модель высокой детализации",
				EstimatedCost: costImage,
			}, nil
		}
		return Decision{
			ModelID:       "flux",
			Provider:      ProviderPollinations,
			Reason:        "бесплатная генерация изображений",
			EstimatedCost: 0,
		}, nil

	case TaskAudioSynthesis:
		if quality == QualityPremium {
			return Decision{
				ModelID:       "gemini-2.5-flash-tts",
				Provider:      ProviderGoogle,
				Reason:        "premium — многоголосый размещённый синтез",
				EstimatedCost: costPremiumTTS,
			}, nil
		}
		return Decision{
			ModelID:       "local-neural",
			Provider:      ProviderLocal,
			Reason:        "локальный нейро-движок, без затрат",
			EstimatedCost: 0,
		}, nil
	}

	return Decision{}, fmt.Errorf("%w: %q", ErrUnsupportedTask, task)
}
