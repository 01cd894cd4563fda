package config

import (
	"flag"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	DebugMode bool `env:"DEBUG_MODE"` //Режим дебага

	// Параметры одного прогона производства
	QualityTier       string   `env:"QUALITY_TIER"`               // Уровень качества: premium|balanced|free
	AccountTier       string   `env:"ACCOUNT_TIER"`               // Тариф аккаунта: free|plus|pro. Для free добавляется водяной знак
	Container         string   `env:"EXPORT_CONTAINER"`           // Контейнер экспорта: wav|mp3. Выбирается явно, не выводится из данных
	VoiceMap          []string `env:"VOICE_MAP" envSeparator:";"` // Сопоставление спикер=голос, напр. "Host=Kore;Guest=Puck"
	IntroText         string   `env:"INTRO_TEXT"`                 // Текст вступления; пусто — вступление не добавляется
	OutroText         string   `env:"OUTRO_TEXT"`                 // Текст завершения; пусто — завершение не добавляется
	ScriptPath        string   `env:"SCRIPT_PATH"`                // Путь к файлу сценария (строки вида "Спикер: реплика")
	OutputDir         string   `env:"OUTPUT_DIR"`                 // Папка для артефактов (аудио + субтитры)
	Topic             string   `env:"TOPIC"`                      // Тема для генерации сценария; пусто — сценарий берём из файла
	StyleHints        string   `env:"STYLE_HINTS"`                // Подсказки по стилю для генерации сценария
	ReasoningRequired bool     `env:"REASONING_REQUIRED"`         // Флаг «нужны рассуждения»; вычисляется вызывающей стороной
	CoverPrompt       string   `env:"COVER_PROMPT"`               // Промпт для URL обложки; пусто — обложка не строится

	// Учётные данные провайдеров. Наличие ключа Gemini трактуется как платный тариф провайдера
	GeminiAPIKey string `env:"GEMINI_API_KEY"`

	// Речевой шлюз
	SpeechGateway  string  `env:"SPEECH_GATEWAY"`   // Вариант размещённого шлюза: rest|sdk
	SpeechEndpoint string  `env:"SPEECH_ENDPOINT"`  // Переопределение REST‑эндпоинта синтеза (пусто — дефолтный)
	SpeechModel    string  `env:"SPEECH_MODEL"`     // Модель размещённого синтеза для REST‑шлюза
	LocalTTSAddr   string  `env:"LOCAL_TTS_ADDR"`   // Адрес локального нейро‑движка, напр. http://127.0.0.1:5002
	PlaybackAfter  bool    `env:"PLAYBACK_AFTER"`   // Проиграть готовый артефакт после сборки
	PlayerVolumeDB float64 `env:"PLAYER_VOLUME_DB"` // Громкость плеера в dB (отрицательные — тише)

	// Политика повторов при rate‑limit провайдера
	RetryMax       int           `env:"RETRY_MAX"`        // Количество повторов сверх первой попытки
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"` // Базовая задержка перед первым повтором
}

// Defaults возвращает конфигурацию с предустановленными значениями по умолчанию.
// Эти значения перекрываются .env, переменными окружения и флагами CLI.
func Defaults() *Config {
	return &Config{
		DebugMode:   false,
		QualityTier: "balanced",
		AccountTier: "free",
		Container:   "wav",
		VoiceMap:    []string{},
		IntroText:   "Добро пожаловать! Начинаем выпуск.",
		OutroText:   "Спасибо, что дослушали. До встречи.",
		ScriptPath:  "script.txt",
		OutputDir:   "out",
		StyleHints:  "живой разговорный тон, две роли: ведущий и гость",
		// Речевой шлюз
		SpeechGateway:  "rest",
		SpeechModel:    "gemini-2.5-flash-tts",
		LocalTTSAddr:   "http://127.0.0.1:5002",
		PlayerVolumeDB: 0,
		// Повторы: 3 повтора, стартовая пауза 2 секунды, далее ×2
		RetryMax:       3,
		RetryBaseDelay: 2 * time.Second,
	}
}

// NewConfig загружает конфигурацию приложения.
func NewConfig() *Config {
	_ = godotenv.Load()

	// Стартуем с дефолтов, затем перекрываем .env/окружением и флагами
	cfg := Defaults()
	_ = env.Parse(cfg)

	flag.BoolVar(&cfg.DebugMode, "debug-mode", cfg.DebugMode, "включить режим дебага для отображения доп. инфы")
	flag.StringVar(&cfg.QualityTier, "quality", cfg.QualityTier, "уровень качества: premium|balanced|free")
	flag.StringVar(&cfg.AccountTier, "account-tier", cfg.AccountTier, "тариф аккаунта: free|plus|pro")
	flag.StringVar(&cfg.Container, "container", cfg.Container, "контейнер экспорта: wav|mp3")
	// Принимаем карту голосов одной строкой, разделённой ';'
	var voiceMapFlag string
	voiceMapFlag = strings.Join(cfg.VoiceMap, ";")
	flag.StringVar(&voiceMapFlag, "voice-map", voiceMapFlag, "сопоставления спикер=голос, разделённые ';'")
	flag.StringVar(&cfg.IntroText, "intro-text", cfg.IntroText, "текст вступления (пусто — без вступления)")
	flag.StringVar(&cfg.OutroText, "outro-text", cfg.OutroText, "текст завершения (пусто — без завершения)")
	flag.StringVar(&cfg.ScriptPath, "script", cfg.ScriptPath, "путь к файлу сценария")
	flag.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "папка для артефактов")
	flag.StringVar(&cfg.Topic, "topic", cfg.Topic, "тема выпуска; если задана, сценарий генерируется провайдером")
	flag.StringVar(&cfg.StyleHints, "style-hints", cfg.StyleHints, "подсказки по стилю для генерации сценария")
	flag.BoolVar(&cfg.ReasoningRequired, "reasoning-required", cfg.ReasoningRequired, "принудительно выбрать рассуждающую модель для генерации сценария")
	flag.StringVar(&cfg.CoverPrompt, "cover-prompt", cfg.CoverPrompt, "промпт для построения URL обложки")
	// Речевой шлюз
	flag.StringVar(&cfg.SpeechGateway, "speech-gateway", cfg.SpeechGateway, "вариант размещённого шлюза синтеза: rest|sdk")
	flag.StringVar(&cfg.SpeechEndpoint, "speech-endpoint", cfg.SpeechEndpoint, "переопределение REST-эндпоинта синтеза")
	flag.StringVar(&cfg.SpeechModel, "speech-model", cfg.SpeechModel, "модель размещённого синтеза для REST-шлюза")
	flag.StringVar(&cfg.LocalTTSAddr, "local-tts-addr", cfg.LocalTTSAddr, "адрес локального нейро-движка TTS")
	flag.BoolVar(&cfg.PlaybackAfter, "playback", cfg.PlaybackAfter, "проиграть готовый артефакт после сборки")
	flag.Float64Var(&cfg.PlayerVolumeDB, "player-volume-db", cfg.PlayerVolumeDB, "громкость плеера в dB (отрицательные — тише)")
	// Повторы
	flag.IntVar(&cfg.RetryMax, "retry-max", cfg.RetryMax, "количество повторов сверх первой попытки при rate-limit")
	flag.DurationVar(&cfg.RetryBaseDelay, "retry-base-delay", cfg.RetryBaseDelay, "базовая задержка перед первым повтором, напр. 2s")
	flag.Parse()

	// Разбор списков по общему правилу (trim + убрать пустые)
	cfg.VoiceMap = parseListFlag(voiceMapFlag, []string{})

	return cfg
}

// SpeakerVoices разбирает VoiceMap в карту «метка спикера → идентификатор голоса».
// Записи без '=' или с пустыми частями пропускаются.
func (c *Config) SpeakerVoices() map[string]string {
	out := make(map[string]string, len(c.VoiceMap))
	for _, entry := range c.VoiceMap {
		k, v, ok := strings.Cut(entry, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}

// parseListFlag разбирает значение флага со списком, разделённым ';'
func parseListFlag(v string, def []string) []string {
	// Пустая строка → дефолт
	if v == "" {
		return def
	}
	parts := strings.Split(v, ";")
	cleaned := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			cleaned = append(cleaned, p)
		}
	}
	if len(cleaned) == 0 {
		return def
	}
	return cleaned
}
