package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"PodcastStudio/internal/audio"
	"PodcastStudio/internal/config"
	"PodcastStudio/internal/player"
	"PodcastStudio/internal/provider/speech"
	"PodcastStudio/internal/provider/speech/hosted"
	"PodcastStudio/internal/provider/speech/local"
	"PodcastStudio/internal/provider/text"
	"PodcastStudio/internal/retry"
	"PodcastStudio/internal/routing"
	"PodcastStudio/internal/script"
	"PodcastStudio/internal/studio"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sugar.Infow("Starting studio",
		"quality", cfg.QualityTier, "accountTier", cfg.AccountTier, "container", cfg.Container)

	creds := routing.Credentials{GeminiKey: strings.TrimSpace(cfg.GeminiAPIKey) != ""}
	policy := retry.Policy{MaxRetries: cfg.RetryMax, BaseDelay: cfg.RetryBaseDelay, Multiplier: 2, Logger: sugar}

	scriptText, err := loadOrGenerateScript(ctx, cfg, policy, creds, sugar)
	if err != nil {
		sugar.Errorw("Не удалось получить сценарий", "error", err)
		os.Exit(1)
	}
	segments := script.Parse(scriptText)
	if len(segments) == 0 {
		sugar.Errorw("Сценарий пуст", "path", cfg.ScriptPath)
		os.Exit(1)
	}

	// Размещённый шлюз: REST по умолчанию, SDK по флагу
	var hostedSynth speech.Synthesizer
	if strings.EqualFold(cfg.SpeechGateway, "sdk") {
		hostedSynth = hosted.NewSDK(sugar)
	} else {
		hostedSynth = hosted.New(cfg.SpeechEndpoint, cfg.SpeechModel, sugar)
	}
	localSynth := local.New(cfg.LocalTTSAddr)

	producer := studio.NewProducer(hostedSynth, localSynth, policy, sugar)
	ply := player.NewWithVolume(cfg.PlayerVolumeDB)

	// Остановка по сигналу: играющий звук гасим сразу, текущий сетевой вызов
	// довершается, прогон прерывается перед следующим сегментом.
	go func() {
		<-ctx.Done()
		producer.Abort()
		ply.Stop()
	}()

	opts := studio.Options{
		Quality:     routing.Quality(cfg.QualityTier),
		AccountTier: cfg.AccountTier,
		Container:   audio.Container(cfg.Container),
		VoiceMap:    cfg.SpeakerVoices(),
		IntroText:   cfg.IntroText,
		OutroText:   cfg.OutroText,
		CoverPrompt: cfg.CoverPrompt,
		OnProgress: func(done, total int) {
			sugar.Infow("Прогресс", "done", done, "total", total,
				"fraction", fmt.Sprintf("%.2f", float64(done)/float64(total)))
		},
	}

	art, err := producer.Produce(ctx, opts, segments, creds)
	if err != nil {
		sugar.Errorw("Прогон прерван", "error", err)
		os.Exit(1)
	}

	if err := writeArtifact(cfg.OutputDir, art); err != nil {
		sugar.Errorw("Не удалось записать артефакты", "error", err)
		os.Exit(1)
	}
	sugar.Infow("Выпуск готов",
		"dir", cfg.OutputDir,
		"model", art.Decision.ModelID,
		"estimatedCost", art.Decision.EstimatedCost,
		"cover", art.CoverURL)

	if cfg.PlaybackAfter {
		f, err := os.Open(filepath.Join(cfg.OutputDir, "episode."+string(art.Container)))
		if err != nil {
			sugar.Warnw("Не удалось открыть артефакт для воспроизведения", "error", err)
			return
		}
		defer f.Close()
		if err := ply.Play(string(art.Container), f); err != nil {
			sugar.Warnw("Воспроизведение не удалось", "error", err)
		}
	}
}

// loadOrGenerateScript читает сценарий из файла либо, если задана тема,
// генерирует его через текстовый шлюз по решению маршрутизатора.
func loadOrGenerateScript(ctx context.Context, cfg *config.Config, policy retry.Policy, creds routing.Credentials, sugar *zap.SugaredLogger) (string, error) {
	if strings.TrimSpace(cfg.Topic) == "" {
		b, err := os.ReadFile(cfg.ScriptPath)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	// Эвристика «нужны рассуждения»: длинная тема либо явный флаг.
	reasoning := cfg.ReasoningRequired || len([]rune(cfg.Topic)) > 120
	dec, err := routing.SelectModel(routing.TaskScriptGeneration, routing.Quality(cfg.QualityTier), reasoning, creds)
	if err != nil {
		return "", err
	}
	sugar.Infow("Script model selected",
		"model", dec.ModelID, "provider", dec.Provider, "reason", dec.Reason, "estimatedCost", dec.EstimatedCost)

	client := text.New(cfg.GeminiAPIKey, sugar)
	var out string
	err = policy.Do(ctx, "generate-script", func(ctx context.Context) error {
		var e error
		out, e = client.GenerateScript(ctx, dec, cfg.Topic, cfg.StyleHints, text.DefaultDisclaimer)
		return e
	})
	return out, err
}

func writeArtifact(dir string, art *studio.Artifact) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	audioPath := filepath.Join(dir, "episode."+string(art.Container))
	if err := os.WriteFile(audioPath, art.Audio, 0o644); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "episode.srt"), []byte(art.Subtitles), 0o644)
}
