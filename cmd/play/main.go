package main

import (
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"PodcastStudio/internal/config"
	"PodcastStudio/internal/player"
)

// Проигрывание готового артефакта (mp3 или wav) через аудио-контекст процесса.
func main() {
	fileFlag := flag.String("file", "", "путь к файлу для воспроизведения; пусто — episode.<container> из папки артефактов")
	cfg := config.NewConfig()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	path := *fileFlag
	if path == "" {
		path = filepath.Join(cfg.OutputDir, "episode."+cfg.Container)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")

	f, err := os.Open(path)
	if err != nil {
		sugar.Errorw("Не удалось открыть файл", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	ply := player.NewWithVolume(cfg.PlayerVolumeDB)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		ply.Stop()
	}()

	sugar.Infow("Воспроизведение", "path", path, "format", format, "volumeDB", cfg.PlayerVolumeDB)
	if err := ply.Play(format, f); err != nil {
		sugar.Errorw("Воспроизведение не удалось", "error", err)
		os.Exit(1)
	}
	sugar.Infow("Готово")
}
