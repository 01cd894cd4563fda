package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"PodcastStudio/internal/config"
	"PodcastStudio/internal/routing"
	"PodcastStudio/internal/voice"
)

// Утилита предпросмотра маршрутизации: показывает, какая модель будет выбрана
// для задачи при текущем качестве и учётных данных, без единого сетевого вызова.
func main() {
	taskFlag := flag.String("task", "audio_synthesis", "вид задачи: script_generation|image_generation|audio_synthesis|all")
	reasoning := flag.Bool("reasoning", false, "считать, что для сценария нужны рассуждения")
	cfg := config.NewConfig()

	creds := routing.Credentials{GeminiKey: strings.TrimSpace(cfg.GeminiAPIKey) != ""}
	quality := routing.Quality(cfg.QualityTier)

	tasks := []routing.Task{routing.Task(*taskFlag)}
	if *taskFlag == "all" {
		tasks = []routing.Task{routing.TaskScriptGeneration, routing.TaskImageGeneration, routing.TaskAudioSynthesis}
	}

	for _, task := range tasks {
		dec, err := routing.SelectModel(task, quality, *reasoning, creds)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		b, err := json.MarshalIndent(dec, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(1)
		}
		fmt.Printf("%s:\n%s\n", task, b)

		// для синтеза заодно показываем голоса активного семейства
		if task == routing.TaskAudioSynthesis {
			family := voice.FamilyForProvider(dec.Provider)
			fmt.Printf("voices (%s):\n", family)
			for _, prof := range voice.Catalog(family) {
				fmt.Printf("  %s\t%s\n", prof.DisplayName, prof.ProviderVoiceID)
			}
		}
	}
}
