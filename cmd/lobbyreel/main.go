package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/ivlev/lobbyreel/internal/analyzer"
	"github.com/ivlev/lobbyreel/internal/config"
	"github.com/ivlev/lobbyreel/internal/director"
	"github.com/ivlev/lobbyreel/internal/engine"
	"github.com/ivlev/lobbyreel/internal/scene"
	"github.com/ivlev/lobbyreel/internal/system"
	"github.com/ivlev/lobbyreel/internal/video"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Создаем нужные директории, если их нет
	dirs := []string{"input/audio", "output", director.DefaultScriptsDir}
	for _, d := range dirs {
		os.MkdirAll(d, 0755)
	}

	pagePtr := flag.String("page", "scroll-lobby", "Встроенная страница: "+strings.Join(scene.PresetNames(), ", "))
	pageFilePtr := flag.String("page-file", "", "Путь к YAML-описанию страницы (вместо -page)")
	listPtr := flag.Bool("list-presets", false, "Показать встроенные страницы и выйти")
	dumpPtr := flag.String("dump-page", "", "Сохранить описание выбранной страницы в YAML и выйти")
	scriptPtr := flag.String("script", "", "Путь к YAML-сценарию прокрутки")
	latestScriptPtr := flag.Bool("latest-script", false, "Использовать самый свежий сценарий из "+director.DefaultScriptsDir)
	scriptOutPtr := flag.String("script-out", "", "Куда сохранить сгенерированный сценарий")
	generatePtr := flag.Bool("generate-script", false, "Только сгенерировать сценарий и выйти")
	outputPtr := flag.String("output", "", "Путь к видео (если пусто, генерируется автоматически в output/)")
	framesDirPtr := flag.String("frames-dir", "", "Записать кадры PNG в папку вместо видео")
	durationPtr := flag.Float64("duration", 0, "Общая длительность видео (если 0, берется из сценария)")
	widthPtr := flag.Int("width", 1280, "Ширина")
	heightPtr := flag.Int("height", 720, "Высота")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", 0, "Потоки рендера (0 - авто по CPU и памяти)")
	fadePtr := flag.Float64("fade", 0.5, "Длительность появления/затухания (сек)")
	audioPtr := flag.String("audio", "", "Путь к аудио (по умолчанию: самый свежий файл в input/audio/)")
	audioSyncPtr := flag.Bool("audio-sync", true, "Синхронизировать длительность видео с аудио")
	bgAudioPtr := flag.String("bg-audio", "", "Фоновая музыка (зацикливается)")
	bgVolumePtr := flag.Float64("bg-volume", 0.3, "Громкость фоновой музыки")
	formatPtr := flag.String("format", "", "Пресет формата: 16:9, 9:16 (Shorts/TikTok), 4:5 (Instagram)")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	seedPtr := flag.Int64("seed", 1, "Seed для звезд и снега")
	dpiPtr := flag.Int("dpi", 0, "DPI фона из PDF (0 - из описания страницы)")
	minDwellPtr := flag.Float64("min-dwell", 1, "Минимальное время на секции (сек)")
	maxDwellPtr := flag.Float64("max-dwell", 3, "Максимальное время на секции (сек)")
	verifyPtr := flag.Bool("verify", false, "Проверить карточки секций на кадрах и выйти")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")

	flag.Parse()

	if *listPtr {
		for _, name := range scene.PresetNames() {
			fmt.Println(name)
		}
		return
	}

	width, height := *widthPtr, *heightPtr
	switch *formatPtr {
	case "16:9":
		width, height = 1280, 720
	case "9:16":
		width, height = 720, 1280
	case "4:5":
		width, height = 1080, 1350
	case "":
	default:
		log.Fatalf("[-] Неизвестный формат: %s", *formatPtr)
	}

	page, err := scene.Load(*pageFilePtr, *pagePtr)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки страницы: %v", err)
	}

	if *dumpPtr != "" {
		if err := scene.WritePage(page, *dumpPtr); err != nil {
			log.Fatalf("[-] Ошибка записи страницы: %v", err)
		}
		fmt.Printf("[+++] Страница сохранена: %s\n", *dumpPtr)
		return
	}

	if *verifyPtr {
		runVerify(page, width, height)
		return
	}

	scriptPath := *scriptPtr
	if scriptPath == "" && *latestScriptPtr {
		latest, err := director.FindLatestScript(director.DefaultScriptsDir)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		scriptPath = latest
		fmt.Printf("[*] Выбран сценарий: %s\n", scriptPath)
	}

	totalDuration := *durationPtr

	// Обработка аудио
	audioPath := *audioPtr
	if audioPath == "" && !*generatePtr {
		latest, err := system.FindLatestAudio("input/audio")
		if err == nil {
			audioPath = latest
			fmt.Printf("[*] Выбрано аудио: %s\n", audioPath)
		}
	}

	if audioPath != "" && *audioSyncPtr {
		audioDur, err := system.GetAudioDuration(audioPath)
		if err == nil {
			totalDuration = audioDur
			fmt.Printf("[*] Длительность видео установлена по аудио: %.2fs\n", totalDuration)
		} else {
			log.Printf("[!] Не удалось получить длительность аудио: %v", err)
		}
	}

	finalOutput := *outputPtr
	if finalOutput == "" {
		cleanName := strings.ReplaceAll(page.Name, " ", "_")
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		finalOutput = filepath.Join("output", fmt.Sprintf("%s_%s.mp4", cleanName, timestamp))
	}

	encoderName, _ := system.GetBestH264Encoder()
	if encoderName != "libx264" {
		fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
	}

	quality := *qualityPtr
	if quality == 0 {
		quality = system.DefaultQuality(encoderName)
	}

	cfg := &config.Config{
		PagePath:         *pageFilePtr,
		Page:             page.Name,
		ScriptInput:      scriptPath,
		ScriptOutput:     *scriptOutPtr,
		GenerateScript:   *generatePtr,
		OutputVideo:      finalOutput,
		FramesDir:        *framesDirPtr,
		TotalDuration:    totalDuration,
		Width:            width,
		Height:           height,
		FPS:              *fpsPtr,
		Workers:          *workersPtr,
		FadeDuration:     *fadePtr,
		AudioPath:        audioPath,
		BackgroundAudio:  *bgAudioPtr,
		BackgroundVolume: *bgVolumePtr,
		Format:           *formatPtr,
		VideoEncoder:     encoderName,
		Quality:          quality,
		ShowStats:        *statsPtr,
		BuildVersion:     version,
		Seed:             *seedPtr,
		DPI:              *dpiPtr,
		MinDwell:         *minDwellPtr,
		MaxDwell:         *maxDwellPtr,
	}

	// Инициализируем зависимости
	var ve video.VideoEncoder = &video.FFmpegEncoder{}
	if cfg.FramesDir != "" {
		ve = video.PNGSequence{}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	project := engine.NewReelProject(cfg, page, ve)
	if err := project.Run(ctx); err != nil {
		log.Fatalf("[-] Ошибка проекта: %v", err)
	}

	switch {
	case cfg.GenerateScript:
	case cfg.FramesDir != "":
		fmt.Printf("[+++] Успех! Кадры: %s\n", cfg.FramesDir)
	default:
		fmt.Printf("[+++] Успех! Результат: %s\n", cfg.OutputVideo)
	}
}

func runVerify(page *scene.Page, width, height int) {
	det, err := analyzer.NewDetector("contrast")
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	results, err := engine.Verify(page, width, height, det)
	if err != nil {
		log.Fatalf("[-] Ошибка проверки: %v", err)
	}
	failed := 0
	for _, r := range results {
		expected := r.Expected
		if expected == "" {
			expected = "нет секции"
		}
		mark := "[+]"
		if !r.OK() {
			mark = "[!]"
			failed++
		}
		fmt.Printf("%s %.2f: ожидается %s, карточка найдена: %v\n", mark, r.Percent, expected, r.Found)
	}
	if failed > 0 {
		log.Fatalf("[-] Проверка не пройдена: %d из %d", failed, len(results))
	}
	fmt.Printf("[+++] Проверка пройдена: %s\n", page.Name)
}
