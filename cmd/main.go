package main

import (
	"fmt"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/application/services"
	"narration-video-pipeline/config"
	"narration-video-pipeline/domain"
	"narration-video-pipeline/infrastructure/adapters"
	"narration-video-pipeline/infrastructure/gin_interface/controllers"
	mockcapabilities "narration-video-pipeline/mock"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using process environment")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(32, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	blobStore := adapters.NewMemoryBlobStore()

	var sceneSegmenter outbound.SceneSegmenterPort
	var clipGenerator outbound.ClipGeneratorPort

	if os.Getenv("MOCK_CAPABILITIES") == "true" {
		zeroLogger.Warn("Running with mock generative capabilities")
		sceneSegmenter = mockcapabilities.NewSceneSegmenter(zeroLogger)
		clipGenerator = mockcapabilities.NewClipGenerator(blobStore, zeroLogger)
	} else {
		segmenterConfig, err := config.GetSegmenterConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get segmenter config")
		}

		videoConfig, err := config.GetVideoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get video config")
		}

		contentFetcher := adapters.NewContentFetcher(zeroLogger)
		sceneSegmenter = adapters.NewSceneSegmenter(contentFetcher, segmenterConfig, zeroLogger)
		clipGenerator = adapters.NewClipGenerator(contentFetcher, videoConfig, blobStore, zeroLogger)
	}

	progressHub := services.NewProgressHub(workerPool)

	streamSink := make(chan domain.Progress, 16)
	progressHub.AddSink(streamSink)

	progressStream, err := adapters.NewProgressStream(workerPool, streamSink, zeroLogger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create progress stream")
	}
	defer progressStream.Close()

	if err := progressHub.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start progress hub")
	}

	orchestrator := services.NewPipelineOrchestrator(zeroLogger, workerPool, sceneSegmenter,
		clipGenerator, blobStore, progressHub)

	pipelineController := controllers.NewPipelineController(zeroLogger, orchestrator, blobStore,
		progressStream.Handler())

	router := gin.Default()

	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	pipelineController.RegisterRoutes(router)

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	if err := router.Run(addr); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
