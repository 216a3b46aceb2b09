package main

import (
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"narration-service/application/services"
	"narration-service/config"
	"narration-service/infrastructure/adapters"
	"narration-service/infrastructure/gin_interface/controllers"
	"narration-service/middleware"
)

func main() {
	sess := session.Must(session.NewSessionWithOptions(session.Options{
		SharedConfigState: session.SharedConfigEnable,
	}))

	ttsConfig, err := config.GetGoogleTTSConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get speech provider config")
	}

	s3Config, err := config.GetS3Config()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get s3 config")
	}

	dynamoConfig, err := config.GetDynamoConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get dynamo config")
	}

	cacheConfig, err := config.GetCacheConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get cache config")
	}

	contentConfig, err := config.GetContentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get content config")
	}

	authConfig, err := config.NewAuthorizerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get authorizer config")
	}

	jwksUrl := os.Getenv("JWKS_URL")
	if jwksUrl == "" {
		log.Fatal().Msg("JWKS_URL is not set!")
	}

	zeroLogger := adapters.NewZerologWrapper()

	panicHandler := func(p interface{}) {
		zeroLogger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}

	workerPool, err := ants.NewPool(120, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	s3Client := s3.New(sess)
	dynamoClient := dynamodb.New(sess)

	contentFetcher := adapters.NewContentFetcher(zeroLogger)

	synthesizer := adapters.NewGoogleSpeechSynthesizer(zeroLogger, contentFetcher, ttsConfig)

	authorizer := adapters.NewOAuthAuthorizer(zeroLogger, contentFetcher, authConfig)

	contentSource := adapters.NewPostContentSource(zeroLogger, contentFetcher, authorizer, contentConfig)

	audioStore := adapters.NewS3AudioObjectStore(zeroLogger, s3Client, s3Config)

	assetRepository := adapters.NewDynamoAudioAssetRepository(zeroLogger, dynamoClient, dynamoConfig)

	analyticsRecorder := adapters.NewDynamoAnalyticsRecorder(zeroLogger, dynamoClient, dynamoConfig)

	generationLock := adapters.NewDynamoGenerationLock(zeroLogger, dynamoClient, dynamoConfig)

	normalizer := services.NewTextNormalizer()

	chunkSynthesizer := services.NewChunkSynthesizer(zeroLogger, synthesizer, workerPool)

	narrationService := services.NewNarrationService(zeroLogger, normalizer, chunkSynthesizer,
		contentSource, assetRepository, audioStore, analyticsRecorder, generationLock, cacheConfig)

	narrationController := controllers.NewNarrationController(zeroLogger, narrationService)

	router := gin.Default()

	err = router.SetTrustedProxies(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	authHandler, err := middleware.NewAuthHandler(jwksUrl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create auth handler!")
	}

	router.Use(authHandler.AuthMiddleware())

	narrationController.RegisterRoutes(router)

	err = router.Run(":8080")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
