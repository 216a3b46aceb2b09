package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"narration-service/application/ports/inbound"
	"narration-service/application/ports/outbound"
	"narration-service/domain"
	"narration-service/infrastructure/gin_interface/dto"
)

type NarrationController interface {
	GetOrCreateNarration(c *gin.Context)
	DeleteNarration(c *gin.Context)
	GetStats(c *gin.Context)
	TrackEvent(c *gin.Context)
	RegisterRoutes(g *gin.Engine)
}

type narrationController struct {
	logger    outbound.LoggerPort
	narration inbound.NarrationPort
}

func NewNarrationController(logger outbound.LoggerPort, narration inbound.NarrationPort) NarrationController {
	return &narrationController{
		logger:    logger,
		narration: narration,
	}
}

func (n *narrationController) GetOrCreateNarration(c *gin.Context) {
	contentID := c.Param("contentId")

	var options dto.NarrationOptionsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&options); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{
				Code:    "INVALID_INPUT",
				Message: err.Error(),
			})
			return
		}
	}

	result, err := n.narration.GetOrCreate(c.Request.Context(), inbound.NarrationRequest{
		ContentID: contentID,
		Voice: domain.VoiceOptions{
			VoiceName:    options.VoiceName,
			LanguageCode: options.LanguageCode,
			SpeakingRate: options.SpeakingRate,
			Pitch:        options.Pitch,
		},
	})
	if err != nil {
		n.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NarrationResponse{
		URL:             result.URL,
		DurationSeconds: result.DurationSeconds,
		FileSizeBytes:   result.FileSizeBytes,
		Cost:            result.Cost,
		Cached:          result.Cached,
	})
}

func (n *narrationController) DeleteNarration(c *gin.Context) {
	contentID := c.Param("contentId")

	if err := n.narration.Delete(c.Request.Context(), contentID); err != nil {
		n.writeError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (n *narrationController) GetStats(c *gin.Context) {
	stats, err := n.narration.Stats(c.Request.Context(), c.Query("content_id"))
	if err != nil {
		n.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		TotalGenerations:       stats.TotalGenerations,
		TotalCost:              stats.TotalCost,
		TotalPlayTimeSeconds:   stats.TotalPlayTimeSeconds,
		AverageDurationSeconds: stats.AverageDurationSeconds,
	})
}

func (n *narrationController) TrackEvent(c *gin.Context) {
	contentID := c.Param("contentId")

	var req dto.TrackEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: err.Error(),
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	n.narration.TrackEvent(c.Request.Context(), inbound.TrackEventParams{
		ContentID:           contentID,
		EventType:           domain.AnalyticsEventType(req.Event),
		SessionID:           sessionID,
		PlayDurationSeconds: req.PlayDuration,
	})

	c.Status(http.StatusAccepted)
}

func (n *narrationController) RegisterRoutes(g *gin.Engine) {
	g.POST("/narrations/:contentId", n.GetOrCreateNarration)
	g.DELETE("/narrations/:contentId", n.DeleteNarration)
	g.GET("/narrations/stats", n.GetStats)
	g.POST("/narrations/:contentId/events", n.TrackEvent)
	g.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func (n *narrationController) writeError(c *gin.Context, err error) {
	var invalidInput *domain.InvalidInputError
	var synthesisErr *domain.SynthesisError
	var storageErr *domain.StorageError
	var metadataErr *domain.MetadataError

	switch {
	case errors.As(err, &invalidInput):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Code:    "INVALID_INPUT",
			Message: invalidInput.Reason,
		})
	case errors.Is(err, domain.ErrContentNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Code:    "CONTENT_NOT_FOUND",
			Message: "content not found",
		})
	case errors.Is(err, domain.ErrGenerationBusy):
		c.JSON(http.StatusConflict, dto.ErrorResponse{
			Code:    "GENERATION_IN_PROGRESS",
			Message: "narration generation already in progress",
		})
	case errors.As(err, &synthesisErr):
		n.logger.Error(err, "synthesis failed")
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Code:    string(synthesisErr.Code),
			Message: "speech synthesis failed",
		})
	case errors.As(err, &storageErr):
		n.logger.Error(err, "storage operation failed")
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{
			Code:    "STORAGE_ERROR",
			Message: "audio storage failed",
		})
	case errors.As(err, &metadataErr):
		n.logger.Error(err, "metadata operation failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    "METADATA_ERROR",
			Message: "narration metadata operation failed",
		})
	default:
		n.logger.Error(err, "narration request failed")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Code:    "INTERNAL_ERROR",
			Message: "narration request failed",
		})
	}
}
