package controllers

import (
	"context"
	"io"
	"narration-video-pipeline/application/ports/inbound"
	"narration-video-pipeline/application/ports/outbound"
	"narration-video-pipeline/domain"
	"narration-video-pipeline/infrastructure/gin_interface/dto"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type PipelineController interface {
	RegisterRoutes(g *gin.Engine)
}

type pipelineController struct {
	logger          outbound.LoggerPort
	orchestrator    inbound.PipelineOrchestratorPort
	blobStore       outbound.BlobStorePort
	progressHandler http.HandlerFunc
}

func NewPipelineController(logger outbound.LoggerPort, orchestrator inbound.PipelineOrchestratorPort,
	blobStore outbound.BlobStorePort, progressHandler http.HandlerFunc) PipelineController {
	return &pipelineController{
		logger:          logger,
		orchestrator:    orchestrator,
		blobStore:       blobStore,
		progressHandler: progressHandler,
	}
}

func (p *pipelineController) RegisterRoutes(g *gin.Engine) {
	g.GET("/pipeline", p.getSnapshot)
	g.POST("/pipeline/audio", p.uploadAudio)
	g.POST("/pipeline/context", p.setContext)
	g.POST("/pipeline/start", p.start)
	g.POST("/pipeline/reset", p.reset)

	g.POST("/characters", p.addCharacter)
	g.PATCH("/characters/:id", p.updateCharacter)
	g.DELETE("/characters/:id", p.removeCharacter)
	g.POST("/characters/:id/photo", p.setCharacterPhoto)

	g.GET("/progress", gin.WrapF(p.progressHandler))
	g.GET("/blobs/:id", p.serveBlob)
}

func (p *pipelineController) getSnapshot(c *gin.Context) {
	snapshot := p.orchestrator.Snapshot()

	characters := make([]dto.CharacterView, 0, len(snapshot.Characters))
	for _, character := range snapshot.Characters {
		characters = append(characters, dto.NewCharacterView(character))
	}

	c.JSON(http.StatusOK, dto.SnapshotResponse{
		State:       string(snapshot.State),
		Progress:    snapshot.Progress,
		Clips:       snapshot.Clips,
		Characters:  characters,
		Error:       snapshot.Error,
		AudioLoaded: snapshot.AudioLoaded,
		Context:     snapshot.Context,
	})
}

func (p *pipelineController) uploadAudio(c *gin.Context) {
	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		p.logger.Error(err, "Failed to open the uploaded audio file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.Error(err, "Failed to close the uploaded audio file")
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		p.logger.Error(err, "Failed to read the uploaded audio file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := p.orchestrator.LoadAudio(data, fileHeader.Header.Get("Content-Type")); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (p *pipelineController) setContext(c *gin.Context) {
	var req dto.SetContextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p.orchestrator.SetContext(req.Context)
	c.Status(http.StatusNoContent)
}

func (p *pipelineController) start(c *gin.Context) {
	// The run outlives the request on purpose: its state is observed
	// through the snapshot and progress endpoints, not this response.
	if err := p.orchestrator.Start(context.Background()); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusAccepted)
}

func (p *pipelineController) reset(c *gin.Context) {
	p.orchestrator.Reset()
	c.Status(http.StatusNoContent)
}

func (p *pipelineController) addCharacter(c *gin.Context) {
	character := p.orchestrator.AddCharacter()
	c.JSON(http.StatusCreated, dto.NewCharacterView(character))
}

func (p *pipelineController) updateCharacter(c *gin.Context) {
	var req dto.UpdateCharacterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := p.orchestrator.UpdateCharacter(c.Param("id"), domain.CharacterField(req.Field), req.Value)
	if err != nil {
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "not found") {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (p *pipelineController) removeCharacter(c *gin.Context) {
	if err := p.orchestrator.RemoveCharacter(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (p *pipelineController) setCharacterPhoto(c *gin.Context) {
	fileHeader, err := c.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		p.logger.Error(err, "Failed to open the uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		if err := file.Close(); err != nil {
			p.logger.Error(err, "Failed to close the uploaded photo")
		}
	}()

	data, err := io.ReadAll(file)
	if err != nil {
		p.logger.Error(err, "Failed to read the uploaded photo")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	err = p.orchestrator.SetCharacterPhoto(c.Param("id"), data, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func (p *pipelineController) serveBlob(c *gin.Context) {
	blob, ok := p.blobStore.Get("/blobs/" + c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "blob not found"})
		return
	}
	c.Data(http.StatusOK, blob.MimeType, blob.Data)
}
