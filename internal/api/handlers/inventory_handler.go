package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/qprocure/inventory-backend/internal/domain"
	"github.com/qprocure/inventory-backend/internal/service"
	"github.com/qprocure/inventory-backend/internal/storage"
)

type InventoryHandler struct {
	service *service.InventoryService
	frames  storage.FrameArchive
}

// NewInventoryHandler wires the inventory endpoints. frames may be nil when
// no frame archive is configured; detections then rely on caller-supplied
// frame references.
func NewInventoryHandler(service *service.InventoryService, frames storage.FrameArchive) *InventoryHandler {
	return &InventoryHandler{service: service, frames: frames}
}

func (h *InventoryHandler) GetCurrent(c *gin.Context) {
	summary, err := h.service.CurrentInventory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch inventory", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *InventoryHandler) GetHistory(c *gin.Context) {
	code := c.Param("code")

	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	if days <= 0 {
		days = 30
	}

	history, err := h.service.History(c.Request.Context(), code, days)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, history)
}

type manualRecordRequest struct {
	Code     string `json:"code" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
	Notes    string `json:"notes"`
}

func (h *InventoryHandler) RecordManual(c *gin.Context) {
	var req manualRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	update, err := h.service.RecordManual(c.Request.Context(), req.Code, req.Quantity, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to record stock", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, update)
}

type detectionBatchRequest struct {
	FrameRef   string                 `json:"frame_ref"`
	Detections []domain.DetectionItem `json:"detections" binding:"required"`
}

// RecordDetections ingests a detection batch. JSON bodies carry an optional
// external frame_ref; multipart bodies may attach the frame itself, which is
// archived and its object key used as the reference.
func (h *InventoryHandler) RecordDetections(c *gin.Context) {
	var req detectionBatchRequest

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		if err := h.bindMultipart(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.RecordDetectionBatch(c.Request.Context(), req.FrameRef, req.Detections)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to apply detections", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) bindMultipart(c *gin.Context, req *detectionBatchRequest) error {
	payload := c.PostForm("detections")
	if payload == "" {
		return errors.New("missing detections field")
	}
	if err := json.Unmarshal([]byte(payload), &req.Detections); err != nil {
		return err
	}

	req.FrameRef = c.PostForm("frame_ref")

	file, err := c.FormFile("frame")
	if err != nil {
		// Frame attachment is optional.
		return nil
	}
	if h.frames == nil {
		log.Warn().Msg("frame attached but no frame archive configured, dropping")
		return nil
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	key, err := h.frames.StoreFrame(c.Request.Context(), src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		// Losing the frame is not worth losing the stock updates.
		log.Warn().Err(err).Msg("failed to archive detection frame")
		return nil
	}

	req.FrameRef = key
	return nil
}
