package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/arogyalink/health-portal/internal/httperr"
	"github.com/arogyalink/health-portal/internal/imaging"
	"github.com/arogyalink/health-portal/internal/inference"
	"github.com/arogyalink/health-portal/internal/storage"
)

// maxUploadBytes caps MRI uploads at 16 MB, matching the inference service.
const maxUploadBytes = 16 << 20

var allowedScanExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type AIHandler struct {
	inference *inference.Client
	store     *storage.S3Store
	logger    *slog.Logger
}

func NewAIHandler(inf *inference.Client, store *storage.S3Store, logger *slog.Logger) *AIHandler {
	return &AIHandler{
		inference: inf,
		store:     store,
		logger:    logger,
	}
}

// AnalyzeMRI relays an uploaded scan to the inference service and returns
// its response verbatim. A webp copy is archived in the background when
// object storage is configured.
func (h *AIHandler) AnalyzeMRI(c *gin.Context) {
	if !h.inference.Configured() {
		httperr.Write(c, http.StatusServiceUnavailable, "MRI analysis is not available")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "No file uploaded")
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if !allowedScanExtensions[ext] {
		httperr.BadRequest(c, "Invalid file type")
		return
	}
	if fileHeader.Size > maxUploadBytes {
		httperr.BadRequest(c, "File too large")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "Error reading upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		httperr.Internal(c, "Error reading upload")
		return
	}
	if len(data) > maxUploadBytes {
		httperr.BadRequest(c, "File too large")
		return
	}

	if h.store != nil {
		go h.archiveScan(fileHeader.Filename, data)
	}

	result, err := h.inference.AnalyzeMRI(c.Request.Context(), fileHeader.Filename, bytes.NewReader(data))
	if err != nil {
		h.logger.Error("mri analysis failed", slog.String("error", err.Error()))
		httperr.BadGateway(c, "Analysis failed. Please try again.")
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

// PredictDisease relays a symptom payload to the inference service.
func (h *AIHandler) PredictDisease(c *gin.Context) {
	if !h.inference.Configured() {
		httperr.Write(c, http.StatusServiceUnavailable, "Disease prediction is not available")
		return
	}

	body, err := c.GetRawData()
	if err != nil || !json.Valid(body) {
		httperr.BadRequest(c, "Invalid symptom data")
		return
	}

	result, err := h.inference.PredictDisease(c.Request.Context(), body)
	if err != nil {
		h.logger.Error("disease prediction failed", slog.String("error", err.Error()))
		httperr.BadGateway(c, "Prediction failed. Please try again.")
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

func (h *AIHandler) archiveScan(filename string, data []byte) {
	encoded, err := imaging.ToWebP(data)
	if err != nil {
		h.logger.Warn("scan archival encode failed", slog.String("error", err.Error()))
		return
	}

	key := fmt.Sprintf("scans/%s/%s.webp",
		time.Now().UTC().Format("2006-01-02"),
		strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := h.store.Put(ctx, key, encoded, "image/webp"); err != nil {
		h.logger.Warn("scan archival upload failed",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
	}
}
