package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "tally/internal/errors"
	"tally/internal/services"
)

// maxImportSize caps uploaded CSV files at 5 MiB.
const maxImportSize = 5 << 20

// ImportHandler handles bulk CSV imports
type ImportHandler struct {
	importService services.ImportServicer
}

// NewImportHandler creates a new ImportHandler
func NewImportHandler(importService services.ImportServicer) *ImportHandler {
	return &ImportHandler{importService: importService}
}

// ImportCSV accepts a multipart CSV upload under the "file" field and
// imports its rows. Rows are applied independently; the response reports
// how many were imported and how many failed.
func (h *ImportHandler) ImportCSV(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "missing file upload"))
		return
	}
	if fileHeader.Size > maxImportSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "file too large"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	defer file.Close()

	result, err := h.importService.ImportCSV(userID, file)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": result})
}
