package handlers

import (
	"log"
	"net/http"

	"delivery-backend/firebase"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
)

// uploadFormImage stores the optional image in form field and returns its
// URL. An empty URL with ok=true means no file was sent. On failure the
// response has been written.
func uploadFormImage(c *gin.Context, storage firebase.StorageClient, field, folder string) (url string, ok bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", true
	}

	if err := utils.ValidateFileUpload(fileHeader); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to open uploaded file"})
		return "", false
	}
	defer file.Close()

	url, err = storage.UploadImage(c.Request.Context(), folder, file, fileHeader.Filename, fileHeader.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("Image upload to %s failed: %v", folder, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Image upload failed"})
		return "", false
	}
	return url, true
}

// deleteStoredImage removes a previously uploaded image. Failures are logged.
func deleteStoredImage(c *gin.Context, storage firebase.StorageClient, url string) {
	if url == "" {
		return
	}
	objectPath, err := firebase.ObjectPathFromURL(url)
	if err != nil {
		log.Printf("Skipping delete of unmanaged image %s: %v", url, err)
		return
	}
	if err := storage.DeleteFile(c.Request.Context(), objectPath); err != nil {
		log.Printf("Failed to delete image %s: %v", objectPath, err)
	}
}
