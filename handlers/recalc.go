package handlers

import (
	"context"
	"log"
	"net/http"

	"delivery-backend/database"
	"delivery-backend/dtos"
	"delivery-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RecalcHandler struct {
	DB      *gorm.DB
	Workers int
}

// StartRecalculation recomputes every order total in the background and
// answers with the job to poll.
func (h *RecalcHandler) StartRecalculation(c *gin.Context) {
	ids, err := database.OrderIDs(c.Request.Context(), h.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list orders"})
		return
	}

	job := utils.Store.CreateJob(len(ids))
	jobID := job.ID
	snapshot, _ := utils.Store.GetJob(jobID)

	go func() {
		utils.Store.SetProcessing(jobID)
		res, err := database.RecalculateOrderTotals(context.Background(), h.DB, ids, h.Workers,
			func(orderID uuid.UUID, changed bool, err error) {
				utils.Store.RecordProgress(jobID, orderID, changed, err)
			})
		if err != nil {
			log.Printf("Recalculation job %s stopped: %v", jobID, err)
			utils.Store.CompleteJob(jobID, dtos.JobStatusFailed)
			return
		}
		log.Printf("Recalculation job %s done: %d orders, %d changed, %d failed", jobID, res.Total, res.Changed, res.Failed)
		utils.Store.CompleteJob(jobID, dtos.JobStatusCompleted)
	}()

	c.JSON(http.StatusAccepted, snapshot)
}

func (h *RecalcHandler) GetJob(c *gin.Context) {
	id, ok := paramUUID(c, "id")
	if !ok {
		return
	}
	job, exists := utils.Store.GetJob(id)
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}
