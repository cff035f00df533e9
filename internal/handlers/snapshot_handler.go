package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "caishen/internal/errors"
	"caishen/internal/pagination"
	"caishen/internal/services"
)

// SnapshotHandler handles snapshot history and manual job triggers.
type SnapshotHandler struct {
	snapshotService services.SnapshotServicer
}

// NewSnapshotHandler creates a new SnapshotHandler.
func NewSnapshotHandler(snapshotService services.SnapshotServicer) *SnapshotHandler {
	return &SnapshotHandler{snapshotService: snapshotService}
}

// History handles listing the user's daily snapshots.
// @Summary     Snapshot history
// @Description List daily valuation snapshots, oldest first
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 30, max 200)"
// @Success     200 {object} pagination.PageResponse[models.Snapshot] "Paginated snapshots"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /snapshots [get]
func (h *SnapshotHandler) History(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.snapshotService.History(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// TriggerPush handles running the snapshot-and-report cycle on demand.
// The job is idempotent per day: a re-run overwrites today's snapshot.
// @Summary     Trigger daily snapshot
// @Description Run the fetch → aggregate → persist → notify cycle now
// @Tags        snapshots
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Snapshot "Today's snapshot"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Persistence failure"
// @Router      /push/test [post]
func (h *SnapshotHandler) TriggerPush(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.snapshotService.RunDaily(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "snapshot": snapshot})
}
