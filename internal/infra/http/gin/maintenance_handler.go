package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"skipper/internal/app/auth"
	"skipper/internal/app/occupancies"
	"skipper/internal/domain/occupancy"
	"skipper/internal/domain/shared/timerange"
)

type MaintenanceHandler struct {
	Occupancies *occupancies.Service
}

type blockMaintenanceRequest struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
}

// Block takes the asset out of service for a window by reserving a
// maintenance occupancy.
func (h MaintenanceHandler) Block(c *gin.Context) {
	if _, ok := requireOperation(c, auth.OpBlockMaintenance); !ok {
		return
	}
	var req blockMaintenanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := timerange.New(req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	o, err := h.Occupancies.BlockForMaintenance(c.Request.Context(), c.Param("id"), r)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"occupancy_id": string(o.ID),
		"asset_id":     o.AssetID,
		"start_time":   o.Range.Start,
		"end_time":     o.Range.End,
	})
}

// Release lifts a maintenance block once the window has passed.
func (h MaintenanceHandler) Release(c *gin.Context) {
	if _, ok := requireOperation(c, auth.OpBlockMaintenance); !ok {
		return
	}
	if err := h.Occupancies.Release(c.Request.Context(), occupancy.OccupancyID(c.Param("occupancyId"))); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
