package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/middleware"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/ws"

	"github.com/gin-gonic/gin"
)

type RiderHandler struct {
	status     *repository.StatusRepository
	staleAfter time.Duration
}

func NewRiderHandler(status *repository.StatusRepository, staleAfter time.Duration) *RiderHandler {
	return &RiderHandler{status: status, staleAfter: staleAfter}
}

type riderDriverView struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	PhotoURL     string `json:"photo_url"`
	LocationName string `json:"location_name"`
	LastUpdated  string `json:"last_updated"`
}

// ListOnline serves the rider-facing board. Stale online rows are reaped
// first, synchronously, so riders never see a driver who went quiet.
func (h *RiderHandler) ListOnline(c *gin.Context) {
	h.reap()
	drivers, err := h.status.ListOnline()
	if err != nil {
		log.Printf("[rider] listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load drivers"})
		return
	}
	views := make([]riderDriverView, 0, len(drivers))
	for _, d := range drivers {
		v := riderDriverView{
			Name:        d.Name,
			Phone:       d.Phone,
			VehicleType: d.VehicleType,
			PhotoURL:    d.PhotoURL,
		}
		if d.Status != nil {
			v.LocationName = d.Status.LocationName
			v.LastUpdated = domain.FormatDisplayTime(d.Status.LastUpdated)
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

// BoardSnapshot is the initial payload for new websocket board viewers;
// it goes through the same reap-then-list path as the HTTP listing.
func (h *RiderHandler) BoardSnapshot() []ws.BoardMarker {
	h.reap()
	drivers, err := h.status.ListOnline()
	if err != nil {
		log.Printf("[rider] board snapshot failed: %v", err)
		return nil
	}
	markers := make([]ws.BoardMarker, 0, len(drivers))
	for i := range drivers {
		markers = append(markers, ws.MarkerFrom(&drivers[i], drivers[i].Status))
	}
	return markers
}

func (h *RiderHandler) reap() {
	n, err := h.status.ExpireStale(time.Now().UTC().Add(-h.staleAfter))
	if err != nil {
		log.Printf("[rider] stale sweep failed: %v", err)
		return
	}
	if n > 0 {
		middleware.StaleDriversExpired.Add(float64(n))
	}
}
