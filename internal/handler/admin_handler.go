package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AdminHandler struct {
	drivers *repository.DriverRepository
	status  *repository.StatusRepository
	board   service.BoardNotifier // optional
}

func NewAdminHandler(drivers *repository.DriverRepository, status *repository.StatusRepository, board service.BoardNotifier) *AdminHandler {
	return &AdminHandler{drivers: drivers, status: status, board: board}
}

type adminDriverView struct {
	DriverID     uint   `json:"driver_id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	VehicleType  string `json:"vehicle_type"`
	PhotoURL     string `json:"photo_url"`
	LocationName string `json:"location_name"`
	IsOnline     bool   `json:"is_online"`
	LastUpdated  string `json:"last_updated"`
}

// ListAll returns every driver with a status row, online first.
func (h *AdminHandler) ListAll(c *gin.Context) {
	drivers, err := h.status.ListAll()
	if err != nil {
		log.Printf("[admin] listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load drivers"})
		return
	}
	views := make([]adminDriverView, 0, len(drivers))
	for _, d := range drivers {
		v := adminDriverView{
			DriverID:    d.ID,
			Name:        d.Name,
			Phone:       d.Phone,
			VehicleType: d.VehicleType,
			PhotoURL:    d.PhotoURL,
		}
		if d.Status != nil {
			v.LocationName = d.Status.LocationName
			v.IsOnline = d.Status.IsOnline
			v.LastUpdated = domain.FormatDisplayTime(d.Status.LastUpdated)
		}
		views = append(views, v)
	}
	c.JSON(http.StatusOK, views)
}

// ForceOnline puts a driver online at their last known location, or the
// default stand when they have never reported one.
func (h *AdminHandler) ForceOnline(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	location := domain.DefaultLocation
	if s, err := h.status.GetByDriverID(id); err == nil && s.LocationName != "" {
		location = s.LocationName
	}
	if err := h.status.SetOnline(id, location, time.Now().UTC()); err != nil {
		log.Printf("[admin] force-online failed: id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}
	h.notify(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ForceOffline only flips the flag; the stored location is untouched.
func (h *AdminHandler) ForceOffline(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	if err := h.status.SetOffline(id); err != nil {
		log.Printf("[admin] force-offline failed: id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}
	h.notify(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Delete removes the driver and its status row together.
func (h *AdminHandler) Delete(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	if err := h.drivers.Delete(id); err != nil {
		log.Printf("[admin] delete failed: id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "delete failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type editDriverRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	Vehicle  string `json:"vehicle" binding:"required"`
	Location string `json:"location" binding:"required"`
}

// Edit rewrites a driver's identity and places them at a location while
// preserving whatever online flag they had.
func (h *AdminHandler) Edit(c *gin.Context) {
	id, ok := driverID(c)
	if !ok {
		return
	}
	var req editDriverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}
	err := h.drivers.Update(id, req.Name, req.Phone, req.Vehicle, req.Location, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrPhoneExists) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Phone number already in use."})
			return
		}
		log.Printf("[admin] edit failed: id=%d err=%v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "update failed"})
		return
	}
	h.notify(id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func driverID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid driver id"})
		return 0, false
	}
	return uint(id), true
}

func (h *AdminHandler) notify(driverID uint) {
	if h.board == nil {
		return
	}
	driver, err := h.drivers.GetByID(driverID)
	if err != nil {
		return
	}
	status, err := h.status.GetByDriverID(driverID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return
	}
	h.board.DriverChanged(driver, status)
}
