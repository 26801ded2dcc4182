package handler

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/models"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/service"
	"github.com/ukai02/iitk-transport/pkg/media"

	"github.com/gin-gonic/gin"
)

// OfflineKeyword is the magic location value the driver update form sends
// to go offline instead of moving stands.
const OfflineKeyword = "Offline"

type DriverHandler struct {
	drivers *repository.DriverRepository
	status  *repository.StatusRepository
	photos  media.PhotoStore
	board   service.BoardNotifier // optional
}

func NewDriverHandler(drivers *repository.DriverRepository, status *repository.StatusRepository, photos media.PhotoStore, board service.BoardNotifier) *DriverHandler {
	return &DriverHandler{drivers: drivers, status: status, photos: photos, board: board}
}

type registerRequest struct {
	Name     string `form:"name" json:"name" binding:"required"`
	Phone    string `form:"phone" json:"phone" binding:"required"`
	Vehicle  string `form:"vehicle" json:"vehicle" binding:"required"`
	Location string `form:"location" json:"location" binding:"required"`
}

// Register creates a driver plus an initial online status at the given
// location. Accepts JSON or a multipart form with an optional photo.
func (h *DriverHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	photoURL := ""
	if file, err := c.FormFile("photo"); err == nil && file.Filename != "" && h.photos != nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read photo"})
			return
		}
		defer f.Close()
		photoURL, err = h.photos.SavePhoto(c.Request.Context(), f, file.Filename)
		if err != nil {
			log.Printf("[driver] photo upload failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "photo upload failed"})
			return
		}
	}

	driver := models.NewDriver(req.Name, req.Phone, req.Vehicle, photoURL)
	err := h.drivers.CreateWithStatus(driver, req.Location, time.Now().UTC())
	if err != nil {
		if err == repository.ErrPhoneExists {
			c.JSON(http.StatusConflict, gin.H{"error": "phone number already exists"})
			return
		}
		log.Printf("[driver] register failed: phone=%s err=%v", req.Phone, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		return
	}
	h.notify(driver.ID)
	c.JSON(http.StatusCreated, driver)
}

type updateLocationRequest struct {
	Phone    string `form:"phone" json:"phone" binding:"required"`
	Location string `form:"location" json:"location" binding:"required"`
}

// UpdateLocation is the web-form path for drivers without SMS: any
// location puts them online there; the literal "Offline" flips them off.
func (h *DriverHandler) UpdateLocation(c *gin.Context) {
	var req updateLocationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	driver, err := h.drivers.GetByPhone(strings.TrimSpace(req.Phone))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "phone number not found"})
		return
	}

	if req.Location == OfflineKeyword {
		if err := h.status.SetOffline(driver.ID); err != nil {
			log.Printf("[driver] offline failed: id=%d err=%v", driver.ID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
			return
		}
		h.notify(driver.ID)
		c.JSON(http.StatusOK, gin.H{"message": "You are now Offline."})
		return
	}

	if err := h.status.SetOnline(driver.ID, req.Location, time.Now().UTC()); err != nil {
		log.Printf("[driver] location update failed: id=%d err=%v", driver.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	h.notify(driver.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Location updated to " + req.Location})
}

// GetPhoto looks up a driver's photo reference by phone, falling back to
// the sentinel for unknown phones so the frontend always gets an image.
func (h *DriverHandler) GetPhoto(c *gin.Context) {
	phone := c.Query("phone")
	url, err := h.drivers.GetPhotoURL(phone)
	if err != nil {
		log.Printf("[driver] photo lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "lookup failed"})
		return
	}
	if url == "" {
		url = domain.DefaultPhotoURL
	}
	c.JSON(http.StatusOK, gin.H{"photo_url": url})
}

func (h *DriverHandler) notify(driverID uint) {
	if h.board == nil {
		return
	}
	driver, err := h.drivers.GetByID(driverID)
	if err != nil {
		return
	}
	status, err := h.status.GetByDriverID(driverID)
	if err != nil {
		return
	}
	h.board.DriverChanged(driver, status)
}
