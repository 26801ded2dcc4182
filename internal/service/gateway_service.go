package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/models"
	"github.com/ukai02/iitk-transport/internal/repository"
	"github.com/ukai02/iitk-transport/internal/sms"

	"gorm.io/gorm"
)

// Reply templates for the text-command gateway. Wording is part of the
// carrier-facing contract; change with care.
const (
	replyLocationUpdated = "Location updated to %s"
	replyOffline         = "You are now offline. Bye!"
	replyHelp            = "Hello %s. Send 'ON [Location]' or 'OFF'."
	replyWelcome         = "Welcome %s! Registered successfully. You are online at Main Gate."
	replyBadRegister     = "Error. Format: REGISTER [Name] [Vehicle]"
	replyNotRegistered   = "Not registered. Send 'REGISTER [Name] [Vehicle]' to join."
)

// BoardNotifier receives presence changes for the live rider board.
type BoardNotifier interface {
	DriverChanged(driver *models.Driver, status *models.DriverStatus)
}

// GatewayService is the text-command interpreter: it resolves the sender
// to a driver (or not) and applies at most one presence write per message.
type GatewayService struct {
	drivers     *repository.DriverRepository
	status      *repository.StatusRepository
	countryCode string
	board       BoardNotifier // optional
}

func NewGatewayService(drivers *repository.DriverRepository, status *repository.StatusRepository, countryCode string, board BoardNotifier) *GatewayService {
	return &GatewayService{drivers: drivers, status: status, countryCode: countryCode, board: board}
}

// Handle interprets one inbound message and returns the reply text. A
// non-nil error means a storage failure; every user-facing outcome,
// including malformed commands, is an ordinary reply.
func (s *GatewayService) Handle(rawPhone, rawMsg string) (string, error) {
	phone := sms.NormalizePhone(rawPhone, s.countryCode)
	cmd := sms.Parse(rawMsg)
	log.Printf("[sms] from %s: %q", phone, rawMsg)

	driver, err := s.drivers.GetByPhone(phone)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	if driver != nil {
		return s.handleKnown(driver, cmd)
	}
	return s.handleUnknown(phone, cmd)
}

func (s *GatewayService) handleKnown(driver *models.Driver, cmd sms.Command) (string, error) {
	switch cmd.Kind {
	case sms.KindSetLocation:
		now := time.Now().UTC()
		if err := s.status.SetOnline(driver.ID, cmd.Location, now); err != nil {
			return "", err
		}
		s.notify(driver)
		return fmt.Sprintf(replyLocationUpdated, cmd.Location), nil
	case sms.KindGoOffline:
		if err := s.status.SetOffline(driver.ID); err != nil {
			return "", err
		}
		s.notify(driver)
		return replyOffline, nil
	default:
		// A REGISTER from a known phone lands here too: re-registration
		// is impossible once the lookup succeeds.
		return fmt.Sprintf(replyHelp, driver.Name), nil
	}
}

func (s *GatewayService) handleUnknown(phone string, cmd sms.Command) (string, error) {
	if cmd.Kind != sms.KindRegister {
		return replyNotRegistered, nil
	}
	if !cmd.Valid() {
		return replyBadRegister, nil
	}
	driver := models.NewDriver(cmd.Name, phone, cmd.Vehicle, "")
	if err := s.drivers.CreateWithStatus(driver, domain.DefaultLocation, time.Now().UTC()); err != nil {
		return "", err
	}
	s.notify(driver)
	return fmt.Sprintf(replyWelcome, cmd.Name), nil
}

func (s *GatewayService) notify(driver *models.Driver) {
	if s.board == nil {
		return
	}
	status, err := s.status.GetByDriverID(driver.ID)
	if err != nil {
		return
	}
	s.board.DriverChanged(driver, status)
}
