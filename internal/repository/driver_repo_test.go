package repository

import (
	"testing"
	"time"

	"github.com/ukai02/iitk-transport/internal/domain"
	"github.com/ukai02/iitk-transport/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCreateWithStatus(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	d := seedDriver(t, drivers, "Rohit", "9999900000", "Auto", domain.DefaultLocation, now)
	assert.NotZero(t, d.ID)
	assert.Equal(t, domain.DefaultPhotoURL, d.PhotoURL)

	var status models.DriverStatus
	require.NoError(t, db.Where("driver_id = ?", d.ID).First(&status).Error)
	assert.True(t, status.IsOnline)
	assert.Equal(t, domain.DefaultLocation, status.LocationName)

	got, err := drivers.GetByPhone("9999900000")
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
}

func TestCreateWithStatusDuplicatePhone(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	seedDriver(t, drivers, "Rohit", "9999900000", "Auto", "Main Gate", now)

	dup := models.NewDriver("Imposter", "9999900000", "E-Rick", "")
	err := drivers.CreateWithStatus(dup, "Hall 3", now)
	assert.ErrorIs(t, err, ErrPhoneExists)

	// The original record is untouched and no second status row appeared.
	orig, err := drivers.GetByPhone("9999900000")
	require.NoError(t, err)
	assert.Equal(t, "Rohit", orig.Name)
	var count int64
	db.Model(&models.Driver{}).Count(&count)
	assert.EqualValues(t, 1, count)
	db.Model(&models.DriverStatus{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestUpdateRejectsTakenPhone(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	a := seedDriver(t, drivers, "Rohit", "1111111111", "Auto", "Main Gate", now)
	b := seedDriver(t, drivers, "Priya", "2222222222", "Scooter", "Hall 1", now)

	err := drivers.Update(b.ID, "Priya", "1111111111", "Scooter", "Hall 1", now)
	assert.ErrorIs(t, err, ErrPhoneExists)

	// Nothing mutated on either record.
	got, err := drivers.GetByID(b.ID)
	require.NoError(t, err)
	assert.Equal(t, "2222222222", got.Phone)
	got, err = drivers.GetByID(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "1111111111", got.Phone)
}

func TestUpdateKeepsOwnPhone(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	d := seedDriver(t, drivers, "Rohit", "1111111111", "Auto", "Main Gate", now)

	// Re-submitting the same phone must not count as a collision.
	require.NoError(t, drivers.Update(d.ID, "Rohit K", "1111111111", "E-Rick", "Hall 2", now))
	got, err := drivers.GetByID(d.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rohit K", got.Name)
	assert.Equal(t, "E-Rick", got.VehicleType)
}

func TestUpdatePreservesOnlineFlag(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	status := NewStatusRepository(db)
	now := time.Now().UTC()

	d := seedDriver(t, drivers, "Rohit", "1111111111", "Auto", "Main Gate", now)
	require.NoError(t, status.SetOffline(d.ID))

	require.NoError(t, drivers.Update(d.ID, "Rohit", "1111111111", "Auto", "Hall 5", now))
	s, err := status.GetByDriverID(d.ID)
	require.NoError(t, err)
	assert.False(t, s.IsOnline, "edit must not resurrect an offline driver")
	assert.Equal(t, "Hall 5", s.LocationName)
}

func TestDeleteRemovesStatusRow(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	d := seedDriver(t, drivers, "Rohit", "1111111111", "Auto", "Main Gate", now)
	require.NoError(t, drivers.Delete(d.ID))

	_, err := drivers.GetByID(d.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	var count int64
	db.Model(&models.DriverStatus{}).Where("driver_id = ?", d.ID).Count(&count)
	assert.Zero(t, count)
}

func TestGetPhotoURL(t *testing.T) {
	db := testDB(t)
	drivers := NewDriverRepository(db)
	now := time.Now().UTC()

	seedDriver(t, drivers, "Rohit", "1111111111", "Auto", "Main Gate", now)

	url, err := drivers.GetPhotoURL("1111111111")
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPhotoURL, url)

	url, err = drivers.GetPhotoURL("0000000000")
	require.NoError(t, err)
	assert.Empty(t, url)
}
