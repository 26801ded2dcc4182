package domain

import "time"

const (
	// DefaultLocation is where newly registered drivers are placed until
	// they send their first location update.
	DefaultLocation = "Main Gate"

	// DefaultPhotoURL is the sentinel for drivers without an uploaded photo.
	DefaultPhotoURL = "default_driver.png"
)

const (
	RoleAdmin = "ADMIN"
)

// Display convention for rider/admin listings: stored timestamps are UTC,
// shown in IST with a fixed DD/MM/YYYY HH:MM:SS layout.
const (
	DisplayOffset     = 5*time.Hour + 30*time.Minute
	DisplayTimeLayout = "02/01/2006 15:04:05"
)

// FormatDisplayTime renders a stored UTC timestamp for listings.
func FormatDisplayTime(t time.Time) string {
	return t.Add(DisplayOffset).Format(DisplayTimeLayout)
}
