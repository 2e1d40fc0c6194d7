package domain

import "time"

// CheckInWindow period before an event start during which capacity is
// enforced against checked-in reservations instead of all reservations
const CheckInWindow = 48 * time.Hour

// Pagination defaults
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Business validation constants
const (
	MaxEventTitleLength    = 200
	MaxLocationLength      = 500
	MaxClubNameLength      = 150
	MaxNotificationTitle   = 200
	MaxNotificationMessage = 2000
	MinBranchOrder         = 1
)

// AllowedCertificateTypes MIME types accepted for coach certificates
var AllowedCertificateTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"application/pdf": {},
}

// Time format constants
const (
	DateTimeFormat = time.RFC3339
)
