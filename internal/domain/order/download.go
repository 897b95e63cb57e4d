package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/salesmanager/backend/internal/domain/shared"
)

// Default limits applied to digital downloads
const (
	DefaultDownloadMaxDays  = 31
	DefaultDownloadMaxCount = 5
)

// OrderProductDownload grants access to the file of a purchased digital product
type OrderProductDownload struct {
	shared.BaseEntity
	OrderProductID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderProductFilename string    `gorm:"type:varchar(255);not null"`
	MaxDays              int       `gorm:"column:download_max_days;not null"`
	MaxCount             int       `gorm:"column:download_max_count;not null"`
	DownloadCount        int       `gorm:"column:download_count;not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderProductDownload) TableName() string {
	return "order_product_downloads"
}

// NewOrderProductDownload creates a download grant with default limits
func NewOrderProductDownload(orderProductID uuid.UUID, fileName string) (*OrderProductDownload, error) {
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "Download file name cannot be empty")
	}
	return &OrderProductDownload{
		BaseEntity:           shared.NewBaseEntity(),
		OrderProductID:       orderProductID,
		OrderProductFilename: fileName,
		MaxDays:              DefaultDownloadMaxDays,
		MaxCount:             DefaultDownloadMaxCount,
	}, nil
}

// ExpiresAt returns when the grant stops being valid
func (d *OrderProductDownload) ExpiresAt() time.Time {
	return d.CreatedAt.AddDate(0, 0, d.MaxDays)
}

// IsExpired reports whether the grant is past its validity window
func (d *OrderProductDownload) IsExpired(now time.Time) bool {
	return now.After(d.ExpiresAt())
}

// Consume counts a download, failing once the grant has expired or is used up
func (d *OrderProductDownload) Consume(now time.Time) error {
	if d.IsExpired(now) {
		return shared.NewDomainError("DOWNLOAD_EXPIRED", "Download link has expired")
	}
	if d.MaxCount > 0 && d.DownloadCount >= d.MaxCount {
		return shared.NewDomainError("DOWNLOAD_EXHAUSTED", "Maximum number of downloads reached")
	}
	d.DownloadCount++
	d.Touch()
	return nil
}
