package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Client struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	Name       string          `gorm:"uniqueIndex;not null" json:"name"`
	Email      string          `json:"email"`
	VATNumber  string          `gorm:"column:vat_number" json:"vat_number"`
	Address    string          `json:"address"`
	HourlyRate decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"hourly_rate"`
	Currency   string          `gorm:"type:varchar(3);not null" json:"currency"`
	Active     bool            `gorm:"not null;default:true" json:"active"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`

	Topics []Topic `gorm:"foreignKey:ClientID" json:"topics,omitempty"`
}

func (Client) TableName() string {
	return "clients"
}

// IsValid проверяет валидность данных
func (c *Client) IsValid() bool {
	if strings.TrimSpace(c.Name) == "" {
		return false
	}
	if c.HourlyRate.IsNegative() {
		return false
	}
	return len(c.Currency) == 3
}

// Topic — дело (тема) клиента, к которому пишутся часы
type Topic struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	ClientID    uint      `gorm:"not null;uniqueIndex:idx_topic_client_name" json:"client_id"`
	Name        string    `gorm:"not null;uniqueIndex:idx_topic_client_name" json:"name"`
	Description string    `json:"description"`
	Active      bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Topic) TableName() string {
	return "topics"
}
