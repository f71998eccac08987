package models

import (
	"time"

	"github.com/shopspring/decimal"

	"lexdesk/pkg/civil"
)

const (
	DocumentKindServiceDescription = "service_description"
	DocumentKindInvoice            = "invoice"
)

// IsValidDocumentKind проверяет вид документа
func IsValidDocumentKind(kind string) bool {
	return kind == DocumentKindServiceDescription || kind == DocumentKindInvoice
}

type BillingDocument struct {
	ID           uint            `gorm:"primarykey" json:"id"`
	Number       string          `gorm:"uniqueIndex;not null" json:"number"`
	Kind         string          `gorm:"type:varchar(32);not null;index" json:"kind"`
	ClientID     uint            `gorm:"not null;index" json:"client_id"`
	PeriodStart  civil.Date      `gorm:"type:varchar(10);not null" json:"period_start"`
	PeriodEnd    civil.Date      `gorm:"type:varchar(10);not null" json:"period_end"`
	TotalMinutes int             `gorm:"not null" json:"total_minutes"`
	Amount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency     string          `gorm:"type:varchar(3);not null" json:"currency"`
	IssuedBy     uint            `gorm:"not null" json:"issued_by"`
	CreatedAt    time.Time       `json:"created_at"`

	Client Client `gorm:"foreignKey:ClientID" json:"-"`
}

func (BillingDocument) TableName() string {
	return "billing_documents"
}

// TotalHours возвращает сумму часов
func (d *BillingDocument) TotalHours() decimal.Decimal {
	return decimal.NewFromInt(int64(d.TotalMinutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// DocumentLine — строка документа. Строки фиксируются при выпуске,
// чтобы поздние правки таймшита не меняли уже выпущенный документ.
type DocumentLine struct {
	ID          uint            `gorm:"primarykey" json:"-"`
	DocumentID  uint            `gorm:"not null;index" json:"-"`
	EntryID     uint            `gorm:"not null" json:"entry_id"`
	Date        civil.Date      `gorm:"type:varchar(10);not null" json:"date"`
	Lawyer      string          `gorm:"not null" json:"lawyer"`
	Topic       string          `json:"topic"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Minutes     int             `gorm:"not null" json:"minutes"`
	Amount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
}

func (DocumentLine) TableName() string {
	return "billing_document_lines"
}
