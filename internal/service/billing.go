package service

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"lexdesk/internal/export"
	"lexdesk/internal/logging"
	"lexdesk/internal/metrics"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
	"lexdesk/pkg/civil"
)

var documentPrefixes = map[string]string{
	models.DocumentKindServiceDescription: "SD",
	models.DocumentKindInvoice:            "INV",
}

var minutesPerHour = decimal.NewFromInt(60)

type BillingService struct {
	docs    repository.BillingDocumentRepository
	entries repository.TimesheetRepository
	clients repository.ClientRepository
	metrics *metrics.Metrics
	now     func() time.Time
	logger  *logrus.Logger
}

// IssuedDocument — документ со строками
type IssuedDocument struct {
	Document *models.BillingDocument `json:"document"`
	Lines    []models.DocumentLine   `json:"lines"`
}

func NewBillingService(
	docs repository.BillingDocumentRepository,
	entries repository.TimesheetRepository,
	clients repository.ClientRepository,
	m *metrics.Metrics,
) *BillingService {
	return &BillingService{
		docs:    docs,
		entries: entries,
		clients: clients,
		metrics: m,
		now:     time.Now,
		logger:  logging.New(),
	}
}

// IssueServiceDescription описывает все оплачиваемые работы за период, записи не помечаются
func (s *BillingService) IssueServiceDescription(clientID uint, from, to civil.Date, issuer *models.User) (*IssuedDocument, error) {
	return s.Issue(models.DocumentKindServiceDescription, clientID, from, to, issuer)
}

// IssueInvoice выставляет счет по еще не выставленным записям и помечает их
func (s *BillingService) IssueInvoice(clientID uint, from, to civil.Date, issuer *models.User) (*IssuedDocument, error) {
	return s.Issue(models.DocumentKindInvoice, clientID, from, to, issuer)
}

func (s *BillingService) Issue(kind string, clientID uint, from, to civil.Date, issuer *models.User) (*IssuedDocument, error) {
	if issuer == nil || !issuer.IsAdmin() {
		return nil, ErrForbidden
	}
	if !models.IsValidDocumentKind(kind) {
		return nil, invalidf("unknown document kind %q", kind)
	}
	if from.IsZero() || to.IsZero() || to.Before(from) {
		return nil, invalidf("invalid billing period")
	}

	client, err := s.clients.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, notFoundf("client %d", clientID)
	}

	invoice := kind == models.DocumentKindInvoice
	entries, err := s.entries.GetForBilling(clientID, from, to, invoice)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, invalidf("no billable entries for %s between %s and %s", client.Name, from, to)
	}

	lines, totalMinutes, amount := buildLines(entries, client.HourlyRate)
	now := s.now()
	doc := &models.BillingDocument{
		Number:       documentPrefixes[kind] + "-" + ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String(),
		Kind:         kind,
		ClientID:     client.ID,
		PeriodStart:  from,
		PeriodEnd:    to,
		TotalMinutes: totalMinutes,
		Amount:       amount,
		Currency:     client.Currency,
		IssuedBy:     issuer.ID,
		CreatedAt:    now.UTC(),
	}

	var marked []uint
	if invoice {
		for _, e := range entries {
			marked = append(marked, e.ID)
		}
	}
	if err := s.docs.Create(doc, lines, marked); err != nil {
		if errors.Is(err, repository.ErrAlreadyBilled) {
			return nil, conflictf("some entries were invoiced concurrently, retry")
		}
		return nil, fmt.Errorf("saving billing document: %w", err)
	}
	doc.Client = *client

	if s.metrics != nil {
		s.metrics.DocumentsIssued.WithLabelValues(kind).Inc()
	}
	s.logger.WithFields(logrus.Fields{
		"number":    doc.Number,
		"client_id": client.ID,
		"minutes":   totalMinutes,
		"amount":    doc.Amount.StringFixed(2),
	}).Info("Billing document issued")

	return &IssuedDocument{Document: doc, Lines: lines}, nil
}

func (s *BillingService) GetDocument(id uint) (*models.BillingDocument, error) {
	doc, err := s.docs.GetByID(id)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFoundf("billing document %d", id)
	}
	return doc, nil
}

// FindByNumber ищет документ по номеру и отдает его вместе со строками
func (s *BillingService) FindByNumber(number string) (*IssuedDocument, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if number == "" {
		return nil, invalidf("document number is required")
	}
	doc, err := s.docs.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, notFoundf("billing document %s", number)
	}
	lines, err := s.Lines(doc)
	if err != nil {
		return nil, err
	}
	return &IssuedDocument{Document: doc, Lines: lines}, nil
}

func (s *BillingService) ListDocuments(clientID uint) ([]*models.BillingDocument, error) {
	return s.docs.GetAll(clientID)
}

// Lines возвращает строки, зафиксированные при выпуске документа
func (s *BillingService) Lines(doc *models.BillingDocument) ([]models.DocumentLine, error) {
	return s.docs.GetLines(doc.ID)
}

// Export пишет документ в xlsx
func (s *BillingService) Export(id uint, w io.Writer) (*models.BillingDocument, error) {
	doc, err := s.GetDocument(id)
	if err != nil {
		return nil, err
	}
	lines, err := s.Lines(doc)
	if err != nil {
		return nil, err
	}
	if err := export.WriteBillingWorkbook(w, doc, &doc.Client, lines); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return doc, nil
}

// buildLines собирает строки; сумма документа равна сумме округленных строк
func buildLines(entries []*models.TimesheetEntry, rate decimal.Decimal) ([]models.DocumentLine, int, decimal.Decimal) {
	lines := make([]models.DocumentLine, 0, len(entries))
	total := 0
	amount := decimal.Zero
	for _, e := range entries {
		line := models.DocumentLine{
			EntryID:     e.ID,
			Date:        e.Date,
			Lawyer:      e.User.Name,
			Description: e.Description,
			Minutes:     e.Minutes,
			Amount:      amountFor(e.Minutes, rate),
		}
		if e.Topic != nil {
			line.Topic = e.Topic.Name
		}
		lines = append(lines, line)
		total += e.Minutes
		amount = amount.Add(line.Amount)
	}
	return lines, total, amount
}

// amountFor — часы × ставка, округление до центов
func amountFor(minutes int, rate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Mul(rate).Round(2)
}
