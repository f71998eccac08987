package repository

import (
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"lexdesk/internal/logging"
	"lexdesk/internal/models"
)

type BillingDocumentRepository interface {
	Create(doc *models.BillingDocument, lines []models.DocumentLine, entryIDs []uint) error
	GetByID(id uint) (*models.BillingDocument, error)
	GetByNumber(number string) (*models.BillingDocument, error)
	GetLines(documentID uint) ([]models.DocumentLine, error)
	GetAll(clientID uint) ([]*models.BillingDocument, error)
}

type GormBillingDocumentRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormBillingDocumentRepository(db *gorm.DB) (*GormBillingDocumentRepository, error) {
	logger := logging.New()
	if err := db.AutoMigrate(&models.BillingDocument{}, &models.DocumentLine{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate billing_documents table")
		return nil, err
	}
	return &GormBillingDocumentRepository{db: db, logger: logger}, nil
}

// Create сохраняет документ вместе со строками и помечает записи как выставленные.
// Если хотя бы одна запись уже в другом документе, ничего не сохраняется.
func (r *GormBillingDocumentRepository) Create(doc *models.BillingDocument, lines []models.DocumentLine, entryIDs []uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Client").Create(doc).Error; err != nil {
			return err
		}
		for i := range lines {
			lines[i].ID = 0
			lines[i].DocumentID = doc.ID
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		if len(entryIDs) == 0 {
			return nil
		}

		result := tx.Model(&models.TimesheetEntry{}).
			Where("id IN ? AND billing_document_id IS NULL", entryIDs).
			Update("billing_document_id", doc.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != int64(len(entryIDs)) {
			return ErrAlreadyBilled
		}
		return nil
	})
	if err != nil {
		r.logger.WithError(err).WithField("number", doc.Number).Error("Failed to create billing document")
		return err
	}

	r.logger.WithFields(logrus.Fields{
		"document_id": doc.ID,
		"number":      doc.Number,
		"kind":        doc.Kind,
		"lines":       len(lines),
		"entries":     len(entryIDs),
	}).Info("Billing document created")
	return nil
}

func (r *GormBillingDocumentRepository) GetByID(id uint) (*models.BillingDocument, error) {
	var doc models.BillingDocument
	err := r.db.Preload("Client").First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *GormBillingDocumentRepository) GetByNumber(number string) (*models.BillingDocument, error) {
	var doc models.BillingDocument
	err := r.db.Preload("Client").Where("number = ?", number).First(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// GetLines возвращает строки, зафиксированные при выпуске документа
func (r *GormBillingDocumentRepository) GetLines(documentID uint) ([]models.DocumentLine, error) {
	var lines []models.DocumentLine
	err := r.db.Where("document_id = ?", documentID).Order("id ASC").Find(&lines).Error
	if err != nil {
		r.logger.WithError(err).WithField("document_id", documentID).Error("Failed to get billing document lines")
		return nil, err
	}
	return lines, nil
}

// GetAll возвращает документы, clientID = 0 означает всех клиентов
func (r *GormBillingDocumentRepository) GetAll(clientID uint) ([]*models.BillingDocument, error) {
	var docs []*models.BillingDocument
	query := r.db.Preload("Client").Order("created_at DESC, id DESC")
	if clientID != 0 {
		query = query.Where("client_id = ?", clientID)
	}
	err := query.Find(&docs).Error
	return docs, err
}
