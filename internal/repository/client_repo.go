package repository

import (
	"errors"

	"gorm.io/gorm"

	"lexdesk/internal/models"
)

type ClientRepository interface {
	Create(client *models.Client) error
	Update(client *models.Client) error
	GetByID(id uint) (*models.Client, error)
	GetByName(name string) (*models.Client, error)
	GetAll(activeOnly bool) ([]*models.Client, error)

	CreateTopic(topic *models.Topic) error
	GetTopic(id uint) (*models.Topic, error)
	GetTopicByName(clientID uint, name string) (*models.Topic, error)
	GetTopics(clientID uint) ([]*models.Topic, error)
}

type GormClientRepository struct {
	db *gorm.DB
}

func NewGormClientRepository(db *gorm.DB) (*GormClientRepository, error) {
	if err := db.AutoMigrate(&models.Client{}, &models.Topic{}); err != nil {
		return nil, err
	}
	return &GormClientRepository{db: db}, nil
}

func (r *GormClientRepository) Create(client *models.Client) error {
	return r.db.Omit("Topics").Create(client).Error
}

func (r *GormClientRepository) Update(client *models.Client) error {
	return r.db.Omit("Topics").Save(client).Error
}

func (r *GormClientRepository) GetByID(id uint) (*models.Client, error) {
	var client models.Client
	err := r.db.Preload("Topics", "active = ?", true).First(&client, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// GetByName ищет клиента без учета регистра
func (r *GormClientRepository) GetByName(name string) (*models.Client, error) {
	var client models.Client
	err := r.db.Where("LOWER(name) = LOWER(?)", name).First(&client).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *GormClientRepository) GetAll(activeOnly bool) ([]*models.Client, error) {
	var clients []*models.Client
	query := r.db.Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	err := query.Find(&clients).Error
	return clients, err
}

func (r *GormClientRepository) CreateTopic(topic *models.Topic) error {
	return r.db.Create(topic).Error
}

func (r *GormClientRepository) GetTopic(id uint) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.First(&topic, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *GormClientRepository) GetTopicByName(clientID uint, name string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.Where("client_id = ? AND LOWER(name) = LOWER(?)", clientID, name).First(&topic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (r *GormClientRepository) GetTopics(clientID uint) ([]*models.Topic, error) {
	var topics []*models.Topic
	err := r.db.Where("client_id = ?", clientID).Order("name ASC").Find(&topics).Error
	return topics, err
}
