package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"lexdesk/internal/export"
	"lexdesk/internal/logging"
	"lexdesk/internal/models"
	"lexdesk/internal/repository"
)

type ClientService struct {
	repo            repository.ClientRepository
	defaultCurrency string
	logger          *logrus.Logger
}

// ClientInput — данные клиента из API и импорта
type ClientInput struct {
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	VATNumber  string          `json:"vat_number"`
	Address    string          `json:"address"`
	HourlyRate decimal.Decimal `json:"hourly_rate"`
	Currency   string          `json:"currency"`
}

// ImportResult — итог импорта клиентов
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

func NewClientService(repo repository.ClientRepository, defaultCurrency string) *ClientService {
	if defaultCurrency == "" {
		defaultCurrency = "EUR"
	}
	return &ClientService{
		repo:            repo,
		defaultCurrency: strings.ToUpper(defaultCurrency),
		logger:          logging.New(),
	}
}

func (s *ClientService) apply(c *models.Client, in ClientInput) {
	c.Name = strings.TrimSpace(in.Name)
	c.Email = strings.TrimSpace(in.Email)
	c.VATNumber = strings.TrimSpace(in.VATNumber)
	c.Address = strings.TrimSpace(in.Address)
	c.HourlyRate = in.HourlyRate.Round(2)
	c.Currency = strings.ToUpper(strings.TrimSpace(in.Currency))
	if c.Currency == "" {
		c.Currency = s.defaultCurrency
	}
}

func (s *ClientService) CreateClient(in ClientInput) (*models.Client, error) {
	client := &models.Client{Active: true}
	s.apply(client, in)
	if !client.IsValid() {
		return nil, invalidf("client needs a name, a non-negative rate and a 3-letter currency")
	}

	existing, err := s.repo.GetByName(client.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("client %q already exists", client.Name)
	}

	if err := s.repo.Create(client); err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"client_id": client.ID, "name": client.Name}).Info("Client created")
	return client, nil
}

func (s *ClientService) UpdateClient(id uint, in ClientInput) (*models.Client, error) {
	client, err := s.GetClient(id)
	if err != nil {
		return nil, err
	}
	s.apply(client, in)
	if !client.IsValid() {
		return nil, invalidf("client needs a name, a non-negative rate and a 3-letter currency")
	}

	other, err := s.repo.GetByName(client.Name)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != client.ID {
		return nil, conflictf("client %q already exists", client.Name)
	}

	if err := s.repo.Update(client); err != nil {
		return nil, err
	}
	s.logger.WithField("client_id", client.ID).Info("Client updated")
	return client, nil
}

func (s *ClientService) GetClient(id uint) (*models.Client, error) {
	client, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, notFoundf("client %d", id)
	}
	return client, nil
}

func (s *ClientService) ListClients(activeOnly bool) ([]*models.Client, error) {
	return s.repo.GetAll(activeOnly)
}

// DeactivateClient скрывает клиента из списков; записи и документы сохраняются
func (s *ClientService) DeactivateClient(id uint) error {
	client, err := s.GetClient(id)
	if err != nil {
		return err
	}
	client.Active = false
	if err := s.repo.Update(client); err != nil {
		return err
	}
	s.logger.WithField("client_id", id).Info("Client deactivated")
	return nil
}

func (s *ClientService) CreateTopic(clientID uint, name, description string) (*models.Topic, error) {
	if _, err := s.GetClient(clientID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalidf("topic name is required")
	}

	existing, err := s.repo.GetTopicByName(clientID, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, conflictf("topic %q already exists", name)
	}

	topic := &models.Topic{ClientID: clientID, Name: name, Description: strings.TrimSpace(description), Active: true}
	if err := s.repo.CreateTopic(topic); err != nil {
		return nil, err
	}
	return topic, nil
}

func (s *ClientService) ListTopics(clientID uint) ([]*models.Topic, error) {
	if _, err := s.GetClient(clientID); err != nil {
		return nil, err
	}
	return s.repo.GetTopics(clientID)
}

// Resolve находит клиента и (необязательно) тему по названиям, как их пишут в боте
func (s *ClientService) Resolve(clientName, topicName string) (*models.Client, *models.Topic, error) {
	client, err := s.repo.GetByName(strings.TrimSpace(clientName))
	if err != nil {
		return nil, nil, err
	}
	if client == nil || !client.Active {
		return nil, nil, notFoundf("client %q", clientName)
	}
	if strings.TrimSpace(topicName) == "" {
		return client, nil, nil
	}

	topic, err := s.repo.GetTopicByName(client.ID, strings.TrimSpace(topicName))
	if err != nil {
		return nil, nil, err
	}
	if topic == nil {
		return nil, nil, notFoundf("topic %q of client %q", topicName, client.Name)
	}
	return client, topic, nil
}

// ImportClients создает или обновляет клиентов по названию
func (s *ClientService) ImportClients(rows []export.ClientRow) (*ImportResult, error) {
	result := &ImportResult{}
	for _, row := range rows {
		existing, err := s.repo.GetByName(row.Name)
		if err != nil {
			return result, err
		}

		if existing == nil {
			in := ClientInput{
				Name:      row.Name,
				Email:     row.Email,
				VATNumber: row.VATNumber,
				Address:   row.Address,
				Currency:  row.Currency,
			}
			if row.Rate != nil {
				in.HourlyRate = *row.Rate
			}
			if _, err := s.CreateClient(in); err != nil {
				return result, fmt.Errorf("line %d: %w", row.Line, err)
			}
			result.Created++
			continue
		}

		mergeRow(existing, row)
		if !existing.IsValid() {
			return result, fmt.Errorf("line %d: %w", row.Line, invalidf("invalid client data"))
		}
		if err := s.repo.Update(existing); err != nil {
			return result, fmt.Errorf("line %d: %w", row.Line, err)
		}
		result.Updated++
	}

	s.logger.WithFields(logrus.Fields{
		"created": result.Created,
		"updated": result.Updated,
	}).Info("Clients imported")
	return result, nil
}

// mergeRow переносит только заполненные ячейки
func mergeRow(c *models.Client, row export.ClientRow) {
	if row.Email != "" {
		c.Email = row.Email
	}
	if row.VATNumber != "" {
		c.VATNumber = row.VATNumber
	}
	if row.Address != "" {
		c.Address = row.Address
	}
	if row.Rate != nil {
		c.HourlyRate = row.Rate.Round(2)
	}
	if row.Currency != "" {
		c.Currency = row.Currency
	}
	c.Active = true
}
