package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Sender — отправка сообщений; реализуется Client и подменяется в тестах
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Requester — вызовы, которые не возвращают сообщение (ответ на callback, удаление)
type Requester interface {
	Sender
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Client struct {
	Bot          *tgbotapi.BotAPI
	UpdateConfig tgbotapi.UpdateConfig
}

func NewClient(token string, debug bool) (*Client, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	bot.Debug = debug

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60

	return &Client{
		Bot:          bot,
		UpdateConfig: updateConfig,
	}, nil
}

func (c *Client) Send(msg tgbotapi.Chattable) (tgbotapi.Message, error) {
	return c.Bot.Send(msg)
}

func (c *Client) Request(req tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return c.Bot.Request(req)
}

// Updates открывает long polling
func (c *Client) Updates() tgbotapi.UpdatesChannel {
	return c.Bot.GetUpdatesChan(c.UpdateConfig)
}

// Stop закрывает канал обновлений
func (c *Client) Stop() {
	c.Bot.StopReceivingUpdates()
}

func (c *Client) Username() string {
	return c.Bot.Self.UserName
}
