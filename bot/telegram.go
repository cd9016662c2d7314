package bot

import (
	"context"
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramGateway renders replies over the Telegram Bot API.
type TelegramGateway struct {
	api *tgbotapi.BotAPI
}

func NewTelegramGateway(token string) (*TelegramGateway, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	log.Printf("Authorized on Telegram account %s", api.Self.UserName)
	return &TelegramGateway{api: api}, nil
}

func (g *TelegramGateway) Send(userID int64, reply Reply) (MessageRef, error) {
	markup, hasKeyboard := inlineKeyboard(reply.Keyboard)

	if reply.PhotoURL != "" {
		photo := tgbotapi.NewPhoto(userID, tgbotapi.FileURL(reply.PhotoURL))
		photo.Caption = reply.Text
		photo.ParseMode = tgbotapi.ModeMarkdown
		if hasKeyboard {
			photo.ReplyMarkup = markup
		}
		sent, err := g.api.Send(photo)
		if err != nil {
			return 0, err
		}
		return MessageRef(sent.MessageID), nil
	}

	msg := tgbotapi.NewMessage(userID, reply.Text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	if hasKeyboard {
		msg.ReplyMarkup = markup
	}
	sent, err := g.api.Send(msg)
	if err != nil {
		return 0, err
	}
	return MessageRef(sent.MessageID), nil
}

func (g *TelegramGateway) Delete(userID int64, ref MessageRef) error {
	_, err := g.api.Request(tgbotapi.NewDeleteMessage(userID, int(ref)))
	return err
}

func inlineKeyboard(rows [][]Button) (tgbotapi.InlineKeyboardMarkup, bool) {
	if len(rows) == 0 {
		return tgbotapi.InlineKeyboardMarkup{}, false
	}
	keyboardRows := make([][]tgbotapi.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(button.Label, button.Data))
		}
		keyboardRows = append(keyboardRows, buttons)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboardRows...), true
}

// Poller pulls updates over long polling and feeds them to the
// dispatcher; each update runs in its own goroutine so one slow catalog
// call only delays that user.
type Poller struct {
	gateway    *TelegramGateway
	dispatcher *Dispatcher
}

func NewPoller(gateway *TelegramGateway, dispatcher *Dispatcher) *Poller {
	return &Poller{gateway: gateway, dispatcher: dispatcher}
}

func (p *Poller) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := p.gateway.api.GetUpdatesChan(cfg)

	for {
		select {
		case <-ctx.Done():
			p.gateway.api.StopReceivingUpdates()
			return
		case update := <-updates:
			inbound, ok := p.toInbound(update)
			if !ok {
				continue
			}
			go p.dispatcher.Handle(ctx, inbound)
		}
	}
}

func (p *Poller) toInbound(update tgbotapi.Update) (Inbound, bool) {
	if update.CallbackQuery != nil {
		p.gateway.api.Request(tgbotapi.NewCallback(update.CallbackQuery.ID, ""))
		return Inbound{
			UserID:   update.CallbackQuery.From.ID,
			Username: update.CallbackQuery.From.UserName,
			Kind:     InboundButton,
			Callback: update.CallbackQuery.Data,
		}, true
	}
	if update.Message == nil || update.Message.From == nil {
		return Inbound{}, false
	}
	if update.Message.IsCommand() {
		return Inbound{
			UserID:   update.Message.From.ID,
			Username: update.Message.From.UserName,
			Kind:     InboundCommand,
			Command:  update.Message.Command(),
		}, true
	}
	return Inbound{
		UserID:   update.Message.From.ID,
		Username: update.Message.From.UserName,
		Kind:     InboundFreeText,
		Text:     update.Message.Text,
	}, true
}
