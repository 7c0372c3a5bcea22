package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/example/kirana/internal/models"
)

// TelegramService pings the shop's admin chat when an order comes in. A
// missing token or chat ID turns every call into a no-op, so the service is
// safe to wire unconditionally.
type TelegramService struct {
	botToken    string
	adminChatID string
}

// NewTelegramService creates a new TelegramService.
func NewTelegramService(botToken, adminChatID string) *TelegramService {
	return &TelegramService{
		botToken:    botToken,
		adminChatID: adminChatID,
	}
}

type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode"`
}

// SendMessage sends a message to the specified chat.
func (s *TelegramService) SendMessage(chatID, text string) error {
	if s.botToken == "" {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", s.botToken)

	msg := telegramMessage{
		ChatID:    chatID,
		Text:      text,
		ParseMode: "HTML",
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[Telegram] Failed to send message: %v", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("[Telegram] Unexpected status: %d", resp.StatusCode)
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}

	return nil
}

// NotifyNewOrder sends a new-order summary to the admin chat.
func (s *TelegramService) NotifyNewOrder(order *models.Order) error {
	if s.adminChatID == "" {
		return nil
	}

	var itemsList strings.Builder
	for i := range order.Items {
		item := &order.Items[i]
		label := item.Name
		if item.Weight != "" {
			label += " (" + item.Weight + ")"
		}
		itemsList.WriteString(fmt.Sprintf("%d. <b>%s</b>\n   %d x ₹%.2f = ₹%.2f\n",
			i+1, label, item.Quantity, item.Price, item.Price*float64(item.Quantity)))
	}

	message := fmt.Sprintf(`<b>🛒 NEW ORDER</b>
<b>👤 Customer:</b> %s
<b>📞 Phone:</b> %s
<b>📍 Address:</b> %s
<b>📦 Items:</b>
%s
<b>💰 Total:</b> ₹%.2f
<b>💳 Payment:</b> %s`,
		order.CustomerName,
		order.Phone,
		order.Address,
		itemsList.String(),
		order.TotalAmount,
		order.PaymentMethod,
	)

	return s.SendMessage(s.adminChatID, strings.TrimSpace(message))
}
