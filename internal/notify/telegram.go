package notify

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// TelegramNotifier pushes booking events to the salon owner's chat
// through a buffered queue; a full queue drops the event rather than
// ever blocking a booking request.
type TelegramNotifier struct {
	bot   *tgbotapi.BotAPI
	queue chan outgoing
	log   zerolog.Logger
}

type outgoing struct {
	chatID int64
	text   string
}

func NewTelegramNotifier(token string, log zerolog.Logger) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram init: %w", err)
	}

	n := &TelegramNotifier{
		bot:   bot,
		queue: make(chan outgoing, 100),
		log:   log.With().Str("component", "telegram_notifier").Logger(),
	}

	go n.worker()
	return n, nil
}

func (n *TelegramNotifier) worker() {
	for msg := range n.queue {
		if _, err := n.bot.Send(tgbotapi.NewMessage(msg.chatID, msg.text)); err != nil {
			n.log.Warn().Err(err).Int64("chat_id", msg.chatID).Msg("telegram send failed")
		}
	}
}

func (n *TelegramNotifier) enqueue(chatID int64, text string) {
	if chatID == 0 {
		return
	}
	select {
	case n.queue <- outgoing{chatID: chatID, text: text}:
	default:
		n.log.Warn().Msg("notification queue full, dropping event")
	}
}

func (n *TelegramNotifier) BookingCreated(ev Event) {
	b := ev.Booking
	n.enqueue(ev.ChatID, fmt.Sprintf(
		"Новий запис у %s\n%s %s–%s\n%s, %s\nКлієнт: %s (%s)",
		ev.SalonName, b.Date, b.Time, b.TimeEnd,
		b.ServiceName, b.MasterName,
		b.ClientName, b.ClientPhone,
	))
}

func (n *TelegramNotifier) BookingStatusChanged(ev Event) {
	b := ev.Booking
	n.enqueue(ev.ChatID, fmt.Sprintf(
		"Запис %s %s: %s → %s\nКлієнт: %s",
		b.Date, b.Time, ev.OldStatus, ev.NewStatus, b.ClientName,
	))
}

var _ Notifier = (*TelegramNotifier)(nil)
