// Package eventsink forwards sold lots to RabbitMQ so an external team roster
// can record ownership after the auction is gone.
package eventsink

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"auction-engine/internal/models"
	"auction-engine/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const (
	// RoutingKeyLotSold is the routing key of every roster message
	RoutingKeyLotSold = "lot.sold"

	DefaultBuffer  = 256
	publishTimeout = 5 * time.Second
)

// Channel is the part of *amqp.Channel the publisher uses
type Channel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RosterEntry is the message body: who bought which lot, for how much
type RosterEntry struct {
	AuctionID   string          `json:"auction_id"`
	AuctionName string          `json:"auction_name"`
	LotID       string          `json:"lot_id"`
	LotName     string          `json:"lot_name"`
	Image       string          `json:"image,omitempty"`
	WinnerID    string          `json:"winner_id"`
	WinnerName  string          `json:"winner_name"`
	Amount      decimal.Decimal `json:"amount"`
	SoldAt      time.Time       `json:"sold_at"`
}

// AMQPPublisher is a notifier sink. Accept queues sold lots without blocking;
// Run publishes them.
type AMQPPublisher struct {
	ch       Channel
	conn     io.Closer
	exchange string
	queue    chan RosterEntry
}

// DialAMQP connects to url and declares exchange
func DialAMQP(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("eventsink: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("eventsink: open channel: %w", err)
	}

	p, err := NewAMQPPublisher(ch, exchange, DefaultBuffer)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher declares exchange as a durable topic exchange on ch
func NewAMQPPublisher(ch Channel, exchange string, buffer int) (*AMQPPublisher, error) {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("eventsink: declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan RosterEntry, buffer),
	}, nil
}

// Accept implements notifier.Sink
func (p *AMQPPublisher) Accept(ev models.Event) {
	if ev.Type != models.EventLotFinalized || ev.Outcome != models.LotSold {
		return
	}

	entry := RosterEntry{
		AuctionID:   ev.AuctionID,
		AuctionName: ev.AuctionName,
		LotID:       ev.LotID,
		WinnerID:    ev.BidderID,
		WinnerName:  ev.BidderName,
		Amount:      ev.Amount,
		SoldAt:      ev.Timestamp,
	}
	if ev.Lot != nil {
		entry.LotName = ev.Lot.Name
		entry.Image = ev.Lot.Image
	}

	select {
	case p.queue <- entry:
	default:
		utils.Error("eventsink: roster queue full, dropping sale", map[string]any{
			"auction_id": entry.AuctionID,
			"lot_id":     entry.LotID,
			"winner_id":  entry.WinnerID,
		})
	}
}

// Run publishes queued entries until ctx is done, then drains the queue
func (p *AMQPPublisher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			p.drain()
			return nil
		case entry := <-p.queue:
			p.publish(ctx, entry)
		}
	}
}

func (p *AMQPPublisher) drain() {
	for {
		select {
		case entry := <-p.queue:
			p.publish(context.Background(), entry)
		default:
			return
		}
	}
}

func (p *AMQPPublisher) publish(ctx context.Context, entry RosterEntry) {
	if err := p.Publish(ctx, entry); err != nil {
		utils.Error("eventsink: publish failed", map[string]any{
			"auction_id": entry.AuctionID,
			"lot_id":     entry.LotID,
			"error":      err.Error(),
		})
	}
}

// Publish sends one entry to the exchange
func (p *AMQPPublisher) Publish(ctx context.Context, entry RosterEntry) error {
	body, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("eventsink: encode: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(ctx, p.exchange, RoutingKeyLotSold, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    entry.AuctionID + "/" + entry.LotID,
		Timestamp:    entry.SoldAt,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("eventsink: publish %s: %w", entry.LotID, err)
	}
	return nil
}

// Close releases the channel and, when dialed, the connection
func (p *AMQPPublisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
