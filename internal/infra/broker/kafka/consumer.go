package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/IBM/sarama"

	"skipper/internal/app/bookings"
	"skipper/internal/domain/booking"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg *sarama.ConsumerMessage) error
}

type Consumer struct {
	group   sarama.ConsumerGroup
	handler MessageHandler
}

func NewConsumer(brokers []string, groupID string, cfg *sarama.Config, handler MessageHandler) (*Consumer, error) {
	if cfg == nil {
		cfg = sarama.NewConfig()
	}
	cfg.ClientID = clientID
	cfg.Version = sarama.V2_5_0_0
	g, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}
	return &Consumer{group: g, handler: handler}, nil
}

func (c *Consumer) Run(ctx context.Context, topics []string) error {
	for {
		if err := c.group.Consume(ctx, topics, consumerGroupHandler{handler: c.handler}); err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) Close() error {
	return c.group.Close()
}

type consumerGroupHandler struct {
	handler MessageHandler
}

func (h consumerGroupHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h consumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h consumerGroupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		if err := h.handler.Handle(sess.Context(), message); err != nil {
			// retry/handling delegated to handler
			continue
		}
		sess.MarkMessage(message, "")
	}
	return nil
}

// LifecycleCommandHandler consumes asynchronous confirm/cancel commands and
// applies them through the booking service. Delivery is at-least-once, so
// replays of already-applied commands are treated as handled.
type LifecycleCommandHandler struct {
	Bookings *bookings.Service
	Logger   *slog.Logger
}

type lifecycleCommand struct {
	Action    string `json:"action"`
	BookingID string `json:"booking_id"`
	Actor     string `json:"actor"`
	Reason    string `json:"reason,omitempty"`
}

func (h LifecycleCommandHandler) Handle(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var cmd lifecycleCommand
	if err := json.Unmarshal(msg.Value, &cmd); err != nil {
		if h.Logger != nil {
			h.Logger.Warn("dropping malformed lifecycle command", "offset", msg.Offset, "error", err)
		}
		return nil
	}
	id := booking.BookingID(cmd.BookingID)
	var err error
	switch cmd.Action {
	case "confirm":
		_, err = h.Bookings.ConfirmBooking(ctx, id, cmd.Actor)
	case "cancel":
		_, err = h.Bookings.CancelBooking(ctx, id, cmd.Actor, cmd.Reason)
	default:
		if h.Logger != nil {
			h.Logger.Warn("unknown lifecycle command", "action", cmd.Action, "booking_id", cmd.BookingID)
		}
		return nil
	}
	if err != nil {
		// A replayed command meets a terminal booking; that is success for
		// at-least-once delivery, not a failure to retry.
		if errors.Is(err, booking.ErrAlreadyCancelled) || errors.Is(err, booking.ErrAlreadyFulfilled) || errors.Is(err, booking.ErrNotConfirmable) {
			return nil
		}
		if h.Logger != nil {
			h.Logger.Error("lifecycle command failed", "action", cmd.Action, "booking_id", cmd.BookingID, "error", err)
		}
		return err
	}
	return nil
}
