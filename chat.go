package realtime

import (
	"context"
)

type (
	// MealChat is the application vocabulary over the realtime client.
	// Conversations are keyed by athlete and meal, mirroring the coaching
	// workflow where a trainer reviews one meal record at a time. Every
	// operation is fire-and-forget: a disconnected transport silently queues
	// and the caller receives no synchronous failure signal.
	MealChat struct {
		client Client
		store  MessageStore
		logger Logger
	}

	// ChatMessage is the payload of one chat line.
	ChatMessage struct {
		Content    string `json:"content"`
		SenderID   string `json:"senderId"`
		SenderName string `json:"senderName,omitempty"`
	}

	// ChatOption customizes the adapter at construction time.
	ChatOption func(*MealChat)

	roomPayload struct {
		AthleteID string `json:"athleteId"`
		MealID    string `json:"mealId"`
	}

	messagePayload struct {
		AthleteID string      `json:"athleteId"`
		MealID    string      `json:"mealId"`
		Message   ChatMessage `json:"message"`
	}

	approvalPayload struct {
		AthleteID string `json:"athleteId"`
		MealID    string `json:"mealId"`
		Approved  bool   `json:"approved"`
	}

	typingPayload struct {
		Channel string `json:"channel"`
	}
)

// WithMessageStore makes the send conveniences also persist through the REST
// collaborator, in parallel with the realtime send. The two round trips are
// independent and may complete in either order.
func WithMessageStore(store MessageStore) ChatOption {
	return func(c *MealChat) {
		c.store = store
	}
}

// WithChatLogger replaces the default logger.
func WithChatLogger(logger Logger) ChatOption {
	return func(c *MealChat) {
		c.logger = logger
	}
}

func NewMealChat(client Client, opts ...ChatOption) *MealChat {
	c := &MealChat{client: client}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = DefaultLogger()
	}
	c.logger = c.logger.WithField("component", "meal_chat")
	return c
}

// ChannelKey derives the composite conversation key used by typing indicators.
func ChannelKey(athleteID, mealID string) string {
	return athleteID + ":" + mealID
}

// Join announces interest in a conversation. Purely advisory to the server;
// no membership state is tracked client-side.
func (c *MealChat) Join(athleteID, mealID string) string {
	return c.client.Send(EventJoinMealChat, roomPayload{AthleteID: athleteID, MealID: mealID})
}

// Leave announces the end of interest in a conversation.
func (c *MealChat) Leave(athleteID, mealID string) string {
	return c.client.Send(EventLeaveMealChat, roomPayload{AthleteID: athleteID, MealID: mealID})
}

// SendMessage sends one chat line over the realtime channel and, when a store
// is configured, persists it in parallel. Optimistic local append and its
// rollback on persistence failure are the caller's concern.
func (c *MealChat) SendMessage(athleteID, mealID string, msg ChatMessage) string {
	id := c.client.Send(EventMealMessage, messagePayload{
		AthleteID: athleteID,
		MealID:    mealID,
		Message:   msg,
	})

	if c.store != nil {
		go func() {
			if err := c.store.SaveMessage(context.Background(), athleteID, mealID, msg); err != nil {
				c.logger.Errorf("persisting chat message %s: %s", id, err)
			}
		}()
	}

	return id
}

// SendApproval sends an approval or rejection for a meal.
func (c *MealChat) SendApproval(athleteID, mealID string, approved bool) string {
	id := c.client.Send(EventMealApproval, approvalPayload{
		AthleteID: athleteID,
		MealID:    mealID,
		Approved:  approved,
	})

	if c.store != nil {
		go func() {
			if err := c.store.SaveApproval(context.Background(), athleteID, mealID, approved); err != nil {
				c.logger.Errorf("persisting approval %s: %s", id, err)
			}
		}()
	}

	return id
}

// StartTyping signals that the local user started typing in the channel.
// Throttling is the caller's concern: schedule StopTyping after a quiet
// period rather than sending on every keystroke.
func (c *MealChat) StartTyping(channel string) string {
	return c.client.Send(EventTypingStart, typingPayload{Channel: channel})
}

// StopTyping signals that the local user stopped typing in the channel.
func (c *MealChat) StopTyping(channel string) string {
	return c.client.Send(EventTypingStop, typingPayload{Channel: channel})
}
