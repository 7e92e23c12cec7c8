package router

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/PhoneSim/backend/internal/domain/store"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/providers/generation"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/types"
	"github.com/GriffinCanCode/PhoneSim/backend/internal/shared/utils"
)

// SendMessage appends an outgoing message to the contact's conversation
// and schedules a generated reply
func (r *Router) SendMessage(ctx context.Context, contactID, text, imageRef string) (types.Message, error) {
	msg, err := r.sendMessage(ctx, contactID, text, imageRef)
	return msg, r.outcome("send_message", err)
}

// SendMessageToName is SendMessage addressed by display name. An unknown
// name creates the contact.
func (r *Router) SendMessageToName(ctx context.Context, name, text string) (types.Contact, types.Message, error) {
	if err := utils.ValidateName(name, "name"); err != nil {
		return types.Contact{}, types.Message{}, r.outcome("send_message", err)
	}
	if err := utils.ValidateMessageText(text, false); err != nil {
		return types.Contact{}, types.Message{}, r.outcome("send_message", err)
	}

	text = strings.TrimSpace(text)
	var contact types.Contact
	var sent types.Message
	var created bool
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		c, isNew, err := tx.EnsureContactByName(name)
		if err != nil {
			return err
		}
		msg, err := appendOutgoing(tx, c.ID, text, "")
		if err != nil {
			return err
		}
		contact, sent, created = c, msg, isNew
		return nil
	})
	if err != nil {
		return types.Contact{}, types.Message{}, r.outcome("send_message", err)
	}
	if created {
		r.log.Info("Created contact for outgoing message", zap.String("contact_id", contact.ID))
	}

	r.scheduleReply(contact.ID, text)
	return contact, sent, r.outcome("send_message", nil)
}

func (r *Router) sendMessage(ctx context.Context, contactID, text, imageRef string) (types.Message, error) {
	text = strings.TrimSpace(text)
	if err := utils.ValidateID(contactID, "contact_id", true); err != nil {
		return types.Message{}, err
	}
	if err := utils.ValidateMessageText(text, imageRef != ""); err != nil {
		return types.Message{}, err
	}

	var sent types.Message
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		msg, err := appendOutgoing(tx, contactID, text, imageRef)
		sent = msg
		return err
	})
	if err != nil {
		return types.Message{}, err
	}

	r.scheduleReply(contactID, text)
	return sent, nil
}

// appendOutgoing adds a self message; the user has seen the conversation
func appendOutgoing(tx *store.Tx, contactID, text, imageRef string) (types.Message, error) {
	msg, err := tx.AppendMessage(contactID, types.Message{Text: text, ImageRef: imageRef, FromSelf: true})
	if err != nil {
		return types.Message{}, err
	}
	return msg, tx.SetUnread(contactID, false)
}

// scheduleReply queues the contact's answer when the messages kind replies
func (r *Router) scheduleReply(contactID, text string) {
	if !r.catalog.RepliesFor(types.AppMessages) {
		return
	}
	topic := text
	if topic == "" {
		topic = "a photo"
	}
	r.spawn("reply", r.delays.Reply, func(ctx context.Context) {
		r.reply(ctx, contactID, topic)
	})
}

// reply generates and appends the contact's answer to topic
func (r *Router) reply(ctx context.Context, contactID, topic string) {
	contact, ok := r.store.Contact(contactID)
	if !ok {
		r.stale("reply", zap.String("contact_id", contactID))
		return
	}
	persona := generation.Persona{Name: contact.Name, Relationship: contact.Relationship}

	answer, err := r.generate(ctx, topic, persona)
	if err != nil {
		r.log.Warn("Reply generation failed",
			zap.String("contact_id", contactID),
			zap.Error(err))
		return
	}

	// Read before taking the store lock; navigation consults the store
	unread := !r.nav.IsForeground(types.AppMessages)

	err = r.store.Update(ctx, func(tx *store.Tx) error {
		if _, ok := tx.Contact(contactID); !ok {
			return errContactGone
		}
		if _, err := tx.AppendMessage(contactID, answer); err != nil {
			return err
		}
		return tx.SetUnread(contactID, unread)
	})
	switch {
	case errors.Is(err, errContactGone):
		r.stale("reply", zap.String("contact_id", contactID))
	case err != nil:
		r.log.Warn("Failed to append reply", zap.String("contact_id", contactID), zap.Error(err))
	default:
		r.log.Debug("Reply delivered", zap.String("contact_id", contactID), zap.Bool("unread", unread))
	}
}

var errContactGone = errors.New("contact no longer exists")

// generate asks the generator for a text or image reply
func (r *Router) generate(ctx context.Context, topic string, persona generation.Persona) (types.Message, error) {
	ctx, cancel := context.WithTimeout(ctx, r.genTimeout)
	defer cancel()

	if generation.WantsImage(topic) {
		timer := monitoring.NewTimer(r.metrics, "image")
		ref, err := r.gen.GenerateImage(ctx, topic)
		if err == nil && strings.TrimSpace(ref) == "" {
			err = generation.ErrEmptyReply
		}
		if err != nil {
			timer.Stop("failure")
			return types.Message{}, fmt.Errorf("generate image: %w", err)
		}
		timer.Stop("success")
		return types.Message{ImageRef: ref}, nil
	}

	timer := monitoring.NewTimer(r.metrics, "reply")
	text, err := r.gen.GenerateReply(ctx, topic, persona)
	if err == nil {
		text = generation.CleanText(text)
		if text == "" {
			err = generation.ErrEmptyReply
		}
	}
	if err != nil {
		timer.Stop("failure")
		return types.Message{}, fmt.Errorf("generate reply: %w", err)
	}
	timer.Stop("success")
	return types.Message{Text: text}, nil
}

// MarkConversationRead clears the unread flag
func (r *Router) MarkConversationRead(ctx context.Context, contactID string) error {
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		return tx.SetUnread(contactID, false)
	})
	return r.outcome("mark_conversation_read", err)
}

// ShareItinerary sends a calendar event, or free text, to a contact.
// Shared itineraries get no reply.
func (r *Router) ShareItinerary(ctx context.Context, req types.ShareItineraryRequest) (types.Message, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return types.Message{}, r.outcome("share_itinerary", err)
	}

	var sent types.Message
	err := r.store.Update(ctx, func(tx *store.Tx) error {
		text := strings.TrimSpace(req.Text)
		if req.EventID != "" {
			event, ok := tx.CalendarEvent(req.EventID)
			if !ok {
				return &types.NotFoundError{Kind: "calendar event", ID: req.EventID}
			}
			text = itineraryText(event, text)
		}

		msg, err := tx.AppendMessage(req.ContactID, types.Message{Text: text, FromSelf: true})
		if err != nil {
			return err
		}
		sent = msg
		return tx.SetUnread(req.ContactID, false)
	})
	return sent, r.outcome("share_itinerary", err)
}

func itineraryText(e types.CalendarEvent, note string) string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString(", ")
	b.WriteString(e.Start.Format("Mon Jan 2 15:04"))
	if !e.End.IsZero() && !e.End.Equal(e.Start) {
		b.WriteString(" to ")
		b.WriteString(e.End.Format("15:04"))
	}
	if e.Location != "" {
		b.WriteString(" at ")
		b.WriteString(e.Location)
	}
	if note != "" {
		b.WriteString("\n")
		b.WriteString(note)
	}
	return b.String()
}
