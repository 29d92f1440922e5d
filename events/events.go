package events

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/AnthonyLaw/symbol-tomatina-script/logger"
)

const (
	EVENT_ORDER_CREATED             = "order_created"
	EVENT_ORDER_REJECTED            = "order_rejected"
	EVENT_ORDER_CONTAINER_PUBLISHED = "order_container_published"
	EVENT_ORDER_SETTLED             = "order_settled"
)

type Event struct {
	ID         string      `json:"id"`
	Event      string      `json:"event"`
	Properties interface{} `json:"properties,omitempty"`
}

type EventSubscriber interface {
	ConsumeEvent(ctx context.Context, event *Event)
}

type EventPublisher interface {
	RegisterSubscriber(subscriber EventSubscriber)
	RemoveSubscriber(subscriber EventSubscriber)
	Publish(event *Event)
}

type eventPublisher struct {
	listeners       []EventSubscriber
	subscriberMutex sync.Mutex
}

func NewEventPublisher() *eventPublisher {
	return &eventPublisher{
		listeners: []EventSubscriber{},
	}
}

func (ep *eventPublisher) RegisterSubscriber(listener EventSubscriber) {
	ep.subscriberMutex.Lock()
	defer ep.subscriberMutex.Unlock()
	ep.listeners = append(ep.listeners, listener)
}

func (ep *eventPublisher) RemoveSubscriber(listenerToRemove EventSubscriber) {
	ep.subscriberMutex.Lock()
	defer ep.subscriberMutex.Unlock()

	for i, listener := range ep.listeners {
		if listener == listenerToRemove {
			ep.listeners = slices.Delete(ep.listeners, i, i+1)
			break
		}
	}
}

func (ep *eventPublisher) Publish(event *Event) {
	ep.subscriberMutex.Lock()
	defer ep.subscriberMutex.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	logger.Logger.Debug().Str("event", event.Event).Str("id", event.ID).Msg("Publishing event")
	for _, listener := range ep.listeners {
		// consumers must not block the publishing stage
		go listener.ConsumeEvent(context.Background(), event)
	}
}
