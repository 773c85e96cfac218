package sse

import (
	"context"
	"specimenpro/internal/kafka"
	"sync"
)

// Broker fans catalog notifications out to connected stream clients.
// Clients subscribe to one event ID, or to "" for every notification.
type Broker struct {
	clients     map[string][]chan kafka.Notification
	clientMutex sync.RWMutex
}

func NewBroker() *Broker {
	return &Broker{clients: make(map[string][]chan kafka.Notification)}
}

// Subscribe registers a client until ctx is done; the channel is then closed.
func (b *Broker) Subscribe(ctx context.Context, eventID string) <-chan kafka.Notification {
	clientChan := make(chan kafka.Notification, 10)

	b.clientMutex.Lock()
	b.clients[eventID] = append(b.clients[eventID], clientChan)
	b.clientMutex.Unlock()

	go func() {
		<-ctx.Done()
		b.remove(eventID, clientChan)
	}()

	return clientChan
}

// Emit delivers n to subscribers of its event and to catch-all subscribers.
// Notifications without an event ID, such as document.saved, reach everyone.
// Slow clients with a full buffer miss the notification.
func (b *Broker) Emit(n kafka.Notification) {
	b.clientMutex.RLock()
	defer b.clientMutex.RUnlock()

	for eventID, clients := range b.clients {
		if n.EventID != "" && eventID != "" && eventID != n.EventID {
			continue
		}
		for _, clientChan := range clients {
			select {
			case clientChan <- n:
			default:
			}
		}
	}
}

func (b *Broker) remove(eventID string, clientChan chan kafka.Notification) {
	b.clientMutex.Lock()
	defer b.clientMutex.Unlock()

	clients := b.clients[eventID]
	for i, ch := range clients {
		if ch == clientChan {
			b.clients[eventID] = append(clients[:i], clients[i+1:]...)
			close(clientChan)
			break
		}
	}
	if len(b.clients[eventID]) == 0 {
		delete(b.clients, eventID)
	}
}

// ClientCount returns the number of clients subscribed to eventID.
func (b *Broker) ClientCount(eventID string) int {
	b.clientMutex.RLock()
	defer b.clientMutex.RUnlock()
	return len(b.clients[eventID])
}
