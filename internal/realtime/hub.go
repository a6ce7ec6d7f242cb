package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	TopicLeaveRequests = "leaveRequests"
	TopicStaffProfiles = "staffProfiles"
	TopicNotifications = "notifications"
)

// Message is the wire envelope pushed to subscribers. Data carries a full
// snapshot of the topic's collection, so clients replace local state rather
// than patch it.
type Message struct {
	Topic string `json:"topic"`
	Data  any    `json:"data"`
}

const subscriberBuffer = 16

// Subscription is one client's view of the hub. Messages arrive on C;
// a subscriber that stops draining is dropped rather than allowed to stall
// the publisher.
type Subscription struct {
	C      chan []byte
	topics map[string]bool
}

func (s *Subscription) wants(topic string) bool {
	return len(s.topics) == 0 || s.topics[topic]
}

// Hub fans out topic snapshots to websocket subscribers.
type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: map[*Subscription]struct{}{}}
}

// Subscribe registers a client for the given topics. An empty topic list
// subscribes to everything.
func (h *Hub) Subscribe(topics ...string) *Subscription {
	sub := &Subscription{
		C:      make(chan []byte, subscriberBuffer),
		topics: map[string]bool{},
	}
	for _, t := range topics {
		sub.topics[t] = true
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	if _, ok := h.subs[sub]; ok {
		delete(h.subs, sub)
		close(sub.C)
	}
	h.mu.Unlock()
}

// Publish marshals a snapshot once and delivers it to every interested
// subscriber. Subscribers with a full buffer are disconnected.
func (h *Hub) Publish(topic string, data any) {
	payload, err := json.Marshal(Message{Topic: topic, Data: data})
	if err != nil {
		slog.Warn("realtime marshal failed", "topic", topic, "err", err)
		return
	}

	h.mu.RLock()
	var slow []*Subscription
	for sub := range h.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.C <- payload:
		default:
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		slog.Warn("dropping slow realtime subscriber", "topic", topic)
		h.Unsubscribe(sub)
	}
}

// SubscriberCount is used by the admin metrics endpoint.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
