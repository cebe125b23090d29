// pkg/event/event.go
package event

import (
	"sync"

	"github.com/go-gl/mathgl/mgl64"
)

// Type represents the type of event
type Type string

// Simulation event types
const (
	SimulationStarted Type = "simulation_started"
	SimulationStopped Type = "simulation_stopped"
	VehicleRespawned  Type = "vehicle_respawned"
	InputChanged      Type = "input_changed"
	DebugToggled      Type = "debug_toggled"
	TickFailed        Type = "tick_failed"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
	GetSource() interface{}
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
	Source    interface{}
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// GetSource returns the event source
func (e *BaseEvent) GetSource() interface{} {
	return e.Source
}

// Handler is a function that handles events
type Handler func(Event)

// Subscription identifies a registered handler. Cancel removes it.
type Subscription struct {
	ID     uint64
	Cancel func()
}

type subscriber struct {
	id      uint64
	handler Handler
}

// Bus manages event subscriptions and dispatching. Handlers run
// synchronously on the publishing goroutine.
type Bus struct {
	handlers map[Type][]subscriber
	nextID   uint64
	mu       sync.RWMutex
}

// NewEventBus creates a new event bus
func NewEventBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]subscriber),
		nextID:   1,
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.handlers[eventType] = append(b.handlers[eventType], subscriber{id: id, handler: handler})

	return &Subscription{
		ID:     id,
		Cancel: func() { b.remove(eventType, id) },
	}
}

func (b *Bus) remove(eventType Type, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.handlers[eventType]
	for i, s := range subs {
		if s.id == id {
			b.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
			return
		}
	}
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subs := append([]subscriber(nil), b.handlers[event.GetType()]...)
	b.mu.RUnlock()

	for _, s := range subs {
		s.handler(event)
	}
}

// Specific event implementations

// RespawnEvent is published when a fallen vehicle is returned to spawn.
type RespawnEvent struct {
	BaseEvent
	FallPosition  mgl64.Vec3
	SpawnPosition mgl64.Vec3
	Respawns      int
}

// NewRespawnEvent creates a new respawn event
func NewRespawnEvent(source interface{}, fall, spawn mgl64.Vec3, respawns int) *RespawnEvent {
	return &RespawnEvent{
		BaseEvent: BaseEvent{
			EventType: VehicleRespawned,
			Source:    source,
		},
		FallPosition:  fall,
		SpawnPosition: spawn,
		Respawns:      respawns,
	}
}

// InputEvent reports a control flag transition.
type InputEvent struct {
	BaseEvent
	Action string
	Down   bool
}

// NewInputEvent creates a new input event
func NewInputEvent(source interface{}, action string, down bool) *InputEvent {
	return &InputEvent{
		BaseEvent: BaseEvent{
			EventType: InputChanged,
			Source:    source,
		},
		Action: action,
		Down:   down,
	}
}

// TickFailedEvent carries a recovered tick panic.
type TickFailedEvent struct {
	BaseEvent
	Frame  uint64
	Reason string
}

// NewTickFailedEvent creates a new tick failure event
func NewTickFailedEvent(source interface{}, frame uint64, reason string) *TickFailedEvent {
	return &TickFailedEvent{
		BaseEvent: BaseEvent{
			EventType: TickFailed,
			Source:    source,
		},
		Frame:  frame,
		Reason: reason,
	}
}
