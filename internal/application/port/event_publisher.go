package port

import "github.com/bnema/tabbridge/internal/domain/entity"

// EventPublisher broadcasts normalized lifecycle events to extension contexts.
type EventPublisher interface {
	Emit(name entity.EventName, windowID entity.WindowID, tabID entity.TabID, args ...any) entity.Event
}
