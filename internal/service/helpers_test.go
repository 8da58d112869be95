package service

import (
	"context"
	"sync"
	"time"

	"clinic-archive/internal/config"
	"clinic-archive/internal/event"
	"clinic-archive/internal/model"
	"clinic-archive/internal/repository"
)

type recordingNotifier struct {
	mu   sync.Mutex
	sent []model.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, notification model.Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification)
}

func (n *recordingNotifier) all() []model.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]model.Notification(nil), n.sent...)
}

func (n *recordingNotifier) last() (model.Notification, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.sent) == 0 {
		return model.Notification{}, false
	}
	return n.sent[len(n.sent)-1], true
}

func (n *recordingNotifier) reset() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = nil
}

type fixture struct {
	state    *repository.MemoryStateRepository
	audit    *repository.MemoryAuditRepository
	notifier *recordingNotifier
	entities *MockEntitySource
	settings *SettingsService
	archives *ArchiveService
	clock    time.Time
}

func newFixture() *fixture {
	f := &fixture{
		state:    repository.NewMemoryStateRepository(),
		audit:    repository.NewMemoryAuditRepository(),
		notifier: &recordingNotifier{},
		entities: new(MockEntitySource),
		clock:    time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	defaults, _ := config.LoadArchiveDefaults("")
	audit := NewAuditService(f.audit)
	bus := event.NewBus()

	f.settings = NewSettingsService(f.state, defaults, f.notifier, audit, bus)
	f.archives = NewArchiveService(f.state, f.settings, f.entities, f.notifier, audit, bus, nil)
	f.archives.SetClock(func() time.Time { return f.clock })
	return f
}

var testActor = model.AuditActor{UserID: "u-1", Username: "reception", Role: model.RoleEditor}
