package services

import (
	"log"
	"sync"

	"github.com/framewave-studio/framewave-portal-api/models"
	"gorm.io/gorm"
)

// NotificationEvent is a fire-and-forget notification for a user
type NotificationEvent struct {
	UserID         uint
	Type           string
	Title          string
	Message        string
	TargetEntityID *uint
}

// Notifier defines the interface for the notification sink. Notify is
// fire-and-forget: failures are logged and never block the caller.
type Notifier interface {
	Notify(event NotificationEvent)
}

// DBNotifier persists notifications for later delivery
type DBNotifier struct {
	db *gorm.DB
}

var notifierInstance Notifier

// InitNotifier initializes the notification sink
func InitNotifier(db *gorm.DB) Notifier {
	notifierInstance = &DBNotifier{db: db}
	return notifierInstance
}

// GetNotifier returns the initialized notifier instance
func GetNotifier() Notifier {
	return notifierInstance
}

// SetNotifier sets the notifier instance (primarily for testing)
func SetNotifier(n Notifier) {
	notifierInstance = n
}

// Notify persists a notification row; errors are logged, never returned
func (n *DBNotifier) Notify(event NotificationEvent) {
	notification := models.Notification{
		UserID:         event.UserID,
		Type:           event.Type,
		Title:          event.Title,
		Message:        event.Message,
		TargetEntityID: event.TargetEntityID,
	}
	if err := n.db.Create(&notification).Error; err != nil {
		log.Printf("Failed to record notification: %v", err)
	}
}

// MockNotifier records notifications for assertions in tests
type MockNotifier struct {
	mu     sync.Mutex
	Events []NotificationEvent
}

// NewMockNotifier creates a new recording notifier
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify records the event
func (m *MockNotifier) Notify(event NotificationEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Events = append(m.Events, event)
}

// Recorded returns a copy of the recorded events
func (m *MockNotifier) Recorded() []NotificationEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]NotificationEvent, len(m.Events))
	copy(out, m.Events)
	return out
}
