// Package contact models the emergency contacts notified during escalation.
package contact

import (
	"fmt"
	"sync"
	"time"

	"safyra/internal/shared/id"
)

// Contact is an emergency contact for a user. Priority 1 is notified first.
type Contact struct {
	id           string
	userID       string
	name         string
	phone        string
	email        string
	relationship string
	priority     int
	createdAt    time.Time
	updatedAt    time.Time
	mu           sync.RWMutex
}

func NewContact(userID, name, phone, email, relationship string, priority int) (*Contact, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if phone == "" {
		return nil, fmt.Errorf("phone is required")
	}
	if priority < 1 {
		priority = 1
	}

	cid, err := id.NewContactID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate contact ID: %w", err)
	}

	now := time.Now().UTC()
	return &Contact{
		id:           cid,
		userID:       userID,
		name:         name,
		phone:        phone,
		email:        email,
		relationship: relationship,
		priority:     priority,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

func ReconstructContact(contactID, userID, name, phone, email, relationship string, priority int, createdAt, updatedAt time.Time) (*Contact, error) {
	if contactID == "" {
		return nil, fmt.Errorf("contact ID cannot be empty")
	}
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}

	return &Contact{
		id:           contactID,
		userID:       userID,
		name:         name,
		phone:        phone,
		email:        email,
		relationship: relationship,
		priority:     priority,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

// Update replaces the mutable fields. Empty strings leave the current value
// in place so partial edits stay partial.
func (c *Contact) Update(name, phone, email, relationship string, priority int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if name != "" {
		c.name = name
	}
	if phone != "" {
		c.phone = phone
	}
	if email != "" {
		c.email = email
	}
	if relationship != "" {
		c.relationship = relationship
	}
	if priority >= 1 {
		c.priority = priority
	}
	c.updatedAt = time.Now().UTC()
	return nil
}

func (c *Contact) ID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.id
}

func (c *Contact) UserID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.userID
}

func (c *Contact) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Contact) Phone() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.phone
}

func (c *Contact) Email() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.email
}

func (c *Contact) Relationship() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.relationship
}

func (c *Contact) Priority() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.priority
}

func (c *Contact) CreatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.createdAt
}

func (c *Contact) UpdatedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.updatedAt
}
