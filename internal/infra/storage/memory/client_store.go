package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lodgebook/internal/domain/client"
)

// ClientStore keeps clients in memory, keyed by id with an email index for
// the upsert in Ensure.
type ClientStore struct {
	mu      sync.RWMutex
	items   map[client.ClientID]*client.Client
	byEmail map[string]client.ClientID
}

func NewClientStore() *ClientStore {
	return &ClientStore{
		items:   make(map[client.ClientID]*client.Client),
		byEmail: make(map[string]client.ClientID),
	}
}

func (s *ClientStore) ByID(ctx context.Context, id client.ClientID) (*client.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.items[id]
	if !ok {
		return nil, client.ErrNotFound
	}
	return cloneClient(c), nil
}

func (s *ClientStore) Ensure(ctx context.Context, info client.Info) (*client.Client, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(info.Email))

	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byEmail[email]; ok {
		existing := s.items[id]
		if strings.TrimSpace(info.Name) != "" {
			existing.Name = strings.TrimSpace(info.Name)
		}
		if strings.TrimSpace(info.Phone) != "" {
			existing.Phone = strings.TrimSpace(info.Phone)
		}
		return cloneClient(existing), nil
	}
	c := &client.Client{
		ID:        client.ClientID(uuid.NewString()),
		Name:      strings.TrimSpace(info.Name),
		Email:     email,
		Phone:     strings.TrimSpace(info.Phone),
		CreatedAt: time.Now().UTC(),
	}
	s.items[c.ID] = c
	s.byEmail[email] = c.ID
	return cloneClient(c), nil
}

func (s *ClientStore) AppendHistory(ctx context.Context, id client.ClientID, ref client.BookingRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	if !ok {
		return client.ErrNotFound
	}
	c.History = append(c.History, ref)
	return nil
}

func cloneClient(c *client.Client) *client.Client {
	clone := *c
	clone.History = append([]client.BookingRef(nil), c.History...)
	return &clone
}

var _ client.Store = (*ClientStore)(nil)
