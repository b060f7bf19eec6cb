// Package clients owns the customer-site records.
package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"timesheet-service/internal/storage"
)

const clientsKey = "clients_data"

var ErrNameRequired = errors.New("client name is required")

// Client is a customer site an employee can clock in against.
type Client struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
	CreatedAt     string `json:"createdAt"`
}

// Fields is the caller-supplied part of a new client record.
type Fields struct {
	Name          string `json:"name"`
	Address       string `json:"address"`
	ContactPerson string `json:"contactPerson"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	IsActive      bool   `json:"isActive"`
}

// Patch is a partial update; nil fields are left unchanged (shallow merge).
type Patch struct {
	Name          *string `json:"name,omitempty"`
	Address       *string `json:"address,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Email         *string `json:"email,omitempty"`
	IsActive      *bool   `json:"isActive,omitempty"`
}

// Store owns the client list. All mutations rewrite the whole list under one
// key; the mutex keeps the read-modify-write cycle from racing in-process.
type Store struct {
	mu       sync.Mutex
	provider storage.Provider
	clock    func() time.Time
	logger   *slog.Logger
}

func NewStore(provider storage.Provider) *Store {
	return &Store{
		provider: provider,
		clock:    time.Now,
		logger:   slog.With("component", "clients"),
	}
}

// SetClock overrides the time source. Used by tests.
func (s *Store) SetClock(clock func() time.Time) {
	s.clock = clock
}

// List returns all clients in insertion order. Fails soft with an empty list.
func (s *Store) List(ctx context.Context) []Client {
	list, err := s.load(ctx)
	if err != nil {
		s.logger.Error("Failed to load clients", "error", err)
		return []Client{}
	}
	return list
}

// ActiveOnly returns clients whose visibility flag is set.
func (s *Store) ActiveOnly(ctx context.Context) []Client {
	var active []Client
	for _, client := range s.List(ctx) {
		if client.IsActive {
			active = append(active, client)
		}
	}
	return active
}

// FindByID returns the matching client, or nil.
func (s *Store) FindByID(ctx context.Context, id string) *Client {
	for _, client := range s.List(ctx) {
		if client.ID == id {
			return &client
		}
	}
	return nil
}

// Add assigns an id and creation timestamp, appends, persists, and returns the
// new record.
func (s *Store) Add(ctx context.Context, fields Fields) (*Client, error) {
	if fields.Name == "" {
		return nil, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	client := Client{
		ID:            strconv.FormatInt(now.UnixMilli(), 10),
		Name:          fields.Name,
		Address:       fields.Address,
		ContactPerson: fields.ContactPerson,
		Phone:         fields.Phone,
		Email:         fields.Email,
		IsActive:      fields.IsActive,
		CreatedAt:     now.UTC().Format(time.RFC3339),
	}

	list = append(list, client)
	if err := s.save(ctx, list); err != nil {
		return nil, fmt.Errorf("failed to add client: %w", err)
	}

	s.logger.Info("Added client", "client_id", client.ID, "name", client.Name)
	return &client, nil
}

// Update shallow-merges the patch into the matching record. Unknown id is a
// silent no-op.
func (s *Store) Update(ctx context.Context, id string, patch Patch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	for i := range list {
		if list[i].ID != id {
			continue
		}

		client := &list[i]
		if patch.Name != nil {
			client.Name = *patch.Name
		}
		if patch.Address != nil {
			client.Address = *patch.Address
		}
		if patch.ContactPerson != nil {
			client.ContactPerson = *patch.ContactPerson
		}
		if patch.Phone != nil {
			client.Phone = *patch.Phone
		}
		if patch.Email != nil {
			client.Email = *patch.Email
		}
		if patch.IsActive != nil {
			client.IsActive = *patch.IsActive
		}

		if err := s.save(ctx, list); err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}
		s.logger.Info("Updated client", "client_id", id)
		return nil
	}

	s.logger.Debug("Update for unknown client", "client_id", id)
	return nil
}

// Delete removes the matching record. Unknown id is a silent no-op.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, err := s.load(ctx)
	if err != nil {
		return err
	}

	kept := list[:0]
	for _, client := range list {
		if client.ID != id {
			kept = append(kept, client)
		}
	}
	if len(kept) == len(list) {
		return nil
	}

	if err := s.save(ctx, kept); err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	s.logger.Info("Deleted client", "client_id", id)
	return nil
}

// Seed writes the default client list if nothing is persisted yet.
func (s *Store) Seed(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.provider.GetValue(ctx, clientsKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, storage.ErrKeyNotFound) {
		return err
	}

	now := s.clock().UTC().Format(time.RFC3339)
	seed := []Client{
		{ID: "1", Name: "ABC Corporation", Address: "123 Business Ave, Downtown", ContactPerson: "Sarah Johnson", Phone: "+1 (555) 234-5678", Email: "sarah@abccorp.com", IsActive: true, CreatedAt: now},
		{ID: "2", Name: "Tech Solutions Inc", Address: "456 Innovation Blvd, Tech Park", ContactPerson: "Mike Chen", Phone: "+1 (555) 345-6789", Email: "mike@techsolutions.com", IsActive: true, CreatedAt: now},
		{ID: "3", Name: "Green Energy Co", Address: "789 Eco Street, Green District", ContactPerson: "Lisa Rodriguez", Phone: "+1 (555) 456-7890", Email: "lisa@greenenergy.com", IsActive: true, CreatedAt: now},
	}

	if err := s.save(ctx, seed); err != nil {
		return fmt.Errorf("failed to seed clients: %w", err)
	}
	s.logger.Info("Seeded default clients", "count", len(seed))
	return nil
}

func (s *Store) load(ctx context.Context) ([]Client, error) {
	data, err := s.provider.GetValue(ctx, clientsKey)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return []Client{}, nil
	}
	if err != nil {
		return nil, err
	}

	var list []Client
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("corrupt clients value: %w", err)
	}
	return list, nil
}

func (s *Store) save(ctx context.Context, list []Client) error {
	data, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return s.provider.SetValue(ctx, clientsKey, data)
}
