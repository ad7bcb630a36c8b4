package services

import (
	"fmt"
	"sync"

	"netadmin/internal/database"
	"netadmin/internal/models"
)

// ConfigStore owns the declared interface configurations. The set is
// replaced wholesale on reload; individual declarations are upserted by
// interface name. When a database is attached, declarations are written
// through and survive restarts.
type ConfigStore struct {
	mu      sync.Mutex
	configs []models.InterfaceConfig
	db      *database.DB
}

// NewConfigStore creates a store. db may be nil for a purely in-memory
// store.
func NewConfigStore(db *database.DB) *ConfigStore {
	return &ConfigStore{db: db}
}

// LoadFromDB replaces the in-memory set with the persisted declarations.
func (s *ConfigStore) LoadFromDB() error {
	if s.db == nil {
		return nil
	}

	rows, err := s.db.Query(`SELECT name, dhcp, address, zone FROM interface_configs ORDER BY name`)
	if err != nil {
		return fmt.Errorf("failed to load interface configs: %w", err)
	}
	defer rows.Close()

	var configs []models.InterfaceConfig
	for rows.Next() {
		var cfg models.InterfaceConfig
		if err := rows.Scan(&cfg.Name, &cfg.DHCP, &cfg.Address, &cfg.Zone); err != nil {
			return fmt.Errorf("failed to scan interface config: %w", err)
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read interface configs: %w", err)
	}

	s.mu.Lock()
	s.configs = configs
	s.mu.Unlock()
	return nil
}

// Replace swaps the whole declared set. There is no partial merge.
func (s *ConfigStore) Replace(configs []models.InterfaceConfig) error {
	s.mu.Lock()
	s.configs = make([]models.InterfaceConfig, len(configs))
	copy(s.configs, configs)
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if _, err := s.db.Exec(`DELETE FROM interface_configs`); err != nil {
		return fmt.Errorf("failed to clear interface configs: %w", err)
	}
	for _, cfg := range configs {
		if err := s.persist(cfg); err != nil {
			return err
		}
	}
	return nil
}

// Upsert declares or re-declares one interface.
func (s *ConfigStore) Upsert(cfg models.InterfaceConfig) error {
	s.mu.Lock()
	replaced := false
	for i := range s.configs {
		if s.configs[i].Name == cfg.Name {
			s.configs[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		s.configs = append(s.configs, cfg)
	}
	s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	return s.persist(cfg)
}

// List returns a snapshot of the declared set.
func (s *ConfigStore) List() []models.InterfaceConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InterfaceConfig, len(s.configs))
	copy(out, s.configs)
	return out
}

// Get returns the declaration for one interface, if present.
func (s *ConfigStore) Get(name string) (models.InterfaceConfig, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cfg := range s.configs {
		if cfg.Name == name {
			return cfg, true
		}
	}
	return models.InterfaceConfig{}, false
}

// ZoneAssignments groups the declared interface names by zone label.
// Interfaces without a zone label are omitted.
func (s *ConfigStore) ZoneAssignments() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	zones := make(map[string][]string)
	for _, cfg := range s.configs {
		if cfg.Zone == nil || *cfg.Zone == "" {
			continue
		}
		zones[*cfg.Zone] = append(zones[*cfg.Zone], cfg.Name)
	}
	return zones
}

func (s *ConfigStore) persist(cfg models.InterfaceConfig) error {
	_, err := s.db.Exec(
		`INSERT INTO interface_configs (name, dhcp, address, zone, updated_at)
		 VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(name) DO UPDATE SET
		   dhcp = excluded.dhcp,
		   address = excluded.address,
		   zone = excluded.zone,
		   updated_at = CURRENT_TIMESTAMP`,
		cfg.Name, cfg.DHCP, cfg.Address, cfg.Zone,
	)
	if err != nil {
		return fmt.Errorf("failed to persist interface config %s: %w", cfg.Name, err)
	}
	return nil
}
