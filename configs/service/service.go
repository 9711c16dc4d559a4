package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/neckchi/vesseleta/configs/domain"
	log "github.com/sirupsen/logrus"
)

type ConfigService struct {
	Config   *domain.Config
	Location string
}

// Watch reloads the config every d until ctx is done. A failed reload keeps the last good config.
func (s *ConfigService) Watch(ctx context.Context, d time.Duration) {
	ticker := time.NewTicker(d)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Reload(); err != nil {
				log.Error(err)
			}
		}
	}
}

// Reload reads the config and applies changes
func (s *ConfigService) Reload() error {
	data, err := os.ReadFile(s.Location)
	if err != nil {
		return fmt.Errorf("read config %s: %w", s.Location, err)
	}
	if err = s.Config.SetFromBytes(data); err != nil {
		return fmt.Errorf("parse config %s: %w", s.Location, err)
	}
	return nil
}

// Load builds a config from the file at location.
func Load(location string) (*domain.Config, error) {
	s := &ConfigService{Config: &domain.Config{}, Location: location}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s.Config, nil
}
