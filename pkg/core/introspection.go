package core

import (
	"time"

	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	RepositoryType string     `json:"repository_type"`
	HasOracle      bool       `json:"has_oracle"`
	Appends        int        `json:"appends"`
	LastAppend     *time.Time `json:"last_append,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	return ServiceState{
		RepositoryType: repoType,
		HasOracle:      s.oracle != nil,
		Appends:        s.appends,
		LastAppend:     s.lastAppend,
	}
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
