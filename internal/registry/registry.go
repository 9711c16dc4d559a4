// Package registry holds the immutable set of terminal profiles built from configuration.
package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/neckchi/vesseleta/configs/domain"
	"github.com/neckchi/vesseleta/internal/descriptor"
	"github.com/neckchi/vesseleta/internal/exceptions"
	"github.com/neckchi/vesseleta/internal/schema"
)

type Registry struct {
	profiles []schema.TerminalProfile
	index    map[schema.TerminalCode]int
}

// New validates every entry and freezes it into a profile. An entry without a timeout gets
// defaultTimeout. Any invalid or duplicated entry fails the whole registry.
func New(entries []domain.TerminalEntry, defaultTimeout time.Duration) (*Registry, error) {
	r := &Registry{
		profiles: make([]schema.TerminalProfile, 0, len(entries)),
		index:    make(map[schema.TerminalCode]int, len(entries)),
	}
	for i, entry := range entries {
		profile, err := buildProfile(entry, defaultTimeout)
		if err != nil {
			return nil, fmt.Errorf("terminal #%d (%s): %w", i+1, entry.Code, err)
		}
		if _, dup := r.index[profile.Code]; dup {
			return nil, fmt.Errorf("terminal #%d: %w: %s", i+1, exceptions.ErrDuplicateTerminal, profile.Code)
		}
		r.index[profile.Code] = len(r.profiles)
		r.profiles = append(r.profiles, profile)
	}
	return r, nil
}

func buildProfile(entry domain.TerminalEntry, defaultTimeout time.Duration) (schema.TerminalProfile, error) {
	entry.Code = strings.TrimSpace(entry.Code)
	entry.URL = strings.TrimSpace(entry.URL)
	if err := schema.RequestValidate.Struct(entry); err != nil {
		return schema.TerminalProfile{}, err
	}
	method := schema.ResolutionMethod(entry.ResolutionMethod)
	if method != schema.ExternalWorkflow && entry.URL == "" {
		return schema.TerminalProfile{}, fmt.Errorf("url is required for resolution method %s", method)
	}

	timeout := entry.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	profile := schema.TerminalProfile{
		Code:             schema.TerminalCode(entry.Code),
		DisplayName:      entry.DisplayName,
		DocumentSource:   schema.SourceForMethod[method],
		Endpoint:         entry.URL,
		ResolutionMethod: method,
		Timeout:          timeout,
		Renderer:         append([]string(nil), entry.Renderer...),
	}
	if strings.TrimSpace(entry.VesselFull) != "" {
		selfTest := descriptor.Parse(entry.VesselFull)
		profile.SelfTest = &selfTest
	}
	return profile, nil
}

func clone(p schema.TerminalProfile) schema.TerminalProfile {
	p.Renderer = append([]string(nil), p.Renderer...)
	if p.SelfTest != nil {
		selfTest := *p.SelfTest
		p.SelfTest = &selfTest
	}
	return p
}

func (r *Registry) Get(code schema.TerminalCode) (schema.TerminalProfile, bool) {
	i, ok := r.index[code]
	if !ok {
		return schema.TerminalProfile{}, false
	}
	return clone(r.profiles[i]), true
}

// All returns the profiles in configuration order.
func (r *Registry) All() []schema.TerminalProfile {
	out := make([]schema.TerminalProfile, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = clone(p)
	}
	return out
}

func (r *Registry) Len() int {
	return len(r.profiles)
}
