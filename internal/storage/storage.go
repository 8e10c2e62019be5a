package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/eugenenazirov/container-load/internal/calculator"
)

var (
	// ErrProfileNotFound indicates no profile is registered under the requested ID.
	ErrProfileNotFound = errors.New("container profile not found")
	// ErrProfileExists indicates a profile with the same ID is already registered.
	ErrProfileExists = errors.New("container profile already exists")
	// ErrInvalidProfile indicates the profile is missing its ID or name.
	ErrInvalidProfile = errors.New("container profile must have an id and a name")
)

var defaultProfiles = []calculator.ContainerProfile{
	{
		ID:                "20ft",
		Name:              "20ft Container",
		InnerLength:       589,
		InnerWidth:        235,
		InnerHeight:       239,
		MaxWeight:         21800,
		VolumeCubicMeters: 33.2,
	},
	{
		ID:                "40ft",
		Name:              "40ft Container",
		InnerLength:       1203,
		InnerWidth:        235,
		InnerHeight:       239,
		MaxWeight:         26500,
		VolumeCubicMeters: 67.7,
	},
	{
		ID:                "40ft-hc",
		Name:              "40ft High-Cube Container",
		InnerLength:       1203,
		InnerWidth:        235,
		InnerHeight:       269,
		MaxWeight:         26500,
		VolumeCubicMeters: 76.3,
	},
}

// Storage provides access to the container profiles known to the calculator.
type Storage interface {
	GetProfile(id string) (calculator.ContainerProfile, error)
	ListProfiles() ([]calculator.ContainerProfile, error)
	AddProfile(profile calculator.ContainerProfile) error
}

// MemoryStorage keeps container profiles in-memory and guards access with a RWMutex.
// Profiles are immutable once registered.
type MemoryStorage struct {
	mu       sync.RWMutex
	profiles map[string]calculator.ContainerProfile
}

// NewMemoryStorage initialises storage with the built-in container profiles.
func NewMemoryStorage() *MemoryStorage {
	profiles := make(map[string]calculator.ContainerProfile, len(defaultProfiles))
	for _, p := range defaultProfiles {
		profiles[normalizeID(p.ID)] = p
	}
	return &MemoryStorage{profiles: profiles}
}

// DefaultProfiles returns a copy of the built-in container profiles.
func DefaultProfiles() []calculator.ContainerProfile {
	out := make([]calculator.ContainerProfile, len(defaultProfiles))
	copy(out, defaultProfiles)
	return out
}

// GetProfile looks up a profile by ID, ignoring case and surrounding whitespace.
func (s *MemoryStorage) GetProfile(id string) (calculator.ContainerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.profiles[normalizeID(id)]
	if !ok {
		return calculator.ContainerProfile{}, fmt.Errorf("%w: %q", ErrProfileNotFound, id)
	}
	return p, nil
}

// ListProfiles returns all profiles ordered by inner volume, then ID.
func (s *MemoryStorage) ListProfiles() ([]calculator.ContainerProfile, error) {
	s.mu.RLock()
	out := make([]calculator.ContainerProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].VolumeCubicMeters != out[j].VolumeCubicMeters {
			return out[i].VolumeCubicMeters < out[j].VolumeCubicMeters
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// AddProfile validates and registers a new profile. Existing IDs are never replaced.
func (s *MemoryStorage) AddProfile(profile calculator.ContainerProfile) error {
	profile.ID = strings.TrimSpace(profile.ID)
	profile.Name = strings.TrimSpace(profile.Name)
	if profile.ID == "" || profile.Name == "" {
		return ErrInvalidProfile
	}
	if err := calculator.ValidateProfile(profile); err != nil {
		return err
	}

	key := normalizeID(profile.ID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.profiles[key]; exists {
		return fmt.Errorf("%w: %q", ErrProfileExists, profile.ID)
	}
	s.profiles[key] = profile
	return nil
}

func normalizeID(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
