// Package store persists network profiles in a YAML document.
package store

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"

	"netprofiler/internal/pkg/logging"
	"netprofiler/internal/port"
	"netprofiler/internal/types"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// DocumentVersion is the version written to the profile document.
const DocumentVersion = 1

const filePerm = 0o600

type document struct {
	Version  int                    `yaml:"version"`
	Profiles []types.NetworkProfile `yaml:"profiles"`
}

// rawDocument keeps the entries as nodes so that one bad entry does not
// reject the whole file.
type rawDocument struct {
	Version  int         `yaml:"version"`
	Profiles []yaml.Node `yaml:"profiles"`
}

// Store holds the profile mapping in memory and writes it to path on Save.
// Every method is safe for concurrent use.
type Store struct {
	mu       sync.Mutex
	path     string
	files    port.FileManager
	profiles map[string]types.NetworkProfile
	newID    func() string
}

// New creates an empty store backed by the document at path.
func New(path string, files port.FileManager) *Store {
	return &Store{
		path:     path,
		files:    files,
		profiles: make(map[string]types.NetworkProfile),
		newID:    func() string { return uuid.NewString() },
	}
}

// Path returns the document path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the document, replaces the in-memory mapping with it and returns
// a copy. A missing document is an empty mapping.
func (s *Store) Load() (map[string]types.NetworkProfile, error) {
	profiles, err := s.read()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = profiles
	return cloneMap(profiles), nil
}

func (s *Store) read() (map[string]types.NetworkProfile, error) {
	logger := logging.WithComponent("store")
	profiles := make(map[string]types.NetworkProfile)

	if !s.files.FileExists(s.path) {
		logger.WithField("path", s.path).Debug("Profile document does not exist, starting empty")
		return profiles, nil
	}

	data, err := s.files.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to load profiles: %w", err)
	}

	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse profile document %s: %w", s.path, err)
	}
	if raw.Version > DocumentVersion {
		logger.WithField("version", raw.Version).Warn("Profile document is newer than this program, unknown fields are ignored")
	}

	names := make(map[string]string)
	for i := range raw.Profiles {
		var p types.NetworkProfile
		if err := raw.Profiles[i].Decode(&p); err != nil {
			logger.WithField("line", raw.Profiles[i].Line).WithError(err).Warn("Skipping unreadable profile entry")
			continue
		}
		inferMode(&p)

		valid, err := p.Validate()
		if err != nil {
			logger.WithField("line", raw.Profiles[i].Line).WithError(err).Warn("Skipping invalid profile entry")
			continue
		}
		if valid.ID == "" {
			valid.ID = s.newID()
			logger.WithField("profile", valid.Name).Warn("Profile entry has no id, assigned a new one")
		}
		if old, ok := profiles[valid.ID]; ok {
			logger.WithField("profile", valid.ID).Warn("Duplicate profile id, keeping the last entry")
			delete(names, strings.ToLower(old.Name))
		}
		if owner, ok := names[strings.ToLower(valid.Name)]; ok && owner != valid.ID {
			logger.WithField("profile", valid.Name).Warn("Skipping profile with a duplicate name")
			continue
		}

		profiles[valid.ID] = valid
		names[strings.ToLower(valid.Name)] = valid.ID
	}

	return profiles, nil
}

// inferMode fills a missing mode from the presence of a static block.
func inferMode(p *types.NetworkProfile) {
	if p.Mode != "" {
		return
	}
	if p.Static != nil {
		p.Mode = types.ModeStatic
	} else {
		p.Mode = types.ModeDHCP
	}
}

// Save atomically overwrites the document with profiles, sorted by id, and
// adopts them as the in-memory mapping. Nothing is written unless every
// profile is valid, is keyed by its own id and has a unique name.
func (s *Store) Save(profiles map[string]types.NetworkProfile) error {
	valid, err := checkMapping(profiles)
	if err != nil {
		return err
	}

	data, err := encode(valid)
	if err != nil {
		return err
	}
	if err := s.files.WriteFile(s.path, data, filePerm); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = valid
	logging.WithComponent("store").WithField("count", len(valid)).Debug("Profiles saved")
	return nil
}

// checkMapping validates every profile of a mapping about to be written and
// returns the normalized copies.
func checkMapping(profiles map[string]types.NetworkProfile) (map[string]types.NetworkProfile, error) {
	out := make(map[string]types.NetworkProfile, len(profiles))
	names := make(map[string]string, len(profiles))

	for id, p := range profiles {
		if id == "" || p.ID != id {
			return nil, types.NewValidationError(fmt.Sprintf("profile %q is stored under id %q", p.ID, id), nil)
		}
		valid, err := p.Validate()
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(valid.Name)
		if owner, ok := names[key]; ok && owner != id {
			return nil, types.NewDuplicateNameError(valid.Name)
		}
		names[key] = id
		out[id] = valid.Clone()
	}
	return out, nil
}

// Persist writes the current in-memory mapping.
func (s *Store) Persist() error {
	s.mu.Lock()
	profiles := cloneMap(s.profiles)
	s.mu.Unlock()
	return s.Save(profiles)
}

func encode(profiles map[string]types.NetworkProfile) ([]byte, error) {
	doc := document{Version: DocumentVersion, Profiles: make([]types.NetworkProfile, 0, len(profiles))}
	for _, p := range profiles {
		doc.Profiles = append(doc.Profiles, p)
	}
	sort.Slice(doc.Profiles, func(i, j int) bool { return doc.Profiles[i].ID < doc.Profiles[j].ID })

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode profiles: %w", err)
	}
	return buf.Bytes(), nil
}

// Create validates p, assigns it a fresh id and adds it to the mapping.
func (s *Store) Create(p types.NetworkProfile) (types.NetworkProfile, error) {
	valid, err := p.Validate()
	if err != nil {
		return types.NetworkProfile{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(valid.Name, "") {
		return types.NetworkProfile{}, types.NewDuplicateNameError(valid.Name)
	}
	valid.ID = s.newID()
	s.profiles[valid.ID] = valid
	return valid.Clone(), nil
}

// Update replaces every field of the profile with the given id except the id.
func (s *Store) Update(id string, p types.NetworkProfile) (types.NetworkProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.update(id, p)
}

func (s *Store) update(id string, p types.NetworkProfile) (types.NetworkProfile, error) {
	valid, err := p.Validate()
	if err != nil {
		return types.NetworkProfile{}, err
	}
	if _, ok := s.profiles[id]; !ok {
		return types.NetworkProfile{}, notFound(id)
	}
	if s.nameTaken(valid.Name, id) {
		return types.NetworkProfile{}, types.NewDuplicateNameError(valid.Name)
	}
	valid.ID = id
	s.profiles[id] = valid
	return valid.Clone(), nil
}

// Rename changes only the name of a profile.
func (s *Store) Rename(id, name string) (types.NetworkProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.profiles[id]
	if !ok {
		return types.NetworkProfile{}, notFound(id)
	}
	current = current.Clone()
	current.Name = name
	return s.update(id, current)
}

// Delete removes a profile from the mapping.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.profiles[id]; !ok {
		return notFound(id)
	}
	delete(s.profiles, id)
	return nil
}

// Get returns the profile with the given id.
func (s *Store) Get(id string) (types.NetworkProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return types.NetworkProfile{}, notFound(id)
	}
	return p.Clone(), nil
}

// FindByName returns the profile whose name matches case-insensitively.
func (s *Store) FindByName(name string) (types.NetworkProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.byName(name); ok {
		return p.Clone(), nil
	}
	return types.NetworkProfile{}, types.NewNotFoundError(fmt.Sprintf("no profile named %q", name))
}

// Resolve looks a reference up as an id first, then as a name.
func (s *Store) Resolve(ref string) (types.NetworkProfile, error) {
	ref = strings.TrimSpace(ref)

	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.profiles[ref]; ok {
		return p.Clone(), nil
	}
	if p, ok := s.byName(ref); ok {
		return p.Clone(), nil
	}
	return types.NetworkProfile{}, types.NewNotFoundError(fmt.Sprintf("no profile with id or name %q", ref))
}

// Profiles returns every profile sorted by name.
func (s *Store) Profiles() []types.NetworkProfile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.NetworkProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a == b {
			return out[i].ID < out[j].ID
		}
		return a < b
	})
	return out
}

func (s *Store) byName(name string) (types.NetworkProfile, bool) {
	name = strings.TrimSpace(name)
	for _, p := range s.profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return types.NetworkProfile{}, false
}

func (s *Store) nameTaken(name, exceptID string) bool {
	p, ok := s.byName(name)
	return ok && p.ID != exceptID
}

func notFound(id string) error {
	return types.NewNotFoundError(fmt.Sprintf("no profile with id %q", id))
}

func cloneMap(in map[string]types.NetworkProfile) map[string]types.NetworkProfile {
	out := make(map[string]types.NetworkProfile, len(in))
	for id, p := range in {
		out[id] = p.Clone()
	}
	return out
}
