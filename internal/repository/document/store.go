// Package document stores the whole application state as one indented JSON
// document on local disk. Every operation loads the document, applies the
// change and rewrites it through a temporary file and rename, so a crash
// never leaves a half-written state file. A mutex serializes operations
// within the process.
package document

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

// State is the persisted document
type State struct {
	Clients  map[string]*models.Client  `json:"clients"`
	Projects map[string]*models.Project `json:"projects"`
}

// Store is a file-backed implementation of the client and project repositories
type Store struct {
	path string
	mu   sync.Mutex
	log  zerolog.Logger
}

// New creates a Store backed by the file at path. The file is created on the first write.
func New(path string, log zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	s := &Store{
		path: path,
		log:  log.With().Str("component", "document_store").Logger(),
	}

	// Fail fast on an unreadable document
	if _, err := s.load(); err != nil {
		return nil, err
	}

	s.log.Info().Str("path", path).Msg("Document store opened")
	return s, nil
}

// Repositories exposes the store through the repository interfaces
func (s *Store) Repositories() *repository.Repositories {
	return &repository.Repositories{
		Client:  &clientRepo{s},
		Project: &projectRepo{s},
	}
}

func (s *Store) load() (*State, error) {
	state := &State{}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		data = nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if len(data) > 0 {
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("failed to decode state file: %w", err)
		}
	}

	if state.Clients == nil {
		state.Clients = make(map[string]*models.Client)
	}
	if state.Projects == nil {
		state.Projects = make(map[string]*models.Project)
	}
	for name, p := range state.Projects {
		if p == nil {
			p = &models.Project{}
			state.Projects[name] = p
		}
		p.Name = name
	}
	return state, nil
}

func (s *Store) save(state *State) error {
	data, err := json.MarshalIndent(state, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close state file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}

// view runs fn against a freshly loaded state without writing it back
func (s *Store) view(ctx context.Context, fn func(state *State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	return fn(state)
}

// update runs fn against a freshly loaded state and persists it when fn succeeds
func (s *Store) update(ctx context.Context, fn func(state *State) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.load()
	if err != nil {
		return err
	}
	if err := fn(state); err != nil {
		return err
	}
	return s.save(state)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func copyEntries(entries []models.CalendarEntry) []models.CalendarEntry {
	out := make([]models.CalendarEntry, len(entries))
	copy(out, entries)
	return out
}

// clientRepo adapts Store to repository.ClientRepository
type clientRepo struct{ s *Store }

var _ repository.ClientRepository = (*clientRepo)(nil)

func (r *clientRepo) Create(ctx context.Context, client *models.Client, project *models.Project) error {
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}
	return r.s.update(ctx, func(state *State) error {
		if _, ok := state.Clients[client.CompanyName]; ok {
			return fmt.Errorf("client %q: %w", client.CompanyName, repository.ErrAlreadyExists)
		}
		c := *client
		state.Clients[client.CompanyName] = &c
		state.Projects[client.CompanyName] = &models.Project{
			Name:            client.CompanyName,
			CalendarEntries: copyEntries(project.Entries()),
		}
		return nil
	})
}

func (r *clientRepo) GetByName(ctx context.Context, name string) (*models.Client, error) {
	var found *models.Client
	err := r.s.view(ctx, func(state *State) error {
		found = state.Clients[name]
		return nil
	})
	return found, err
}

func (r *clientRepo) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.s.view(ctx, func(state *State) error {
		names = sortedKeys(state.Clients)
		return nil
	})
	return names, err
}

// projectRepo adapts Store to repository.ProjectRepository
type projectRepo struct{ s *Store }

var _ repository.ProjectRepository = (*projectRepo)(nil)

func (r *projectRepo) Create(ctx context.Context, name string) error {
	return r.s.update(ctx, func(state *State) error {
		if _, ok := state.Projects[name]; ok {
			return fmt.Errorf("project %q: %w", name, repository.ErrAlreadyExists)
		}
		state.Projects[name] = &models.Project{Name: name, CalendarEntries: []models.CalendarEntry{}}
		return nil
	})
}

func (r *projectRepo) GetByName(ctx context.Context, name string) (*models.Project, error) {
	var found *models.Project
	err := r.s.view(ctx, func(state *State) error {
		if p, ok := state.Projects[name]; ok {
			found = &models.Project{Name: name, CalendarEntries: copyEntries(p.Entries())}
		}
		return nil
	})
	return found, err
}

func (r *projectRepo) ListNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.s.view(ctx, func(state *State) error {
		names = sortedKeys(state.Projects)
		return nil
	})
	return names, err
}

func (r *projectRepo) ReplaceEntries(ctx context.Context, name string, entries []models.CalendarEntry) error {
	return r.mutate(ctx, name, true, func([]models.CalendarEntry) ([]models.CalendarEntry, error) {
		return copyEntries(entries), nil
	})
}

func (r *projectRepo) AppendEntries(ctx context.Context, name string, entries ...models.CalendarEntry) error {
	return r.mutate(ctx, name, true, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		return append(current, entries...), nil
	})
}

func (r *projectRepo) UpdateEntry(ctx context.Context, name string, index int, entry models.CalendarEntry) error {
	return r.mutate(ctx, name, false, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		if index < 0 || index >= len(current) {
			return nil, repository.ErrIndexOutOfRange
		}
		current[index] = entry
		return current, nil
	})
}

func (r *projectRepo) DeleteEntry(ctx context.Context, name string, index int) error {
	return r.mutate(ctx, name, false, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		if index < 0 || index >= len(current) {
			return nil, repository.ErrIndexOutOfRange
		}
		return append(current[:index], current[index+1:]...), nil
	})
}

func (r *projectRepo) Delete(ctx context.Context, name string) error {
	return r.s.update(ctx, func(state *State) error {
		_, hasProject := state.Projects[name]
		_, hasClient := state.Clients[name]
		if !hasProject && !hasClient {
			return fmt.Errorf("project %q: %w", name, repository.ErrNotFound)
		}
		delete(state.Projects, name)
		delete(state.Clients, name)
		return nil
	})
}

func (r *projectRepo) mutate(ctx context.Context, name string, create bool,
	fn func(current []models.CalendarEntry) ([]models.CalendarEntry, error)) error {
	return r.s.update(ctx, func(state *State) error {
		p, ok := state.Projects[name]
		if !ok {
			if !create {
				return fmt.Errorf("project %q: %w", name, repository.ErrNotFound)
			}
			p = &models.Project{Name: name}
			state.Projects[name] = p
		}

		updated, err := fn(copyEntries(p.Entries()))
		if err != nil {
			return err
		}
		if updated == nil {
			updated = []models.CalendarEntry{}
		}
		p.CalendarEntries = updated
		return nil
	})
}
