package catcache

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// FileStore keeps the cache as a flat JSON object on disk. A missing or
// malformed file loads as an empty cache; the run continues either way.
type FileStore struct {
	path  string
	cache map[string]string
	log   zerolog.Logger
}

// NewFileStore loads the cache at path.
func NewFileStore(path string, log zerolog.Logger) *FileStore {
	s := &FileStore{
		path:  path,
		cache: make(map[string]string),
		log:   log,
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("Failed to read category cache, starting empty")
		}
		return s
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Malformed category cache, starting empty")
		s.cache = make(map[string]string)
		return s
	}

	log.Info().Int("entries", len(s.cache)).Msg("Loaded category cache")
	return s
}

func (s *FileStore) Get(key string) (string, bool) {
	category, ok := s.cache[key]
	return category, ok
}

func (s *FileStore) Put(key, category string) {
	s.cache[key] = category
}

func (s *FileStore) Flush() error {
	data, err := json.MarshalIndent(s.cache, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal category cache: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write category cache %q: %w", s.path, err)
	}
	return nil
}
