package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/enrollmate/enrollmate/internal/course"
)

const (
	CoursesKey   = "enrollmate_courses"
	TimestampKey = "enrollmate_timestamp"

	// DefaultFile is the store file name inside the data directory.
	DefaultFile = "storage.json"
)

// ErrEmpty is returned when no batch has been stored yet.
var ErrEmpty = errors.New("no stored courses")

// Batch is the stored course array and the time it was written.
type Batch struct {
	Courses   []course.Record `json:"enrollmate_courses"`
	Timestamp string          `json:"enrollmate_timestamp"`
}

// Storage handles persistence of course batches
type Storage struct {
	dataDir  string
	fileName string
	now      func() time.Time
}

// New creates a Storage rooted at dataDir, creating the directory if needed.
// A leading "~/" is expanded to the user's home directory.
func New(dataDir string) (*Storage, error) {
	return NewFile(dataDir, DefaultFile)
}

// NewFile is like New but keeps the store in the named file.
func NewFile(dataDir, fileName string) (*Storage, error) {
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir:  dataDir,
		fileName: fileName,
		now:      time.Now,
	}, nil
}

// Path returns the location of the storage file.
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, s.fileName)
}

// load reads the raw key/value document. A missing file is an empty store.
func (s *Storage) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]json.RawMessage), nil
		}
		return nil, fmt.Errorf("reading storage: %w", err)
	}

	kv := make(map[string]json.RawMessage)
	if err := json.Unmarshal(data, &kv); err != nil {
		return nil, fmt.Errorf("parsing storage: %w", err)
	}
	return kv, nil
}

// Set stores each value under its key, keeping all other keys.
func (s *Storage) Set(values map[string]interface{}) error {
	kv, err := s.load()
	if err != nil {
		return err
	}

	for k, v := range values {
		raw, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encoding %s: %w", k, err)
		}
		kv[k] = raw
	}

	data, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding storage: %w", err)
	}

	// Write through a temp file so readers never see a half-written store.
	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing storage: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("writing storage: %w", err)
	}
	return nil
}

// SaveCourses stores records as the current batch and returns it.
func (s *Storage) SaveCourses(records []course.Record) (*Batch, error) {
	if records == nil {
		records = []course.Record{}
	}
	batch := &Batch{
		Courses:   records,
		Timestamp: s.now().UTC().Format(time.RFC3339),
	}

	if err := s.Set(map[string]interface{}{
		CoursesKey:   batch.Courses,
		TimestampKey: batch.Timestamp,
	}); err != nil {
		return nil, err
	}
	return batch, nil
}

// LoadCourses returns the current batch, or ErrEmpty if none was stored.
func (s *Storage) LoadCourses() (*Batch, error) {
	kv, err := s.load()
	if err != nil {
		return nil, err
	}

	raw, ok := kv[CoursesKey]
	if !ok {
		return nil, ErrEmpty
	}

	batch := &Batch{}
	if err := json.Unmarshal(raw, &batch.Courses); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", CoursesKey, err)
	}
	if ts, ok := kv[TimestampKey]; ok {
		if err := json.Unmarshal(ts, &batch.Timestamp); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", TimestampKey, err)
		}
	}
	return batch, nil
}

// GetCourseByID retrieves one record from the current batch.
func (s *Storage) GetCourseByID(uniqueID string) (*course.Record, error) {
	batch, err := s.LoadCourses()
	if err != nil {
		return nil, fmt.Errorf("loading courses: %w", err)
	}

	for i := range batch.Courses {
		if batch.Courses[i].UniqueID == uniqueID {
			return &batch.Courses[i], nil
		}
	}
	return nil, fmt.Errorf("course not found: %s", uniqueID)
}
