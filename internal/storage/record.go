package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
)

// Recorder stores mutable records under store-assigned integer identities.
// Insert allocates the identity; Save writes a record at a caller-chosen
// identity whether or not it already exists.
type Recorder[T ValidatingSpec] interface {
	Insert(T) (int, error)
	Save(int, T) error
	Update(int, T) error
	Delete(int) error
	Get(int) T
	GetAll() map[int]T
}

// Record wraps a spec with its assigned identity, mirroring Asset for
// keyed specs.
type Record[T ValidatingSpec] struct {
	Version uint `json:"version"`
	Id      int  `json:"id"`
	Spec    T    `json:"spec"`
}

func (r *Record[T]) Validate() error {
	if r.Id <= 0 {
		return fmt.Errorf("record id must be positive")
	}
	return r.Spec.Validate()
}

// FileRecordStore persists records as one json file per identity. Identities
// are allocated from the highest identity seen at load, so they survive
// restarts without any process-wide counter.
type FileRecordStore[T ValidatingSpec] struct {
	path    string
	records map[int]T
	nextId  int

	mu sync.RWMutex
}

func NewFileRecordStore[T ValidatingSpec](path string) (*FileRecordStore[T], error) {
	s := &FileRecordStore[T]{
		path:    path,
		records: map[int]T{},
		nextId:  1,
	}

	err := s.load()
	if err != nil {
		return nil, err
	}

	return s, nil
}

func (s *FileRecordStore[T]) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = map[int]T{}
	s.nextId = 1

	err := filepath.Walk(s.path, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if info.IsDir() || filepath.Ext(path) != ".json" {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		var rec Record[T]
		err = json.Unmarshal(data, &rec)
		if err != nil {
			return fmt.Errorf("unmarshalling record %s: %w", filepath.Base(path), err)
		}

		err = rec.Validate()
		if err != nil {
			return fmt.Errorf("validating %s: %w", filepath.Base(path), err)
		}

		if _, ok := s.records[rec.Id]; ok {
			return fmt.Errorf("duplicate record id detected: %d", rec.Id)
		}

		s.records[rec.Id] = rec.Spec
		if rec.Id >= s.nextId {
			s.nextId = rec.Id + 1
		}

		return nil
	})

	return err
}

// Insert validates and persists a new record, returning its assigned id.
func (s *FileRecordStore[T]) Insert(o T) (int, error) {
	if err := o.Validate(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextId
	if err := s.write(id, o); err != nil {
		return 0, err
	}

	s.nextId++
	s.records[id] = o
	return id, nil
}

// Save writes a record at the given id, creating it if necessary.
func (s *FileRecordStore[T]) Save(id int, o T) error {
	if id <= 0 {
		return fmt.Errorf("record id must be positive")
	}
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.write(id, o); err != nil {
		return err
	}

	s.records[id] = o
	if id >= s.nextId {
		s.nextId = id + 1
	}
	return nil
}

// Update rewrites an existing record. It fails if the id is unknown.
func (s *FileRecordStore[T]) Update(id int, o T) error {
	if err := o.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return fmt.Errorf("record %d not found", id)
	}

	if err := s.write(id, o); err != nil {
		return err
	}

	s.records[id] = o
	return nil
}

// Delete removes a record. Deleting an unknown id is a no-op.
func (s *FileRecordStore[T]) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[id]; !ok {
		return nil
	}

	err := os.Remove(s.filePath(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing record file: %w", err)
	}

	delete(s.records, id)
	return nil
}

func (s *FileRecordStore[T]) Get(id int) T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	val, ok := s.records[id]
	if !ok {
		var nilVal T
		return nilVal
	}

	return val
}

func (s *FileRecordStore[T]) GetAll() map[int]T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vals := map[int]T{}
	for id, v := range s.records {
		vals[id] = v
	}

	return vals
}

// write must be called with the lock held.
func (s *FileRecordStore[T]) write(id int, o T) error {
	rec := &Record[T]{
		Version: 1,
		Id:      id,
		Spec:    o,
	}

	jsonData, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling json: %w", err)
	}

	return atomicWrite(s.filePath(id), jsonData, 0644)
}

func (s *FileRecordStore[T]) filePath(id int) string {
	return filepath.Join(s.path, strconv.Itoa(id)+".json")
}
