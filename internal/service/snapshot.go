package service

import (
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

// Snapshot is the read-only set of collections one filtering pass works on.
// Treat it as immutable once built: Version is computed once and cached.
type Snapshot struct {
	Assignments  []models.Assignment
	Rooms        []models.Room
	Blocks       []models.TimeBlock
	Teachers     []models.Teacher
	Availability []models.TeacherAvailability
	Subjects     []models.Subject

	versionOnce sync.Once
	version     string
}

// Version digests the snapshot contents; equal contents yield equal versions.
func (s *Snapshot) Version() string {
	if s == nil {
		return ""
	}
	s.versionOnce.Do(func() {
		digest := xxhash.New()
		enc := json.NewEncoder(digest)
		sections := []struct {
			name string
			data interface{}
		}{
			{"assignments", s.Assignments},
			{"rooms", s.Rooms},
			{"blocks", s.Blocks},
			{"teachers", s.Teachers},
			{"availability", s.Availability},
			{"subjects", s.Subjects},
		}
		for _, section := range sections {
			_, _ = digest.WriteString(section.name)
			// encoding plain structs and slices cannot fail
			_ = enc.Encode(section.data)
		}
		s.version = hex.EncodeToString(digest.Sum(nil))
	})
	return s.version
}

// Subject finds a subject definition by id.
func (s *Snapshot) Subject(id int64) (*models.Subject, bool) {
	if s == nil || id == 0 {
		return nil, false
	}
	for i := range s.Subjects {
		if s.Subjects[i].ID == id {
			return &s.Subjects[i], true
		}
	}
	return nil, false
}

// Block finds a time block definition by id.
func (s *Snapshot) Block(id int64) (*models.TimeBlock, bool) {
	if s == nil || id == 0 {
		return nil, false
	}
	for i := range s.Blocks {
		if s.Blocks[i].ID == id {
			return &s.Blocks[i], true
		}
	}
	return nil, false
}
