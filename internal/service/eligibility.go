package service

import "github.com/noah-isme/horario-admin-api/internal/models"

// AvailabilityPolicy selects how missing availability records are read.
// Strict: only an explicit "available" record admits a teacher, and assignments
// and records must also match the block's weekday.
// Lenient: a teacher is admitted unless explicitly marked unavailable, and the
// block id alone identifies the slot.
type AvailabilityPolicy struct {
	Strict bool
}

// CandidateQuery identifies the (subject, block, period) being assigned. Zero means unset.
type CandidateQuery struct {
	SubjectID int64
	BlockID   int64
	PeriodID  int64
}

// Candidates holds eligible teachers and rooms in snapshot order.
type Candidates struct {
	Teachers []models.Teacher `json:"teachers"`
	Rooms    []models.Room    `json:"rooms"`
}

func emptyCandidates() Candidates {
	return Candidates{Teachers: []models.Teacher{}, Rooms: []models.Room{}}
}

// FilterCandidates returns the teachers and rooms that can legally take the
// subject in the block. It never partially evaluates: unset ids, an unknown
// subject or an unknown block yield two empty lists.
func FilterCandidates(q CandidateQuery, snap *Snapshot, policy AvailabilityPolicy) Candidates {
	if snap == nil || q.SubjectID == 0 || q.BlockID == 0 {
		return emptyCandidates()
	}
	subject, ok := snap.Subject(q.SubjectID)
	if !ok {
		return emptyCandidates()
	}
	block, ok := snap.Block(q.BlockID)
	if !ok {
		return emptyCandidates()
	}

	busyTeachers, busyRooms := occupancy(q, block, snap.Assignments, policy)
	available, unavailable := availabilityMarks(q, block, snap.Availability, policy)
	required := toSet(subject.RequiredSpecialtyIDs)

	result := emptyCandidates()
	for _, teacher := range snap.Teachers {
		if _, busy := busyTeachers[teacher.ID]; busy {
			continue
		}
		if _, blocked := unavailable[teacher.ID]; blocked {
			continue
		}
		if _, ok := available[teacher.ID]; policy.Strict && !ok {
			continue
		}
		if len(required) > 0 && !intersects(teacher.SpecialtyIDs, required) {
			continue
		}
		result.Teachers = append(result.Teachers, teacher)
	}

	var roomType int64
	if subject.RequiredRoomTypeID != nil {
		roomType = *subject.RequiredRoomTypeID
	}
	for _, room := range snap.Rooms {
		if _, occupied := busyRooms[room.ID]; occupied {
			continue
		}
		if roomType != 0 && room.RoomTypeID != roomType {
			continue
		}
		result.Rooms = append(result.Rooms, room)
	}

	return result
}

// occupancy collects teachers and rooms already booked in the slot, across all groups.
func occupancy(q CandidateQuery, block *models.TimeBlock, assignments []models.Assignment, policy AvailabilityPolicy) (map[int64]struct{}, map[int64]struct{}) {
	teachers := make(map[int64]struct{})
	rooms := make(map[int64]struct{})
	for _, a := range assignments {
		if a.BlockID != q.BlockID {
			continue
		}
		if q.PeriodID != 0 && a.PeriodID != q.PeriodID {
			continue
		}
		if policy.Strict && a.Weekday != block.Weekday {
			continue
		}
		teachers[a.TeacherID] = struct{}{}
		rooms[a.RoomID] = struct{}{}
	}
	return teachers, rooms
}

// availabilityMarks splits matching records into explicit yes and explicit no.
// A record without weekday matches any weekday.
func availabilityMarks(q CandidateQuery, block *models.TimeBlock, entries []models.TeacherAvailability, policy AvailabilityPolicy) (map[int64]struct{}, map[int64]struct{}) {
	available := make(map[int64]struct{})
	unavailable := make(map[int64]struct{})
	for _, e := range entries {
		if e.BlockID != q.BlockID {
			continue
		}
		if q.PeriodID != 0 && e.PeriodID != q.PeriodID {
			continue
		}
		if policy.Strict && e.Weekday != 0 && e.Weekday != block.Weekday {
			continue
		}
		if e.IsAvailable {
			available[e.TeacherID] = struct{}{}
		} else {
			unavailable[e.TeacherID] = struct{}{}
		}
	}
	return available, unavailable
}

func toSet(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func intersects(ids []int64, set map[int64]struct{}) bool {
	for _, id := range ids {
		if _, ok := set[id]; ok {
			return true
		}
	}
	return false
}
