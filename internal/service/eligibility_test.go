package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/horario-admin-api/internal/models"
)

func int64Ptr(v int64) *int64 { return &v }

func teacherIDs(items []models.Teacher) []int64 {
	ids := make([]int64, 0, len(items))
	for _, t := range items {
		ids = append(ids, t.ID)
	}
	return ids
}

func roomIDs(items []models.Room) []int64 {
	ids := make([]int64, 0, len(items))
	for _, r := range items {
		ids = append(ids, r.ID)
	}
	return ids
}

// Period 7, block 10 is Monday 08:00, block 11 is Tuesday 08:00.
func eligibilityFixture() *Snapshot {
	return &Snapshot{
		Blocks: []models.TimeBlock{
			{ID: 10, Weekday: 1, StartTime: "08:00:00", EndTime: "09:30:00"},
			{ID: 11, Weekday: 2, StartTime: "08:00:00", EndTime: "09:30:00"},
		},
		Subjects: []models.Subject{
			{ID: 100, Name: "Cálculo", RequiredSpecialtyIDs: []int64{1}},
			{ID: 101, Name: "Química", RequiredSpecialtyIDs: []int64{2, 3}, RequiredRoomTypeID: int64Ptr(9)},
			{ID: 102, Name: "Tutoría"},
		},
		Teachers: []models.Teacher{
			{ID: 1, FirstName: "Ana", SpecialtyIDs: []int64{1}},
			{ID: 2, FirstName: "Beto", SpecialtyIDs: []int64{2}},
			{ID: 3, FirstName: "Carla", SpecialtyIDs: []int64{1, 3}},
			{ID: 4, FirstName: "Dario"},
		},
		Rooms: []models.Room{
			{ID: 50, Name: "A-101", RoomTypeID: 1},
			{ID: 51, Name: "Lab-1", RoomTypeID: 9},
			{ID: 52, Name: "Lab-2", RoomTypeID: 9},
			{ID: 53, Name: "A-102", RoomTypeID: 1},
		},
		Assignments: []models.Assignment{
			{ID: 900, GroupID: 70, SubjectID: 102, TeacherID: 2, RoomID: 52, PeriodID: 7, Weekday: 1, BlockID: 10},
			{ID: 901, GroupID: 71, SubjectID: 100, TeacherID: 3, RoomID: 50, PeriodID: 6, Weekday: 1, BlockID: 10},
		},
		Availability: []models.TeacherAvailability{
			{TeacherID: 1, PeriodID: 7, Weekday: 1, BlockID: 10, IsAvailable: true},
			{TeacherID: 2, PeriodID: 7, Weekday: 1, BlockID: 10, IsAvailable: true},
			{TeacherID: 3, PeriodID: 7, Weekday: 1, BlockID: 10, IsAvailable: true},
			{TeacherID: 4, PeriodID: 7, Weekday: 1, BlockID: 10, IsAvailable: false},
		},
	}
}

func TestFilterCandidatesDegenerateInput(t *testing.T) {
	snap := eligibilityFixture()
	cases := map[string]CandidateQuery{
		"no subject":      {BlockID: 10, PeriodID: 7},
		"no block":        {SubjectID: 100, PeriodID: 7},
		"unknown subject": {SubjectID: 999, BlockID: 10, PeriodID: 7},
		"unknown block":   {SubjectID: 100, BlockID: 999, PeriodID: 7},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			for _, strict := range []bool{true, false} {
				got := FilterCandidates(q, snap, AvailabilityPolicy{Strict: strict})
				assert.NotNil(t, got.Teachers)
				assert.NotNil(t, got.Rooms)
				assert.Empty(t, got.Teachers)
				assert.Empty(t, got.Rooms)
			}
		})
	}

	got := FilterCandidates(CandidateQuery{SubjectID: 100, BlockID: 10}, nil, AvailabilityPolicy{})
	assert.Empty(t, got.Teachers)
	assert.Empty(t, got.Rooms)
}

func TestFilterCandidatesExcludesBusyTeachersAndRooms(t *testing.T) {
	snap := eligibilityFixture()
	got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})

	// teacher 2 and room 52 are booked by another group in period 7
	assert.Equal(t, []int64{1, 3}, teacherIDs(got.Teachers))
	assert.Equal(t, []int64{50, 51, 53}, roomIDs(got.Rooms))
}

func TestFilterCandidatesWithoutPeriodMatchesEveryPeriod(t *testing.T) {
	snap := eligibilityFixture()
	got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10}, snap, AvailabilityPolicy{Strict: false})

	// assignments from periods 6 and 7 both occupy block 10
	assert.Equal(t, []int64{1}, teacherIDs(got.Teachers))
	assert.Equal(t, []int64{51, 53}, roomIDs(got.Rooms))
}

func TestFilterCandidatesSpecialtyGate(t *testing.T) {
	snap := eligibilityFixture()

	got := FilterCandidates(CandidateQuery{SubjectID: 100, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{1, 3}, teacherIDs(got.Teachers))

	got = FilterCandidates(CandidateQuery{SubjectID: 101, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{3}, teacherIDs(got.Teachers), "teacher 2 has specialty 2 but is busy")
	for _, teacher := range got.Teachers {
		assert.True(t, intersects(teacher.SpecialtyIDs, toSet([]int64{2, 3})))
	}
}

func TestFilterCandidatesRoomTypeGate(t *testing.T) {
	snap := eligibilityFixture()
	got := FilterCandidates(CandidateQuery{SubjectID: 101, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})

	require.Len(t, got.Rooms, 1)
	assert.Equal(t, int64(51), got.Rooms[0].ID)
	assert.Equal(t, int64(9), got.Rooms[0].RoomTypeID)
}

func TestFilterCandidatesZeroRoomTypeIsUnconstrained(t *testing.T) {
	snap := eligibilityFixture()
	snap.Subjects[2].RequiredRoomTypeID = int64Ptr(0)
	got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{50, 51, 53}, roomIDs(got.Rooms))
}

func TestFilterCandidatesStrictRequiresExplicitAvailability(t *testing.T) {
	snap := eligibilityFixture()
	snap.Availability = snap.Availability[:1]

	strict := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{1}, teacherIDs(strict.Teachers))

	lenient := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: false})
	assert.Equal(t, []int64{1, 3, 4}, teacherIDs(lenient.Teachers))
}

func TestFilterCandidatesExplicitUnavailableWinsInBothPolicies(t *testing.T) {
	snap := eligibilityFixture()
	snap.Availability = append(snap.Availability, models.TeacherAvailability{TeacherID: 1, PeriodID: 7, Weekday: 1, BlockID: 10, IsAvailable: false})

	for _, strict := range []bool{true, false} {
		got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: strict})
		assert.NotContains(t, teacherIDs(got.Teachers), int64(1))
		assert.NotContains(t, teacherIDs(got.Teachers), int64(4))
	}
}

func TestFilterCandidatesStrictMatchesWeekday(t *testing.T) {
	snap := eligibilityFixture()
	// a stale record for block 10 stamped with the wrong weekday
	snap.Assignments = append(snap.Assignments, models.Assignment{ID: 902, GroupID: 72, TeacherID: 1, RoomID: 53, PeriodID: 7, Weekday: 3, BlockID: 10})
	snap.Availability[2].Weekday = 4

	strict := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{1}, teacherIDs(strict.Teachers), "weekday mismatch neither books teacher 1 nor admits teacher 3")
	assert.Contains(t, roomIDs(strict.Rooms), int64(53))

	lenient := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: false})
	assert.Equal(t, []int64{3}, teacherIDs(lenient.Teachers))
	assert.NotContains(t, roomIDs(lenient.Rooms), int64(53))
}

func TestFilterCandidatesAvailabilityWithoutWeekdayMatches(t *testing.T) {
	snap := eligibilityFixture()
	snap.Availability = []models.TeacherAvailability{{TeacherID: 4, PeriodID: 7, BlockID: 10, IsAvailable: true}}

	got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 10, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, []int64{4}, teacherIDs(got.Teachers))
}

func TestFilterCandidatesOtherBlockIsFree(t *testing.T) {
	snap := eligibilityFixture()
	got := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 11, PeriodID: 7}, snap, AvailabilityPolicy{Strict: false})
	assert.Equal(t, []int64{1, 2, 3, 4}, teacherIDs(got.Teachers))
	assert.Equal(t, []int64{50, 51, 52, 53}, roomIDs(got.Rooms))

	strict := FilterCandidates(CandidateQuery{SubjectID: 102, BlockID: 11, PeriodID: 7}, snap, AvailabilityPolicy{Strict: true})
	assert.Empty(t, strict.Teachers, "nobody declared availability for block 11")
	assert.Len(t, strict.Rooms, 4)
}

func TestFilterCandidatesIsIdempotent(t *testing.T) {
	snap := eligibilityFixture()
	q := CandidateQuery{SubjectID: 100, BlockID: 10, PeriodID: 7}
	first := FilterCandidates(q, snap, AvailabilityPolicy{Strict: true})
	second := FilterCandidates(q, snap, AvailabilityPolicy{Strict: true})
	assert.Equal(t, first, second)
}

func TestFilterCandidatesNeverReturnsBookedResources(t *testing.T) {
	snap := eligibilityFixture()
	for _, subject := range snap.Subjects {
		for _, block := range snap.Blocks {
			for _, strict := range []bool{true, false} {
				q := CandidateQuery{SubjectID: subject.ID, BlockID: block.ID, PeriodID: 7}
				got := FilterCandidates(q, snap, AvailabilityPolicy{Strict: strict})
				for _, a := range snap.Assignments {
					if a.BlockID != block.ID || a.PeriodID != 7 || (strict && a.Weekday != block.Weekday) {
						continue
					}
					assert.NotContains(t, teacherIDs(got.Teachers), a.TeacherID)
					assert.NotContains(t, roomIDs(got.Rooms), a.RoomID)
				}
			}
		}
	}
}

func TestSnapshotVersionTracksContents(t *testing.T) {
	a := eligibilityFixture()
	b := eligibilityFixture()
	assert.Equal(t, a.Version(), b.Version())
	assert.NotEmpty(t, a.Version())

	c := eligibilityFixture()
	c.Assignments = append(c.Assignments, models.Assignment{ID: 903, TeacherID: 1, RoomID: 51, PeriodID: 7, Weekday: 1, BlockID: 10})
	assert.NotEqual(t, a.Version(), c.Version())

	var nilSnap *Snapshot
	assert.Equal(t, "", nilSnap.Version())
}
