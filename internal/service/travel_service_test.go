package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/minsu-dev/eduops/internal/geo"
	"github.com/minsu-dev/eduops/internal/model"
)

type fakeInstructors struct {
	byID map[uuid.UUID]*model.Instructor
}

func (f *fakeInstructors) GetByID(_ context.Context, id uuid.UUID) (*model.Instructor, error) {
	instructor, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return instructor, nil
}

type fakeInstitutions struct {
	byID map[uuid.UUID]*model.Institution
}

func (f *fakeInstitutions) GetByID(_ context.Context, id uuid.UUID) (*model.Institution, error) {
	institution, ok := f.byID[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return institution, nil
}

type fakeSchedules struct {
	entries []model.TrainingPeriod
}

func (f *fakeSchedules) ListForInstructorAndDate(_ context.Context, instructorID uuid.UUID, date time.Time) ([]model.TrainingPeriod, error) {
	var out []model.TrainingPeriod
	for _, e := range f.entries {
		if e.InstructorID == instructorID && e.PeriodDate.Equal(date) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakePolicies struct {
	policies []model.TravelPolicy
}

func (f *fakePolicies) ListActiveForDate(_ context.Context, _ time.Time) ([]model.TravelPolicy, error) {
	return f.policies, nil
}

type fakeRecords struct {
	byKey     map[string]*model.DailyTravelRecord
	saveCalls int
}

func newFakeRecords() *fakeRecords {
	return &fakeRecords{byKey: make(map[string]*model.DailyTravelRecord)}
}

func recordKey(instructorID uuid.UUID, date time.Time) string {
	return instructorID.String() + "@" + date.Format("2006-01-02")
}

func (f *fakeRecords) FindByInstructorAndDate(_ context.Context, instructorID uuid.UUID, date time.Time) (*model.DailyTravelRecord, error) {
	record, ok := f.byKey[recordKey(instructorID, date)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return record, nil
}

func (f *fakeRecords) Save(_ context.Context, record *model.DailyTravelRecord) (*model.DailyTravelRecord, error) {
	f.saveCalls++
	stored := *record
	key := recordKey(record.InstructorID, record.TravelDate)
	if prev, ok := f.byKey[key]; ok {
		stored.ID = prev.ID
	} else {
		stored.ID = uuid.New()
	}
	f.byKey[key] = &stored
	return &stored, nil
}

func (f *fakeRecords) ListByInstructorAndDateRange(_ context.Context, instructorID uuid.UUID, from, to time.Time) ([]model.DailyTravelRecord, error) {
	var out []model.DailyTravelRecord
	for _, r := range f.byKey {
		if r.InstructorID == instructorID && !r.TravelDate.Before(from) && !r.TravelDate.After(to) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecords) ListByInstructorAndMonth(_ context.Context, instructorID uuid.UUID, month string) ([]model.DailyTravelRecord, error) {
	var out []model.DailyTravelRecord
	for _, r := range f.byKey {
		if r.InstructorID == instructorID && r.WorkMonth == month {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRecords) SumFinalFeesForMonth(_ context.Context, instructorID uuid.UUID, month string) (int64, error) {
	var total int64
	for _, r := range f.byKey {
		if r.InstructorID == instructorID && r.WorkMonth == month && r.Status == model.TravelStatusFinal {
			total += r.TravelFeeAmountKrw
		}
	}
	return total, nil
}

type fakeSnapshots struct {
	url   string
	err   error
	calls int
}

func (f *fakeSnapshots) Generate(_ context.Context, _ geo.Coordinate, _ string, _ []geo.Coordinate, _ bool) (string, error) {
	f.calls++
	return f.url, f.err
}

type fixture struct {
	instructors  *fakeInstructors
	institutions *fakeInstitutions
	schedules    *fakeSchedules
	policies     *fakePolicies
	records      *fakeRecords
	snapshots    *fakeSnapshots
	service      *TravelService

	instructor  *model.Instructor
	institution *model.Institution
}

func f64(v float64) *float64 { return &v }

func str(v string) *string { return &v }

func newFixture() *fixture {
	instructor := &model.Instructor{
		ID:            uuid.New(),
		Name:          "김지수",
		HomeAddress:   str("서울특별시 강남구 테헤란로 1"),
		HomeLatitude:  f64(37.5),
		HomeLongitude: f64(127.0),
		IsActive:      true,
	}
	institution := &model.Institution{
		ID:        uuid.New(),
		Name:      "송파중학교",
		Address:   str("서울특별시 송파구 올림픽로 10"),
		Latitude:  f64(37.6),
		Longitude: f64(127.1),
		IsActive:  true,
	}

	fx := &fixture{
		instructors:  &fakeInstructors{byID: map[uuid.UUID]*model.Instructor{instructor.ID: instructor}},
		institutions: &fakeInstitutions{byID: map[uuid.UUID]*model.Institution{institution.ID: institution}},
		schedules:    &fakeSchedules{},
		policies:     &fakePolicies{policies: []model.TravelPolicy{{MinKm: 0, AmountKrw: 8000, IsActive: true}}},
		records:      newFakeRecords(),
		snapshots:    &fakeSnapshots{url: "https://maps.example.com/route/1.png"},
		instructor:   instructor,
		institution:  institution,
	}
	fx.service = NewTravelService(
		fx.instructors,
		fx.institutions,
		fx.schedules,
		fx.policies,
		fx.records,
		fx.snapshots,
		zerolog.Nop(),
	)
	return fx
}

func (fx *fixture) addSchedule(institutionID uuid.UUID, day time.Time, startHour int) {
	fx.schedules.entries = append(fx.schedules.entries, model.TrainingPeriod{
		ID:            uuid.New(),
		TrainingID:    uuid.New(),
		InstructorID:  fx.instructor.ID,
		InstitutionID: institutionID,
		PeriodDate:    day,
		StartAt:       day.Add(time.Duration(startHour) * time.Hour),
		EndAt:         day.Add(time.Duration(startHour+2) * time.Hour),
	})
}

func TestRecalculateEmptyScheduleDay(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)

	record, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if record.TotalDistanceKm != 0 {
		t.Fatalf("distance = %.2f, want 0", record.TotalDistanceKm)
	}
	if record.TravelFeeAmountKrw != 0 {
		t.Fatalf("fee = %d, want 0", record.TravelFeeAmountKrw)
	}
	if record.Status != model.TravelStatusDraft {
		t.Fatalf("status = %s, want DRAFT", record.Status)
	}
	if len(record.Waypoints) != 0 {
		t.Fatalf("waypoints = %d, want 0", len(record.Waypoints))
	}
	if record.WorkMonth != "2026-03" {
		t.Fatalf("work month = %q, want 2026-03", record.WorkMonth)
	}
	if fx.snapshots.calls != 0 {
		t.Fatalf("snapshot calls = %d, want 0", fx.snapshots.calls)
	}
	if fx.records.saveCalls != 1 {
		t.Fatalf("save calls = %d, want 1", fx.records.saveCalls)
	}
}

func TestRecalculateRoundTrip(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)
	fx.addSchedule(fx.institution.ID, day, 9)

	record, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(record.Waypoints) != 3 {
		t.Fatalf("waypoints = %d, want 3", len(record.Waypoints))
	}
	if !record.Waypoints[0].IsHome || !record.Waypoints[2].IsHome {
		t.Fatalf("route must start and end at home")
	}
	if record.Waypoints[1].Name != fx.institution.Name {
		t.Fatalf("middle stop = %q, want %q", record.Waypoints[1].Name, fx.institution.Name)
	}
	for i, wp := range record.Waypoints {
		if wp.Seq != i {
			t.Fatalf("waypoint %d has seq %d", i, wp.Seq)
		}
	}

	// Home to institution is roughly 14.2 km, so the round trip lands
	// just above 28 km.
	if record.TotalDistanceKm < 28 || record.TotalDistanceKm > 29 {
		t.Fatalf("distance = %.2f, want ~28.4", record.TotalDistanceKm)
	}
	if record.TravelFeeAmountKrw != 8000 {
		t.Fatalf("fee = %d, want 8000", record.TravelFeeAmountKrw)
	}
	if record.Status != model.TravelStatusFinal {
		t.Fatalf("status = %s, want FINAL", record.Status)
	}
	if record.SnapshotURL == nil || *record.SnapshotURL != fx.snapshots.url {
		t.Fatalf("snapshot url = %v, want %q", record.SnapshotURL, fx.snapshots.url)
	}
}

func TestRecalculateSnapshotFailureKeepsDraft(t *testing.T) {
	fx := newFixture()
	fx.snapshots.err = errors.New("map provider unavailable")
	day := date(2026, 3, 2)
	fx.addSchedule(fx.institution.ID, day, 9)

	record, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("snapshot failure must not fail recompute: %v", err)
	}

	if record.Status != model.TravelStatusDraft {
		t.Fatalf("status = %s, want DRAFT", record.Status)
	}
	if record.SnapshotURL != nil {
		t.Fatalf("snapshot url = %q, want nil", *record.SnapshotURL)
	}
	if record.TravelFeeAmountKrw != 8000 {
		t.Fatalf("fee = %d, want 8000", record.TravelFeeAmountKrw)
	}
}

func TestRecalculateNoPolicyPreservesPriorRecord(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)
	fx.addSchedule(fx.institution.ID, day, 9)

	prior, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A later policy change leaves the new distance uncovered.
	fx.policies.policies = []model.TravelPolicy{{MinKm: 100, AmountKrw: 20000, IsActive: true}}
	saveCallsBefore := fx.records.saveCalls

	_, err = fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if !errors.Is(err, ErrPolicyNotFound) {
		t.Fatalf("error = %v, want ErrPolicyNotFound", err)
	}
	if fx.records.saveCalls != saveCallsBefore {
		t.Fatalf("failed match must not write, save calls went %d -> %d", saveCallsBefore, fx.records.saveCalls)
	}

	kept, err := fx.records.FindByInstructorAndDate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("prior record lost: %v", err)
	}
	if kept.ID != prior.ID || kept.TravelFeeAmountKrw != prior.TravelFeeAmountKrw {
		t.Fatalf("prior record changed: %+v", kept)
	}
}

func TestRecalculateMissingHomePreconditions(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)
	fx.addSchedule(fx.institution.ID, day, 9)

	fx.instructor.HomeAddress = nil
	_, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("error = %v, want ErrPreconditionFailed", err)
	}
	if !strings.Contains(err.Error(), "home address") {
		t.Fatalf("error %q should name the missing address", err)
	}

	fx.instructor.HomeAddress = str("서울특별시 강남구 테헤란로 1")
	fx.instructor.HomeLatitude = nil
	_, err = fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if !errors.Is(err, ErrPreconditionFailed) {
		t.Fatalf("error = %v, want ErrPreconditionFailed", err)
	}
	if !strings.Contains(err.Error(), "home coordinates") {
		t.Fatalf("error %q should name the missing coordinates", err)
	}

	if fx.records.saveCalls != 0 {
		t.Fatalf("save calls = %d, want 0", fx.records.saveCalls)
	}
}

func TestRecalculateUnknownInstructor(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.Recalculate(context.Background(), uuid.New(), date(2026, 3, 2))
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestRecalculateSkipsInstitutionsWithoutCoordinates(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)

	unmapped := &model.Institution{
		ID:       uuid.New(),
		Name:     "좌표 미등록 기관",
		IsActive: true,
	}
	fx.institutions.byID[unmapped.ID] = unmapped

	fx.addSchedule(unmapped.ID, day, 9)
	fx.addSchedule(fx.institution.ID, day, 13)

	record, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(record.Waypoints) != 3 {
		t.Fatalf("waypoints = %d, want 3 (unmapped stop skipped)", len(record.Waypoints))
	}
	if record.Waypoints[1].Name != fx.institution.Name {
		t.Fatalf("middle stop = %q, want %q", record.Waypoints[1].Name, fx.institution.Name)
	}
}

func TestRecalculateOrdersStopsByStartTime(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)

	second := &model.Institution{
		ID:        uuid.New(),
		Name:      "강동초등학교",
		Latitude:  f64(37.55),
		Longitude: f64(127.15),
		IsActive:  true,
	}
	third := &model.Institution{
		ID:        uuid.New(),
		Name:      "하남고등학교",
		Latitude:  f64(37.54),
		Longitude: f64(127.2),
		IsActive:  true,
	}
	fx.institutions.byID[second.ID] = second
	fx.institutions.byID[third.ID] = third

	// Listed out of order; the two 13:00 blocks must keep their
	// insertion order after the sort.
	fx.addSchedule(second.ID, day, 13)
	fx.addSchedule(fx.institution.ID, day, 9)
	fx.addSchedule(third.ID, day, 13)

	record, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{homeStopName, fx.institution.Name, second.Name, third.Name, homeStopName}
	if len(record.Waypoints) != len(want) {
		t.Fatalf("waypoints = %d, want %d", len(record.Waypoints), len(want))
	}
	for i, name := range want {
		if record.Waypoints[i].Name != name {
			t.Fatalf("stop %d = %q, want %q", i, record.Waypoints[i].Name, name)
		}
	}
}

func TestRecalculateIsIdempotent(t *testing.T) {
	fx := newFixture()
	day := date(2026, 3, 2)
	fx.addSchedule(fx.institution.ID, day, 9)

	first, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fx.service.Recalculate(context.Background(), fx.instructor.ID, day)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if second.ID != first.ID {
		t.Fatalf("recompute must overwrite the same record, got new id %s", second.ID)
	}
	if second.TotalDistanceKm != first.TotalDistanceKm {
		t.Fatalf("distance changed %.2f -> %.2f", first.TotalDistanceKm, second.TotalDistanceKm)
	}
	if second.TravelFeeAmountKrw != first.TravelFeeAmountKrw {
		t.Fatalf("fee changed %d -> %d", first.TravelFeeAmountKrw, second.TravelFeeAmountKrw)
	}
	if len(fx.records.byKey) != 1 {
		t.Fatalf("stored records = %d, want 1", len(fx.records.byKey))
	}
}

func TestGetDailyRecordsValidatesRange(t *testing.T) {
	fx := newFixture()

	_, err := fx.service.GetDailyRecords(context.Background(), fx.instructor.ID, date(2026, 3, 10), date(2026, 3, 1))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("error = %v, want ErrInvalidInput", err)
	}
}

func TestGetMonthlySummaryTotalsFinalOnly(t *testing.T) {
	fx := newFixture()

	finalURL := "https://maps.example.com/route/2.png"
	seed := []*model.DailyTravelRecord{
		{
			InstructorID:       fx.instructor.ID,
			TravelDate:         date(2026, 3, 2),
			WorkMonth:          "2026-03",
			TotalDistanceKm:    28.37,
			TravelFeeAmountKrw: 5000,
			SnapshotURL:        &finalURL,
			Status:             model.TravelStatusFinal,
		},
		{
			InstructorID:       fx.instructor.ID,
			TravelDate:         date(2026, 3, 3),
			WorkMonth:          "2026-03",
			TotalDistanceKm:    12.1,
			TravelFeeAmountKrw: 3000,
			Status:             model.TravelStatusDraft,
		},
	}
	for _, r := range seed {
		if _, err := fx.records.Save(context.Background(), r); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	summary, err := fx.service.GetMonthlySummary(context.Background(), fx.instructor.ID, "2026-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(summary.DailyRecords) != 2 {
		t.Fatalf("daily records = %d, want 2", len(summary.DailyRecords))
	}
	if summary.TotalTravelExpense != 5000 {
		t.Fatalf("total = %d, want 5000 (draft days excluded)", summary.TotalTravelExpense)
	}
}

func TestGetMonthlySummaryRejectsBadMonth(t *testing.T) {
	fx := newFixture()

	for _, month := range []string{"2026-3", "March 2026", "2026/03", ""} {
		_, err := fx.service.GetMonthlySummary(context.Background(), fx.instructor.ID, month)
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("month %q: error = %v, want ErrInvalidInput", month, err)
		}
	}
}
