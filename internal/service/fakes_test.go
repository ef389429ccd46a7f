package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/notify"
	"github.com/vetdesk/vetdesk/internal/observability/metrics"
	"go.uber.org/zap"
)

// In-memory store fakes shared by the service tests.

type fakeAppointmentStore struct {
	mu        sync.Mutex
	byID      map[uuid.UUID]*model.Appointment
	listErr   error
	updateErr error
}

func newFakeAppointmentStore() *fakeAppointmentStore {
	return &fakeAppointmentStore{byID: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentStore) put(a *model.Appointment) *model.Appointment {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	clone := *a
	f.byID[a.ID] = &clone
	return a
}

func (f *fakeAppointmentStore) Create(_ context.Context, a *model.Appointment) error {
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	f.put(a)
	return nil
}

func (f *fakeAppointmentStore) GetByID(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAppointmentStore) ListByClinicDate(_ context.Context, clinicID uuid.UUID, date model.CalendarDate) ([]*model.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.byID {
		if a.ClinicID != clinicID {
			continue
		}
		start, _, ok := a.EffectiveInterval()
		if !ok || model.DateOf(start) != date {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.byID {
		if a.OwnerID == ownerID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.byID {
		if a.ClinicID == clinicID {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) ListByStatus(_ context.Context, status model.AppointmentStatus) ([]*model.Appointment, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Appointment
	for _, a := range f.byID {
		if a.Status == status {
			clone := *a
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (f *fakeAppointmentStore) UpdateStatus(_ context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil
	}
	a.Status = status
	a.UpdatedAt = time.Now()
	return nil
}

func (f *fakeAppointmentStore) UpdateInterval(_ context.Context, id uuid.UUID, date model.CalendarDate, start, end model.TimeOfDay) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.byID[id]
	if !ok {
		return nil
	}
	a.Date = date
	a.StartTime = start
	a.EndTime = end
	a.ScheduledAt = nil
	return nil
}

func (f *fakeAppointmentStore) SetHasReview(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		a.HasReview = true
	}
	return nil
}

type fakeClinicStore struct {
	byID map[uuid.UUID]*model.Clinic
}

func newFakeClinicStore() *fakeClinicStore {
	return &fakeClinicStore{byID: make(map[uuid.UUID]*model.Clinic)}
}

func (f *fakeClinicStore) Create(_ context.Context, clinic *model.Clinic) error {
	clinic.ID = uuid.New()
	clinic.CreatedAt = time.Now()
	f.byID[clinic.ID] = clinic
	return nil
}

func (f *fakeClinicStore) GetByID(_ context.Context, id uuid.UUID) (*model.Clinic, error) {
	return f.byID[id], nil
}

func (f *fakeClinicStore) List(_ context.Context) ([]*model.Clinic, error) {
	var out []*model.Clinic
	for _, c := range f.byID {
		out = append(out, c)
	}
	return out, nil
}

type fakePetStore struct {
	byID map[uuid.UUID]*model.Pet
}

func newFakePetStore() *fakePetStore {
	return &fakePetStore{byID: make(map[uuid.UUID]*model.Pet)}
}

func (f *fakePetStore) Create(_ context.Context, pet *model.Pet) error {
	pet.ID = uuid.New()
	pet.CreatedAt = time.Now()
	f.byID[pet.ID] = pet
	return nil
}

func (f *fakePetStore) GetByID(_ context.Context, id uuid.UUID) (*model.Pet, error) {
	return f.byID[id], nil
}

func (f *fakePetStore) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]*model.Pet, error) {
	var out []*model.Pet
	for _, p := range f.byID {
		if p.OwnerID == ownerID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeWorkingHoursStore struct {
	byClinic map[uuid.UUID]model.WorkingHours
	getErr   error
}

func newFakeWorkingHoursStore() *fakeWorkingHoursStore {
	return &fakeWorkingHoursStore{byClinic: make(map[uuid.UUID]model.WorkingHours)}
}

func (f *fakeWorkingHoursStore) Get(_ context.Context, clinicID uuid.UUID) (*model.WorkingHours, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	hours, ok := f.byClinic[clinicID]
	if !ok {
		return nil, nil
	}
	return &hours, nil
}

func (f *fakeWorkingHoursStore) Upsert(_ context.Context, hours model.WorkingHours) error {
	f.byClinic[hours.ClinicID] = hours
	return nil
}

type fakeReviewStore struct {
	created []*model.Review
}

func (f *fakeReviewStore) Create(_ context.Context, review *model.Review) error {
	review.ID = uuid.New()
	review.CreatedAt = time.Now()
	f.created = append(f.created, review)
	return nil
}

func (f *fakeReviewStore) ListByClinic(_ context.Context, clinicID uuid.UUID) ([]*model.Review, error) {
	var out []*model.Review
	for _, r := range f.created {
		if r.ClinicID == clinicID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeRecordStore struct {
	created []*model.MedicalRecord
}

func (f *fakeRecordStore) Create(_ context.Context, record *model.MedicalRecord) error {
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	f.created = append(f.created, record)
	return nil
}

func (f *fakeRecordStore) ListByPet(_ context.Context, petID uuid.UUID) ([]*model.MedicalRecord, error) {
	var out []*model.MedicalRecord
	for _, r := range f.created {
		if r.PetID == petID {
			out = append(out, r)
		}
	}
	return out, nil
}

// captureSink records emitted events.
type captureSink struct {
	events []notify.Event
	err    error
}

func (s *captureSink) Emit(_ context.Context, event notify.Event) error {
	s.events = append(s.events, event)
	return s.err
}

func (s *captureSink) kinds() []notify.Kind {
	var kinds []notify.Kind
	for _, e := range s.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

func testMetrics() *metrics.BookingMetrics {
	return metrics.NewBookingMetrics(prometheus.NewRegistry())
}

func testLogger() *zap.Logger { return zap.NewNop() }
