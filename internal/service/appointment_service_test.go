package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetdesk/vetdesk/internal/apperr"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/notify"
)

type testEnv struct {
	appointments *fakeAppointmentStore
	clinics      *fakeClinicStore
	pets         *fakePetStore
	sink         *captureSink
	svc          *AppointmentService

	clinicOwnerID uuid.UUID
	ownerID       uuid.UUID
	clinic        *model.Clinic
	pet           *model.Pet
}

// Fixed clock: the morning before the appointments the tests book.
var testNow = time.Date(2026, time.March, 1, 7, 0, 0, 0, time.UTC)

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		appointments:  newFakeAppointmentStore(),
		clinics:       newFakeClinicStore(),
		pets:          newFakePetStore(),
		sink:          &captureSink{},
		clinicOwnerID: uuid.New(),
		ownerID:       uuid.New(),
	}

	env.clinic = &model.Clinic{OwnerUserID: env.clinicOwnerID, Name: "Happy Paws"}
	require.NoError(t, env.clinics.Create(context.Background(), env.clinic))

	env.pet = &model.Pet{OwnerID: env.ownerID, Name: "Rex", Species: "dog"}
	require.NoError(t, env.pets.Create(context.Background(), env.pet))

	checker := NewAvailabilityChecker(env.appointments, testLogger())
	env.svc = NewAppointmentService(env.appointments, env.pets, env.clinics, checker, env.sink, testMetrics(), testLogger()).
		WithClock(func() time.Time { return testNow })

	return env
}

func (e *testEnv) bookRequest(date, start, end string) BookRequest {
	return BookRequest{
		OwnerID:   e.ownerID,
		ClinicID:  e.clinic.ID,
		PetID:     e.pet.ID,
		Date:      model.MustCalendarDate(date),
		StartTime: model.MustTimeOfDay(start),
		EndTime:   model.MustTimeOfDay(end),
		Reason:    "checkup",
		Service:   "general",
	}
}

func (e *testEnv) book(t *testing.T, date, start, end string) *model.Appointment {
	t.Helper()
	appointment, err := e.svc.Book(context.Background(), e.bookRequest(date, start, end))
	require.NoError(t, err)
	return appointment
}

func TestBookCreatesPending(t *testing.T) {
	env := newTestEnv(t)

	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	assert.Equal(t, model.AppointmentStatusPending, appointment.Status)
	assert.NotEqual(t, uuid.Nil, appointment.ID)
	assert.True(t, appointment.SlotBased())

	require.Equal(t, []notify.Kind{notify.KindNewBooking}, env.sink.kinds())
	assert.Equal(t, env.clinicOwnerID, env.sink.events[0].ToUserID)
	assert.Equal(t, "Happy Paws", env.sink.events[0].ClinicName)
	assert.Equal(t, "Rex", env.sink.events[0].PetName)
}

func TestBookValidation(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name string
		req  BookRequest
	}{
		{"start after end", env.bookRequest("2026-03-02", "11:00", "10:00")},
		{"start equals end", env.bookRequest("2026-03-02", "10:00", "10:00")},
		{"in the past", env.bookRequest("2026-02-01", "10:00", "11:00")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Book(context.Background(), tc.req)
			assert.ErrorIs(t, err, apperr.ErrValidation)
		})
	}
}

func TestBookTimeOutOfRange(t *testing.T) {
	env := newTestEnv(t)

	req := env.bookRequest("2026-03-02", "10:00", "11:00")
	req.EndTime = model.TimeOfDay(model.MinutesPerDay + 30)

	_, err := env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBookUnknownClinicAndPet(t *testing.T) {
	env := newTestEnv(t)

	req := env.bookRequest("2026-03-02", "10:00", "11:00")
	req.ClinicID = uuid.New()
	_, err := env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	req = env.bookRequest("2026-03-02", "10:00", "11:00")
	req.PetID = uuid.New()
	_, err = env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestBookRejectsForeignPet(t *testing.T) {
	env := newTestEnv(t)

	stranger := &model.Pet{OwnerID: uuid.New(), Name: "Mittens", Species: "cat"}
	require.NoError(t, env.pets.Create(context.Background(), stranger))

	req := env.bookRequest("2026-03-02", "10:00", "11:00")
	req.PetID = stranger.ID

	_, err := env.svc.Book(context.Background(), req)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestBookConflictsWithPending(t *testing.T) {
	env := newTestEnv(t)
	env.book(t, "2026-03-02", "10:00", "11:00")

	_, err := env.svc.Book(context.Background(), env.bookRequest("2026-03-02", "10:30", "11:30"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	// Adjacent interval is fine.
	_, err = env.svc.Book(context.Background(), env.bookRequest("2026-03-02", "11:00", "12:00"))
	assert.NoError(t, err)
}

func TestApproveConfirms(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	approved, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, approved.Status)

	stored, err := env.appointments.GetByID(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, stored.Status)

	assert.Equal(t, []notify.Kind{notify.KindNewBooking, notify.KindBookingConfirmed}, env.sink.kinds())
	assert.Equal(t, env.ownerID, env.sink.events[1].ToUserID)
}

func TestApproveFirstWins(t *testing.T) {
	env := newTestEnv(t)

	// Two pendings for the same interval can coexist when the first was
	// created before the second's availability check ran. Seed the second
	// directly to simulate that race.
	first := env.book(t, "2026-03-02", "10:00", "11:00")
	second := seedAppointment(t, env.appointments, env.clinic.ID, "2026-03-02", "10:00", "11:00", model.AppointmentStatusPending)

	_, err := env.svc.Approve(context.Background(), first.ID)
	require.ErrorIs(t, err, apperr.ErrConflict, "even the first pending sees the other pending as occupying")

	// Reject the competitor, then approval goes through.
	_, err = env.svc.Reject(context.Background(), second.ID)
	require.NoError(t, err)

	approved, err := env.svc.Approve(context.Background(), first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, approved.Status)
}

func TestApproveRecheckAgainstConfirmed(t *testing.T) {
	env := newTestEnv(t)

	pending := env.book(t, "2026-03-02", "10:00", "11:00")
	seedAppointment(t, env.appointments, env.clinic.ID, "2026-03-02", "10:30", "11:30", model.AppointmentStatusConfirmed)

	_, err := env.svc.Approve(context.Background(), pending.ID)
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, getErr := env.appointments.GetByID(context.Background(), pending.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.AppointmentStatusPending, stored.Status, "a failed approval leaves the appointment pending")
}

func TestApproveRequiresPending(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	_, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	_, err = env.svc.Approve(context.Background(), appointment.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = env.svc.Approve(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRejectSkipsAvailability(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	// A read failure would fail approval open but must not matter here.
	env.appointments.listErr = errors.New("connection reset")

	rejected, err := env.svc.Reject(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusRejected, rejected.Status)

	env.appointments.listErr = nil
	_, err = env.svc.Reject(context.Background(), appointment.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)
}

func TestExtendGrowsInterval(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")
	_, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	extended, err := env.svc.Extend(context.Background(), appointment.ID, model.MustTimeOfDay("11:30"))
	require.NoError(t, err)
	assert.Equal(t, model.MustTimeOfDay("11:30"), extended.EndTime)
	assert.Equal(t, model.MustTimeOfDay("10:00"), extended.StartTime)

	assert.Equal(t, notify.KindAppointmentExtended, env.sink.events[len(env.sink.events)-1].Kind)
}

func TestExtendValidation(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	// Pending appointments cannot be extended.
	_, err := env.svc.Extend(context.Background(), appointment.ID, model.MustTimeOfDay("12:00"))
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	// New end must be strictly later than the current end.
	_, err = env.svc.Extend(context.Background(), appointment.ID, model.MustTimeOfDay("11:00"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
	_, err = env.svc.Extend(context.Background(), appointment.ID, model.MustTimeOfDay("10:30"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestExtendConflict(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")
	_, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	seedAppointment(t, env.appointments, env.clinic.ID, "2026-03-02", "11:00", "12:00", model.AppointmentStatusConfirmed)

	_, err = env.svc.Extend(context.Background(), appointment.ID, model.MustTimeOfDay("11:30"))
	assert.ErrorIs(t, err, apperr.ErrConflict)

	stored, getErr := env.appointments.GetByID(context.Background(), appointment.ID)
	require.NoError(t, getErr)
	assert.Equal(t, model.MustTimeOfDay("11:00"), stored.EndTime, "a failed extension leaves the interval unchanged")
}

func TestExtendUpgradesLegacyRecord(t *testing.T) {
	env := newTestEnv(t)

	at := model.MustCalendarDate("2026-03-02").At(model.MustTimeOfDay("10:00"))
	legacy := &model.Appointment{
		ID:          uuid.New(),
		ClinicID:    env.clinic.ID,
		OwnerID:     env.ownerID,
		PetID:       env.pet.ID,
		Status:      model.AppointmentStatusConfirmed,
		ScheduledAt: &at,
	}
	env.appointments.put(legacy)

	extended, err := env.svc.Extend(context.Background(), legacy.ID, model.MustTimeOfDay("12:00"))
	require.NoError(t, err)

	assert.True(t, extended.SlotBased())
	assert.Nil(t, extended.ScheduledAt)
	assert.Equal(t, model.MustCalendarDate("2026-03-02"), extended.Date)
	assert.Equal(t, model.MustTimeOfDay("10:00"), extended.StartTime)
	assert.Equal(t, model.MustTimeOfDay("12:00"), extended.EndTime)
}

func TestCancelPermissions(t *testing.T) {
	env := newTestEnv(t)

	appointment := env.book(t, "2026-03-02", "10:00", "11:00")
	_, err := env.svc.Cancel(context.Background(), appointment.ID, uuid.New())
	assert.ErrorIs(t, err, apperr.ErrValidation)

	cancelled, err := env.svc.Cancel(context.Background(), appointment.ID, env.ownerID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	// Terminal: cannot be cancelled twice.
	_, err = env.svc.Cancel(context.Background(), appointment.ID, env.ownerID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Clinic owner may cancel a confirmed appointment too.
	other := env.book(t, "2026-03-02", "12:00", "13:00")
	_, err = env.svc.Approve(context.Background(), other.ID)
	require.NoError(t, err)
	cancelled, err = env.svc.Cancel(context.Background(), other.ID, env.clinicOwnerID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)
}

func TestCompleteRequiresConfirmed(t *testing.T) {
	env := newTestEnv(t)
	appointment := env.book(t, "2026-03-02", "10:00", "11:00")

	_, err := env.svc.Complete(context.Background(), appointment.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	_, err = env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	completed, err := env.svc.Complete(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, completed.Status)
	assert.Equal(t, notify.KindAppointmentCompleted, env.sink.events[len(env.sink.events)-1].Kind)
}

func TestSweepOncePromotesPastDue(t *testing.T) {
	env := newTestEnv(t)

	past := seedAppointment(t, env.appointments, env.clinic.ID, "2026-02-27", "10:00", "11:00", model.AppointmentStatusConfirmed)
	future := seedAppointment(t, env.appointments, env.clinic.ID, "2026-03-02", "10:00", "11:00", model.AppointmentStatusConfirmed)
	stillPending := seedAppointment(t, env.appointments, env.clinic.ID, "2026-02-27", "12:00", "13:00", model.AppointmentStatusPending)

	applied, err := env.svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	got, _ := env.appointments.GetByID(context.Background(), past.ID)
	assert.Equal(t, model.AppointmentStatusCompleted, got.Status)
	got, _ = env.appointments.GetByID(context.Background(), future.ID)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
	got, _ = env.appointments.GetByID(context.Background(), stillPending.ID)
	assert.Equal(t, model.AppointmentStatusPending, got.Status)

	assert.Equal(t, []notify.Kind{notify.KindAppointmentCompleted}, env.sink.kinds())

	// Idempotent: a second pass finds nothing to do.
	applied, err = env.svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestSweepOnceToleratesUpdateFailure(t *testing.T) {
	env := newTestEnv(t)
	seedAppointment(t, env.appointments, env.clinic.ID, "2026-02-27", "10:00", "11:00", model.AppointmentStatusConfirmed)
	env.appointments.updateErr = errors.New("connection reset")

	applied, err := env.svc.SweepOnce(context.Background())
	require.NoError(t, err, "a failed transition is logged, not fatal")
	assert.Zero(t, applied)

	// The straggler is picked up once the store recovers.
	env.appointments.updateErr = nil
	applied, err = env.svc.SweepOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)
}

func TestSinkFailureDoesNotFailTransition(t *testing.T) {
	env := newTestEnv(t)
	env.sink.err = errors.New("telegram unreachable")

	appointment, err := env.svc.Book(context.Background(), env.bookRequest("2026-03-02", "10:00", "11:00"))
	require.NoError(t, err)

	approved, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, approved.Status)
}

func TestBookApproveSweepReviewFlow(t *testing.T) {
	env := newTestEnv(t)
	reviews := &fakeReviewStore{}
	reviewSvc := NewReviewService(env.appointments, reviews, testLogger())

	appointment := env.book(t, "2026-03-02", "10:00", "11:00")
	_, err := env.svc.Approve(context.Background(), appointment.ID)
	require.NoError(t, err)

	// Too early to review: the appointment is not completed yet.
	_, err = reviewSvc.Submit(context.Background(), appointment.ID, env.ownerID, 5, "great visit")
	assert.ErrorIs(t, err, apperr.ErrInvalidState)

	// Move the clock past the appointment and sweep.
	env.svc.WithClock(func() time.Time {
		return time.Date(2026, time.March, 2, 11, 0, 1, 0, time.UTC)
	})
	applied, err := env.svc.SweepOnce(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, applied)

	review, err := reviewSvc.Submit(context.Background(), appointment.ID, env.ownerID, 5, "great visit")
	require.NoError(t, err)
	assert.Equal(t, env.clinic.ID, review.ClinicID)

	assert.Equal(t, []notify.Kind{
		notify.KindNewBooking,
		notify.KindBookingConfirmed,
		notify.KindAppointmentCompleted,
	}, env.sink.kinds())
}
