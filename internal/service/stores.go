package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
)

// Store interfaces consumed by the coordinators. The pgx repositories
// satisfy them; tests substitute in-memory fakes.

type AppointmentStore interface {
	Create(ctx context.Context, a *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	ListByClinicDate(ctx context.Context, clinicID uuid.UUID, date model.CalendarDate) ([]*model.Appointment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Appointment, error)
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Appointment, error)
	ListByStatus(ctx context.Context, status model.AppointmentStatus) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	UpdateInterval(ctx context.Context, id uuid.UUID, date model.CalendarDate, start, end model.TimeOfDay) error
	SetHasReview(ctx context.Context, id uuid.UUID) error
}

type ClinicStore interface {
	Create(ctx context.Context, clinic *model.Clinic) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	List(ctx context.Context) ([]*model.Clinic, error)
}

type PetStore interface {
	Create(ctx context.Context, pet *model.Pet) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Pet, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*model.Pet, error)
}

type WorkingHoursStore interface {
	Get(ctx context.Context, clinicID uuid.UUID) (*model.WorkingHours, error)
	Upsert(ctx context.Context, hours model.WorkingHours) error
}

type ReviewStore interface {
	Create(ctx context.Context, review *model.Review) error
	ListByClinic(ctx context.Context, clinicID uuid.UUID) ([]*model.Review, error)
}

type MedicalRecordStore interface {
	Create(ctx context.Context, record *model.MedicalRecord) error
	ListByPet(ctx context.Context, petID uuid.UUID) ([]*model.MedicalRecord, error)
}
