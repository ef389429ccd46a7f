package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/vetdesk/vetdesk/internal/model"
	"github.com/vetdesk/vetdesk/internal/schedule"
	"github.com/vetdesk/vetdesk/internal/service"
	"go.uber.org/zap"
)

// userHeader carries the authenticated caller's id, injected by the
// identity proxy in front of this service.
const userHeader = "X-User-ID"

type handlers struct {
	logger       *zap.Logger
	clinics      *service.ClinicService
	pets         *service.PetService
	appointments *service.AppointmentService
	reviews      *service.ReviewService
	records      *service.RecordService
	availability *service.AvailabilityChecker
}

func (h *handlers) requester(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.Header.Get(userHeader))
	return id, err == nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	return id, err == nil
}

// --- clinics ---

type registerClinicRequest struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

func (h *handlers) registerClinic(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requester(r)
	if !ok {
		badRequest(w, "missing or malformed "+userHeader+" header")
		return
	}

	var req registerClinicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	clinic := &model.Clinic{
		OwnerUserID: ownerID,
		Name:        req.Name,
		Address:     req.Address,
		Phone:       req.Phone,
		Description: req.Description,
	}

	created, err := h.clinics.Register(r.Context(), clinic)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) listClinics(w http.ResponseWriter, r *http.Request) {
	clinics, err := h.clinics.List(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, clinics)
}

func (h *handlers) getClinic(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}

	clinic, err := h.clinics.Get(r.Context(), clinicID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, clinic)
}

// --- working hours & slots ---

type workingHoursRequest struct {
	Start model.TimeOfDay `json:"start"`
	End   model.TimeOfDay `json:"end"`
}

func (h *handlers) getWorkingHours(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}

	writeJSON(w, http.StatusOK, h.clinics.WorkingHours(r.Context(), clinicID))
}

func (h *handlers) setWorkingHours(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}

	var req workingHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	if err := h.clinics.SetWorkingHours(r.Context(), clinicID, req.Start, req.End); err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, h.clinics.WorkingHours(r.Context(), clinicID))
}

type slotResponse struct {
	schedule.Slot
	Available bool `json:"available"`
}

func (h *handlers) listSlots(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}
	date, err := model.ParseCalendarDate(r.URL.Query().Get("date"))
	if err != nil {
		badRequest(w, "date query parameter must be YYYY-MM-DD")
		return
	}

	hours := h.clinics.WorkingHours(r.Context(), clinicID)

	var slots []slotResponse
	for _, slot := range schedule.GenerateSlots(hours, schedule.DefaultSlotMinutes) {
		slots = append(slots, slotResponse{
			Slot:      slot,
			Available: h.availability.IsAvailable(r.Context(), clinicID, date, slot.Start, slot.End, uuid.Nil),
		})
	}
	writeJSON(w, http.StatusOK, slots)
}

// --- pets ---

type registerPetRequest struct {
	Name      string             `json:"name"`
	Species   string             `json:"species"`
	Breed     string             `json:"breed"`
	BirthDate model.CalendarDate `json:"birth_date,omitzero"`
	Notes     string             `json:"notes"`
}

func (h *handlers) registerPet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requester(r)
	if !ok {
		badRequest(w, "missing or malformed "+userHeader+" header")
		return
	}

	var req registerPetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	pet := &model.Pet{
		OwnerID:   ownerID,
		Name:      req.Name,
		Species:   req.Species,
		Breed:     req.Breed,
		BirthDate: req.BirthDate,
		Notes:     req.Notes,
	}

	created, err := h.pets.Register(r.Context(), pet)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *handlers) listOwnerPets(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(r, "ownerID")
	if !ok {
		badRequest(w, "malformed owner id")
		return
	}

	pets, err := h.pets.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, pets)
}

// --- appointments ---

type bookRequest struct {
	ClinicID  uuid.UUID          `json:"clinic_id"`
	PetID     uuid.UUID          `json:"pet_id"`
	Date      model.CalendarDate `json:"date"`
	StartTime model.TimeOfDay    `json:"start_time"`
	EndTime   model.TimeOfDay    `json:"end_time"`
	Reason    string             `json:"reason"`
	Service   string             `json:"service"`
	Notes     string             `json:"notes"`
}

func (h *handlers) book(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requester(r)
	if !ok {
		badRequest(w, "missing or malformed "+userHeader+" header")
		return
	}

	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	appointment, err := h.appointments.Book(r.Context(), service.BookRequest{
		OwnerID:   ownerID,
		ClinicID:  req.ClinicID,
		PetID:     req.PetID,
		Date:      req.Date,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Reason:    req.Reason,
		Service:   req.Service,
		Notes:     req.Notes,
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, appointment)
}

func (h *handlers) getAppointment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	appointment, err := h.appointments.Get(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *handlers) approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointments.Approve)
}

func (h *handlers) reject(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointments.Reject)
}

func (h *handlers) complete(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.appointments.Complete)
}

func (h *handlers) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id uuid.UUID) (*model.Appointment, error)) {
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	appointment, err := op(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

type extendRequest struct {
	EndTime model.TimeOfDay `json:"end_time"`
}

func (h *handlers) extend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	var req extendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	appointment, err := h.appointments.Extend(r.Context(), id, req.EndTime)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	requesterID, ok := h.requester(r)
	if !ok {
		badRequest(w, "missing or malformed "+userHeader+" header")
		return
	}
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	appointment, err := h.appointments.Cancel(r.Context(), id, requesterID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointment)
}

func (h *handlers) listOwnerAppointments(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := pathUUID(r, "ownerID")
	if !ok {
		badRequest(w, "malformed owner id")
		return
	}

	appointments, err := h.appointments.ListByOwner(r.Context(), ownerID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

func (h *handlers) listClinicAppointments(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}

	if raw := r.URL.Query().Get("date"); raw != "" {
		date, err := model.ParseCalendarDate(raw)
		if err != nil {
			badRequest(w, "date query parameter must be YYYY-MM-DD")
			return
		}
		appointments, err := h.appointments.ListByClinicDate(r.Context(), clinicID, date)
		if err != nil {
			writeError(w, h.logger, err)
			return
		}
		writeJSON(w, http.StatusOK, appointments)
		return
	}

	appointments, err := h.appointments.ListByClinic(r.Context(), clinicID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, appointments)
}

// --- reviews & records ---

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *handlers) review(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := h.requester(r)
	if !ok {
		badRequest(w, "missing or malformed "+userHeader+" header")
		return
	}
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	var req reviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	review, err := h.reviews.Submit(r.Context(), id, ownerID, req.Rating, req.Comment)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *handlers) listClinicReviews(w http.ResponseWriter, r *http.Request) {
	clinicID, ok := pathUUID(r, "clinicID")
	if !ok {
		badRequest(w, "malformed clinic id")
		return
	}

	reviews, err := h.reviews.ListByClinic(r.Context(), clinicID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

type recordRequest struct {
	Diagnosis     string `json:"diagnosis"`
	Treatment     string `json:"treatment"`
	Prescriptions string `json:"prescriptions"`
}

func (h *handlers) issueRecord(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "appointmentID")
	if !ok {
		badRequest(w, "malformed appointment id")
		return
	}

	var req recordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "malformed request body")
		return
	}

	record, err := h.records.Issue(r.Context(), id, req.Diagnosis, req.Treatment, req.Prescriptions)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *handlers) listPetRecords(w http.ResponseWriter, r *http.Request) {
	petID, ok := pathUUID(r, "petID")
	if !ok {
		badRequest(w, "malformed pet id")
		return
	}

	records, err := h.records.ListByPet(r.Context(), petID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, records)
}
