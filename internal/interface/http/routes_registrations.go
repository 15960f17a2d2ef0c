package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bit-college/records-hub/internal/application/command"
	"github.com/bit-college/records-hub/internal/domain/registration"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTRATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// registrationResponse is the write-side representation of a registration.
type registrationResponse struct {
	RegistrationID     string    `json:"registration_id"`
	RegistrationNumber int64     `json:"registration_number"`
	StudentID          string    `json:"student_id"`
	CourseID           string    `json:"course_id"`
	RegistrationDate   time.Time `json:"registration_date"`
	Grade              *float64  `json:"grade,omitempty"`
	Notes              string    `json:"notes,omitempty"`
}

func buildRegistrationResponse(reg *registration.Registration) registrationResponse {
	resp := registrationResponse{
		RegistrationID:     reg.ID.String(),
		RegistrationNumber: reg.RegistrationNumber.Int64(),
		StudentID:          reg.StudentID.String(),
		CourseID:           reg.CourseID.String(),
		RegistrationDate:   reg.RegistrationDate,
		Notes:              reg.Notes,
	}
	if reg.Grade != nil {
		grade := reg.Grade.Float64()
		resp.Grade = &grade
	}
	return resp
}

// registerCourseRequest is the request body for registering a student
// into a course.
type registerCourseRequest struct {
	StudentID string `json:"student_id"`
	CourseID  string `json:"course_id"`
	Notes     string `json:"notes,omitempty"`
}

// handleRegisterCourse registers a student into a course. Tuition is
// charged up front at the student's current standing rate.
// POST /api/v1/registrations
func (s *Server) handleRegisterCourse(w http.ResponseWriter, r *http.Request) {
	var req registerCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.RegisterCourseCommand{
		StudentID:     shared.RecordID(req.StudentID),
		CourseID:      shared.RecordID(req.CourseID),
		Notes:         req.Notes,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.RegisterCourseHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"registration":    buildRegistrationResponse(result.Registration),
		"tuition_charged": result.TuitionCharged.Float64(),
	})
}

// recordGradeRequest is the request body for grade entry.
type recordGradeRequest struct {
	// Grade on the [0, 1] scale.
	Grade float64 `json:"grade"`
}

// handleRecordGrade records a grade for a registration, recomputes the
// student's GPA and reconciles their academic standing.
// POST /api/v1/registrations/{id}/grade
func (s *Server) handleRecordGrade(w http.ResponseWriter, r *http.Request) {
	registrationID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req recordGradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.RecordGradeCommand{
		RegistrationID: registrationID,
		Grade:          req.Grade,
		CorrelationID:  getRequestID(r.Context()),
	}

	result, err := s.deps.RecordGradeHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payload := map[string]interface{}{
		"registration": buildRegistrationResponse(result.Registration),
	}
	if result.GradePointAverage != nil {
		payload["grade_point_average"] = result.GradePointAverage.Float64()
	}
	if result.Standing != nil {
		payload["standing"] = buildReconcileResponse(result.Standing)
	}

	writeJSON(w, http.StatusOK, payload)
}

// handleDropRegistration drops a registration. If it was graded, the
// student's GPA is recomputed and standing reconciled.
// DELETE /api/v1/registrations/{id}
func (s *Server) handleDropRegistration(w http.ResponseWriter, r *http.Request) {
	registrationID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cmd := command.DropRegistrationCommand{
		RegistrationID: registrationID,
		CorrelationID:  getRequestID(r.Context()),
	}

	result, err := s.deps.DropRegistrationHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	payload := map[string]interface{}{
		"dropped": true,
	}
	if result.GradePointAverage != nil {
		payload["grade_point_average"] = result.GradePointAverage.Float64()
	}
	if result.Standing != nil {
		payload["standing"] = buildReconcileResponse(result.Standing)
	}

	writeJSON(w, http.StatusOK, payload)
}
