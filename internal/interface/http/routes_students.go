package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bit-college/records-hub/internal/application/command"
	"github.com/bit-college/records-hub/internal/application/query"
	"github.com/bit-college/records-hub/internal/domain/shared"
	"github.com/bit-college/records-hub/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// studentResponse is the write-side representation of a student record.
type studentResponse struct {
	StudentID         string    `json:"student_id"`
	StudentNumber     int64     `json:"student_number"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	Address           string    `json:"address"`
	City              string    `json:"city"`
	Province          string    `json:"province"`
	ProgramID         string    `json:"program_id,omitempty"`
	GradePointAverage *float64  `json:"grade_point_average,omitempty"`
	OutstandingFees   float64   `json:"outstanding_fees"`
	Notes             string    `json:"notes,omitempty"`
	Archived          bool      `json:"archived"`
	DateCreated       time.Time `json:"date_created"`
}

func buildStudentResponse(st *student.Student) studentResponse {
	resp := studentResponse{
		StudentID:       st.ID.String(),
		StudentNumber:   st.StudentNumber.Int64(),
		FirstName:       st.FirstName,
		LastName:        st.LastName,
		Address:         st.Address,
		City:            st.City,
		Province:        string(st.Province),
		OutstandingFees: st.OutstandingFees.Float64(),
		Notes:           st.Notes,
		Archived:        st.Archived,
		DateCreated:     st.DateCreated,
	}
	if st.ProgramID != nil {
		resp.ProgramID = st.ProgramID.String()
	}
	if st.GradePointAverage != nil {
		gpa := st.GradePointAverage.Float64()
		resp.GradePointAverage = &gpa
	}
	return resp
}

// handleListStudents returns a page of the student roster.
// GET /api/v1/students?offset=0&limit=50&include_archived=false
func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	q := query.ListStudentsQuery{
		Offset:          getQueryParamInt(r, "offset", 0),
		Limit:           getQueryParamInt(r, "limit", 0),
		IncludeArchived: getQueryParamBool(r, "include_archived"),
	}

	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Students, &ResponseMeta{
		TotalCount: result.TotalCount,
		Page:       result.Offset/result.Limit + 1,
		PageSize:   result.Limit,
		HasMore:    result.Offset+len(result.Students) < result.TotalCount,
	})
}

// handleGetStudent returns the student card.
// The path segment accepts either the internal ID or the public
// eight-digit student number.
// GET /api/v1/students/{id}
func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q := query.GetStudentQuery{}
	if number, err := strconv.ParseInt(id, 10, 64); err == nil && number >= int64(shared.MinStudentNumber) {
		q.StudentNumber = number
	} else {
		q.StudentID = id
	}

	result, err := s.deps.GetStudentHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result.Student)
}

// handleGetTranscript returns the student's transcript.
// GET /api/v1/students/{id}/transcript?graded_only=false
func (s *Server) handleGetTranscript(w http.ResponseWriter, r *http.Request) {
	q := query.GetTranscriptQuery{
		StudentID:  r.PathValue("id"),
		GradedOnly: getQueryParamBool(r, "graded_only"),
	}

	result, err := s.deps.GetTranscriptHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// enrollStudentRequest is the request body for student enrollment.
type enrollStudentRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	ProgramID string `json:"program_id,omitempty"`
	Notes     string `json:"notes,omitempty"`
}

// handleEnrollStudent enrolls a new student.
// POST /api/v1/students
func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req enrollStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.EnrollStudentCommand{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Address:       req.Address,
		City:          req.City,
		Province:      req.Province,
		Notes:         req.Notes,
		CorrelationID: getRequestID(r.Context()),
	}

	if req.ProgramID != "" {
		programID, err := shared.NewRecordID(req.ProgramID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		cmd.ProgramID = &programID
	}

	result, err := s.deps.EnrollStudentHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buildStudentResponse(result.Student))
}

// updateStudentRequest is the request body for updating personal data.
// Absent fields are left unchanged.
type updateStudentRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Address   *string `json:"address,omitempty"`
	City      *string `json:"city,omitempty"`
	Province  *string `json:"province,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// handleUpdateStudent updates the student's personal data.
// PATCH /api/v1/students/{id}
func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateStudentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.UpdateStudentCommand{
		StudentID: studentID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Address:   req.Address,
		City:      req.City,
		Province:  req.Province,
		Notes:     req.Notes,
	}

	updated, err := s.deps.UpdateStudentHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildStudentResponse(updated))
}

// handleArchiveStudent archives (soft-deletes) the student record.
// DELETE /api/v1/students/{id}
func (s *Server) handleArchiveStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.deps.ArchiveStudentHandler.Handle(r.Context(), studentID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// reconcileStandingResponse describes the outcome of a standing reconciliation.
type reconcileStandingResponse struct {
	StudentID      string   `json:"student_id"`
	FinalStanding  string   `json:"final_standing,omitempty"`
	Path           []string `json:"path"`
	StepsPersisted int      `json:"steps_persisted"`
	Restarts       int      `json:"restarts"`
	Skipped        bool     `json:"skipped"`
}

func buildReconcileResponse(result *command.ReconcileStandingResult) reconcileStandingResponse {
	resp := reconcileStandingResponse{
		StudentID:      result.StudentID.String(),
		StepsPersisted: result.StepsPersisted,
		Restarts:       result.Restarts,
		Skipped:        result.Skipped,
	}
	if result.FinalState != nil {
		resp.FinalStanding = string(result.FinalState.Variant)
	}
	resp.Path = make([]string, 0, len(result.Path))
	for _, v := range result.Path {
		resp.Path = append(resp.Path, string(v))
	}
	return resp
}

// handleReconcileStanding forces a standing reconciliation for the student.
// Normally standing converges automatically after each grade entry; this
// endpoint exists for the registrar to repair drift.
// POST /api/v1/students/{id}/standing/reconcile
func (s *Server) handleReconcileStanding(w http.ResponseWriter, r *http.Request) {
	studentID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	cmd := command.ReconcileStandingCommand{
		StudentID:     studentID,
		CorrelationID: getRequestID(r.Context()),
	}

	result, err := s.deps.ReconcileStandingHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildReconcileResponse(result))
}
