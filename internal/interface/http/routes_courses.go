package http

import (
	"encoding/json"
	"net/http"

	"github.com/bit-college/records-hub/internal/application/command"
	"github.com/bit-college/records-hub/internal/application/query"
	"github.com/bit-college/records-hub/internal/domain/course"
	"github.com/bit-college/records-hub/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// COURSE HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleListCourses returns the course catalogue.
// GET /api/v1/courses?type=graded
func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	q := query.ListCoursesQuery{
		CourseType: getQueryParam(r, "type", ""),
	}

	result, err := s.deps.ListCoursesHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// handleGetCourse returns a single catalogue entry. The path parameter
// accepts either the internal ID or the public course number.
// GET /api/v1/courses/{id}
func (s *Server) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	q := query.GetCourseQuery{}
	if query.IsCourseNumber(id) {
		q.CourseNumber = id
	} else {
		q.CourseID = id
	}

	result, err := s.deps.GetCourseHandler.Handle(r.Context(), q)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result.Course)
}

// createCourseRequest is the request body for adding a catalogue entry.
type createCourseRequest struct {
	CourseType    string  `json:"course_type"`
	Title         string  `json:"title"`
	CreditHours   float64 `json:"credit_hours"`
	TuitionAmount float64 `json:"tuition_amount"`
	ProgramID     string  `json:"program_id,omitempty"`
	Notes         string  `json:"notes,omitempty"`

	// Graded courses only.
	AssignmentWeight float64 `json:"assignment_weight,omitempty"`
	ExamWeight       float64 `json:"exam_weight,omitempty"`

	// Mastery courses only.
	MaximumAttempts int `json:"maximum_attempts,omitempty"`
}

// courseResponse is the write-side representation of a course.
type courseResponse struct {
	CourseID         string  `json:"course_id"`
	CourseNumber     string  `json:"course_number"`
	CourseType       string  `json:"course_type"`
	Title            string  `json:"title"`
	CreditHours      float64 `json:"credit_hours"`
	TuitionAmount    float64 `json:"tuition_amount"`
	ProgramID        string  `json:"program_id,omitempty"`
	Notes            string  `json:"notes,omitempty"`
	AssignmentWeight float64 `json:"assignment_weight,omitempty"`
	ExamWeight       float64 `json:"exam_weight,omitempty"`
	MaximumAttempts  int     `json:"maximum_attempts,omitempty"`
}

func buildCourseResponse(c *course.Course) courseResponse {
	resp := courseResponse{
		CourseID:      c.ID.String(),
		CourseNumber:  c.CourseNumber,
		CourseType:    string(c.Type),
		Title:         c.Title,
		CreditHours:   c.CreditHours,
		TuitionAmount: c.TuitionAmount.Float64(),
		Notes:         c.Notes,
	}
	if c.ProgramID != nil {
		resp.ProgramID = c.ProgramID.String()
	}
	switch c.Type {
	case course.TypeGraded:
		resp.AssignmentWeight = c.AssignmentWeight
		resp.ExamWeight = c.ExamWeight
	case course.TypeMastery:
		resp.MaximumAttempts = c.MaximumAttempts
	}
	return resp
}

// handleCreateCourse adds a course to the catalogue.
// POST /api/v1/courses
func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.CreateCourseCommand{
		CourseType:       req.CourseType,
		Title:            req.Title,
		CreditHours:      req.CreditHours,
		TuitionAmount:    req.TuitionAmount,
		Notes:            req.Notes,
		AssignmentWeight: req.AssignmentWeight,
		ExamWeight:       req.ExamWeight,
		MaximumAttempts:  req.MaximumAttempts,
		CorrelationID:    getRequestID(r.Context()),
	}

	if req.ProgramID != "" {
		programID, err := shared.NewRecordID(req.ProgramID)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		cmd.ProgramID = &programID
	}

	result, err := s.deps.CreateCourseHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, buildCourseResponse(result.Course))
}

// updateCourseRequest is the request body for updating a catalogue entry.
// Absent fields are left unchanged.
type updateCourseRequest struct {
	Title         *string  `json:"title,omitempty"`
	CreditHours   *float64 `json:"credit_hours,omitempty"`
	TuitionAmount *float64 `json:"tuition_amount,omitempty"`
	Notes         *string  `json:"notes,omitempty"`

	// Graded courses only; both weights must be sent together.
	AssignmentWeight *float64 `json:"assignment_weight,omitempty"`
	ExamWeight       *float64 `json:"exam_weight,omitempty"`

	// Mastery courses only.
	MaximumAttempts *int `json:"maximum_attempts,omitempty"`
}

// handleUpdateCourse updates a catalogue entry. The course type and
// number are immutable.
// PATCH /api/v1/courses/{id}
func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var req updateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return
	}

	cmd := command.UpdateCourseCommand{
		CourseID:         courseID,
		Title:            req.Title,
		CreditHours:      req.CreditHours,
		TuitionAmount:    req.TuitionAmount,
		Notes:            req.Notes,
		AssignmentWeight: req.AssignmentWeight,
		ExamWeight:       req.ExamWeight,
		MaximumAttempts:  req.MaximumAttempts,
	}

	updated, err := s.deps.UpdateCourseHandler.Handle(r.Context(), cmd)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, buildCourseResponse(updated))
}

// handleDeleteCourse removes a catalogue entry. Courses with active
// registrations are rejected with a conflict.
// DELETE /api/v1/courses/{id}
func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID, err := shared.NewRecordID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if err := s.deps.DeleteCourseHandler.Handle(r.Context(), courseID); err != nil {
		writeDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
