package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/gradpath/merit-portal/internal/application/command"
	"github.com/gradpath/merit-portal/internal/application/query"
	"github.com/gradpath/merit-portal/internal/domain/identity"
)

// validate checks request DTOs against their struct tags.
var validate = validator.New()

// decodeJSON decodes the request body into dst and runs struct validation.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body is not valid JSON")
		return false
	}

	if err := validate.Struct(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}

	return true
}

// ══════════════════════════════════════════════════════════════════════════════
// ROOT & HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRoot handles GET / with basic service info.
func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Endpoint not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": "merit-portal",
		"status":  "running",
		"uptime":  s.Uptime().String(),
	})
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"healthy": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, status)
}

// handleReady handles GET /ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.HealthChecker == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"ready": true})
		return
	}

	status := s.deps.HealthChecker.Check(r.Context())
	code := http.StatusOK
	if !status.Ready {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{"ready": status.Ready})
}

// handleLive handles GET /live: the process is up.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"alive": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATION HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// handleLogin handles POST /api/v1/auth/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.LoginHandler.Handle(r.Context(), command.LoginCommand{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	s.setSessionCookie(w, result.Token, result.ExpiresAt)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":       result.Role.String(),
		"account_id": result.AccountID,
		"expires_at": result.ExpiresAt,
	})
}

// handleLogout handles POST /api/v1/auth/logout.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.config.SessionCookie); err == nil {
		if err := s.deps.LogoutHandler.Handle(r.Context(), cookie.Value); err != nil {
			s.writeDomainError(w, r, err)
			return
		}
	}

	s.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]interface{}{"logged_out": true})
}

type registerStudentRequest struct {
	StudentNumber   string `json:"student_number" validate:"required,numeric,min=10,max=20"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	College         string `json:"college" validate:"required"`
	Grade           int    `json:"grade" validate:"required,gte=2000,lte=2100"`
	Major           string `json:"major" validate:"max=100"`
	Phone           string `json:"phone" validate:"omitempty,max=20"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// handleRegisterStudent handles POST /api/v1/auth/register/student.
func (s *Server) handleRegisterStudent(w http.ResponseWriter, r *http.Request) {
	var req registerStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterStudentHandler.Handle(r.Context(), command.RegisterStudentCommand{
		StudentNumber:   req.StudentNumber,
		FullName:        req.FullName,
		College:         req.College,
		Grade:           req.Grade,
		Major:           req.Major,
		Phone:           req.Phone,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"student_id": result.StudentID,
		"account_id": result.AccountID,
	})
}

type registerCounselorRequest struct {
	EmployeeID      string `json:"employee_id" validate:"required,alphanum,min=4,max=20"`
	FullName        string `json:"full_name" validate:"required,max=100"`
	College         string `json:"college" validate:"required"`
	Grade           int    `json:"grade" validate:"required,gte=2000,lte=2100"`
	Password        string `json:"password" validate:"required,min=6,max=72"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

// handleRegisterCounselor handles POST /api/v1/auth/register/counselor.
func (s *Server) handleRegisterCounselor(w http.ResponseWriter, r *http.Request) {
	var req registerCounselorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterCounselorHandler.Handle(r.Context(), command.RegisterCounselorCommand{
		EmployeeID:      req.EmployeeID,
		FullName:        req.FullName,
		College:         req.College,
		Grade:           req.Grade,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"counselor_id": result.CounselorID,
		"account_id":   result.AccountID,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// COMMON AUTHENTICATED HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleMe handles GET /api/v1/me.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	me := map[string]interface{}{
		"account_id": id.Account.ID,
		"username":   id.Account.Username,
		"role":       id.Account.Role.String(),
	}

	switch {
	case id.IsStudent():
		me["profile"] = map[string]interface{}{
			"student_id":     id.Student.ID,
			"student_number": id.Student.StudentNumber.String(),
			"full_name":      id.Student.FullName,
			"cohort":         id.Student.Cohort().String(),
			"major":          id.Student.Major,
			"email":          id.Student.Email,
		}
	case id.IsCounselor():
		me["profile"] = map[string]interface{}{
			"counselor_id": id.Counselor.ID,
			"employee_id":  id.Counselor.EmployeeID.String(),
			"full_name":    id.Counselor.FullName,
			"cohort":       id.Counselor.Cohort().String(),
		}
	}

	writeJSON(w, http.StatusOK, me)
}

// handleListRules handles GET /api/v1/rules.
func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListRulesHandler.Handle(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleListNotifications handles GET /api/v1/me/notifications.
func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListNotificationsHandler.Handle(r.Context(), query.ListNotificationsQuery{
		RecipientID: id.Account.ProfileID,
		UnreadOnly:  getQueryParamBool(r, "unread"),
		Limit:       getQueryParamInt(r, "limit", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMarkNotificationRead handles POST /api/v1/me/notifications/{id}/read.
func (s *Server) handleMarkNotificationRead(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	err := s.deps.MarkNotificationHandler.Handle(r.Context(), r.PathValue("id"), id.Account.ProfileID)
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"read": true})
}

// handleMarkAllNotificationsRead handles POST /api/v1/me/notifications/read-all.
func (s *Server) handleMarkAllNotificationsRead(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	if err := s.deps.MarkNotificationHandler.HandleAll(r.Context(), id.Account.ProfileID); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"read": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT CABINET HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleMyRank handles GET /api/v1/me/rank.
func (s *Server) handleMyRank(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.GetStudentRankHandler.Handle(r.Context(), query.GetStudentRankQuery{
		StudentID: id.Student.ID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type updateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,max=100"`
	Major    string `json:"major" validate:"max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=20"`
	Email    string `json:"email" validate:"required,email"`
}

// handleUpdateProfile handles PUT /api/v1/me/profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req updateProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.UpdateProfileHandler.Handle(r.Context(), command.UpdateProfileCommand{
		StudentID: id.Student.ID,
		FullName:  req.FullName,
		Major:     req.Major,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleMySubmissions handles GET /api/v1/me/submissions.
func (s *Server) handleMySubmissions(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListOwnSubmissionsHandler.Handle(r.Context(), query.ListOwnSubmissionsQuery{
		StudentID: id.Student.ID,
		Status:    getQueryParam(r, "status", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type createSubmissionRequest struct {
	Category      string `json:"category" validate:"required"`
	ItemName      string `json:"item_name" validate:"required,max=200"`
	Description   string `json:"description" validate:"max=2000"`
	AttachmentRef string `json:"attachment_ref" validate:"max=500"`
	SelfRating    string `json:"self_rating" validate:"required"`
}

// handleCreateSubmission handles POST /api/v1/me/submissions.
func (s *Server) handleCreateSubmission(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req createSubmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.CreateSubmissionHandler.Handle(r.Context(), command.CreateSubmissionCommand{
		StudentID:     id.Student.ID,
		Category:      req.Category,
		ItemName:      req.ItemName,
		Description:   req.Description,
		AttachmentRef: req.AttachmentRef,
		SelfRating:    req.SelfRating,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleDeleteSubmission handles DELETE /api/v1/me/submissions/{id}.
func (s *Server) handleDeleteSubmission(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	err := s.deps.DeleteSubmissionHandler.Handle(r.Context(), command.DeleteSubmissionCommand{
		SubmissionID: r.PathValue("id"),
		StudentID:    id.Student.ID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// COUNSELOR HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleDashboard handles GET /api/v1/cohort/dashboard.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.CounselorDashboardHandler.Handle(r.Context(), query.CounselorDashboardQuery{
		Cohort: id.Counselor.Cohort(),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCohortStudents handles GET /api/v1/cohort/students.
func (s *Server) handleCohortStudents(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), query.ListStudentsQuery{
		Cohort:   id.Counselor.Cohort(),
		Search:   getQueryParam(r, "q", ""),
		Page:     getQueryParamInt(r, "page", 1),
		PageSize: getQueryParamInt(r, "page_size", 0),
		SortBy:   getQueryParam(r, "sort", ""),
		SortDesc: getQueryParamBool(r, "desc"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Students, &ResponseMeta{
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	})
}

// handleExportStudents handles GET /api/v1/cohort/students/export.
func (s *Server) handleExportStudents(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ExportStudentsHandler.Handle(r.Context(), query.ExportStudentsQuery{
		Cohort: id.Counselor.Cohort(),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", result.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+result.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Data)
}

// handleStudentRank handles GET /api/v1/cohort/students/{id}/rank.
// A student outside the counselor's cohort reads as not found.
func (s *Server) handleStudentRank(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.GetStudentRankHandler.Handle(r.Context(), query.GetStudentRankQuery{
		StudentID: r.PathValue("id"),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	if result.Student.Cohort != id.Counselor.Cohort().String() {
		writeJSONError(w, http.StatusNotFound, "not_found", "Resource not found")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

type setAcademicScoreRequest struct {
	Score string `json:"score" validate:"required"`
}

// handleSetAcademicScore handles PUT /api/v1/cohort/students/{id}/academic-score.
func (s *Server) handleSetAcademicScore(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req setAcademicScoreRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.SetAcademicScoreHandler.Handle(r.Context(), command.SetAcademicScoreCommand{
		StudentID:       r.PathValue("id"),
		Score:           req.Score,
		CounselorCohort: id.Counselor.Cohort(),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCohortSubmissions handles GET /api/v1/cohort/submissions.
func (s *Server) handleCohortSubmissions(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListCohortSubsHandler.Handle(r.Context(), query.ListCohortSubmissionsQuery{
		Cohort:   id.Counselor.Cohort(),
		Status:   getQueryParam(r, "status", ""),
		Category: getQueryParam(r, "category", ""),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type reviewSubmissionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject reset"`
	Score  string `json:"score" validate:"omitempty"`
	Reason string `json:"reason" validate:"required_if=Action reject,max=500"`
}

// handleReviewSubmission handles POST /api/v1/cohort/submissions/{id}/review.
func (s *Server) handleReviewSubmission(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req reviewSubmissionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.ReviewSubmissionHandler.Handle(r.Context(), command.ReviewSubmissionCommand{
		SubmissionID:   r.PathValue("id"),
		Action:         command.ReviewAction(req.Action),
		ReviewerID:     id.Counselor.ID,
		ReviewerCohort: id.Counselor.Cohort(),
		Score:          req.Score,
		Reason:         req.Reason,
		CorrelationID:  getRequestID(r.Context()),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type ruleRequest struct {
	RuleType    string `json:"rule_type" validate:"required"`
	ItemName    string `json:"item_name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Score       string `json:"score" validate:"required"`
	Remark      string `json:"remark" validate:"max=500"`
}

// handleCreateRule handles POST /api/v1/rules.
func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req ruleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.deps.ManageRulesHandler.HandleCreate(r.Context(), command.CreateRuleCommand{
		RuleType:    req.RuleType,
		ItemName:    req.ItemName,
		Description: req.Description,
		Score:       req.Score,
		Remark:      req.Remark,
		AuthorID:    id.Counselor.ID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// handleUpdateRule handles PUT /api/v1/rules/{id}.
func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req ruleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.deps.ManageRulesHandler.HandleUpdate(r.Context(), command.UpdateRuleCommand{
		RuleID:      r.PathValue("id"),
		ItemName:    req.ItemName,
		Description: req.Description,
		Score:       req.Score,
		Remark:      req.Remark,
		AuthorID:    id.Counselor.ID,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": true})
}

// handleDeleteRule handles DELETE /api/v1/rules/{id}.
func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	if err := s.deps.ManageRulesHandler.HandleDelete(r.Context(), r.PathValue("id")); err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// ADMIN HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleAdminListStudents handles GET /api/v1/admin/students.
func (s *Server) handleAdminListStudents(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	result, err := s.deps.ListStudentsHandler.Handle(r.Context(), query.ListStudentsQuery{
		AllCohorts: true,
		Search:     getQueryParam(r, "q", ""),
		Page:       getQueryParamInt(r, "page", 1),
		PageSize:   getQueryParamInt(r, "page_size", 0),
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}

	writeJSONWithMeta(w, r, http.StatusOK, result.Students, &ResponseMeta{
		TotalCount: result.TotalCount,
		Page:       result.Page,
		PageSize:   result.PageSize,
	})
}

type adminEditStudentRequest struct {
	StudentNumber string `json:"student_number" validate:"required,numeric,min=10,max=20"`
	FullName      string `json:"full_name" validate:"required,max=100"`
	Major         string `json:"major" validate:"max=100"`
	Phone         string `json:"phone" validate:"omitempty,max=20"`
	Email         string `json:"email" validate:"required,email"`
}

// handleAdminEditStudent handles PUT /api/v1/admin/students/{id}.
func (s *Server) handleAdminEditStudent(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req adminEditStudentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.deps.AdminUsersHandler.HandleEditStudent(r.Context(), command.EditStudentCommand{
		StudentID:     r.PathValue("id"),
		StudentNumber: req.StudentNumber,
		FullName:      req.FullName,
		Major:         req.Major,
		Phone:         req.Phone,
		Email:         req.Email,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": true})
}

// handleAdminDeleteUser handles DELETE /api/v1/admin/users/{id}.
// The role query parameter selects which profile kind the ID refers to.
func (s *Server) handleAdminDeleteUser(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	role := identity.Role(getQueryParam(r, "role", string(identity.RoleStudent)))
	if !role.IsValid() || role == identity.RoleAdmin {
		writeJSONError(w, http.StatusBadRequest, "validation_failed", "role must be student or counselor")
		return
	}

	err := s.deps.AdminUsersHandler.HandleDeleteUser(r.Context(), command.DeleteUserCommand{
		ProfileID: r.PathValue("id"),
		Role:      role,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"deleted": true})
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6,max=72"`
}

// handleAdminResetPassword handles POST /api/v1/admin/accounts/{id}/password.
func (s *Server) handleAdminResetPassword(w http.ResponseWriter, r *http.Request, id *identity.Identity) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := s.deps.AdminUsersHandler.HandleResetPassword(r.Context(), command.ResetPasswordCommand{
		AccountID:   r.PathValue("id"),
		NewPassword: req.NewPassword,
	})
	if err != nil {
		s.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"updated": true})
}
