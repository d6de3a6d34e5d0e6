package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/shifttrack/timecard-backend-go/internal/handler/http/response"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/jwt"
)

type TimecardHandler interface {
	Punch(w http.ResponseWriter, r *http.Request)
	GetStatus(w http.ResponseWriter, r *http.Request)
	GetTimecard(w http.ResponseWriter, r *http.Request)
	ListWeekWindows(w http.ResponseWriter, r *http.Request)
	ListPayPeriods(w http.ResponseWriter, r *http.Request)
	Amend(w http.ResponseWriter, r *http.Request)
	ListCorrections(w http.ResponseWriter, r *http.Request)
	TeamSummary(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type timecardHandlerImpl struct {
	timecardService timecard.TimecardService
}

func NewTimecardHandler(timecardService timecard.TimecardService) TimecardHandler {
	return &timecardHandlerImpl{
		timecardService: timecardService,
	}
}

// Punch implements TimecardHandler.
func (h *timecardHandlerImpl) Punch(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timecard.PunchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode punch request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	// Employees punch for themselves; managers may punch on behalf of
	// someone else from a shared kiosk.
	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	if req.EmployeeID == "" {
		req.EmployeeID = identity.EmployeeID
	}
	if !identity.Role.CanManage() && req.EmployeeID != identity.EmployeeID {
		response.HandleError(w, jwt.ErrEmployeeMismatch)
		return
	}
	if strings.TrimSpace(req.EmployeeName) == "" && req.EmployeeID == identity.EmployeeID {
		req.EmployeeName = identity.Name
	}

	result, err := h.timecardService.Punch(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Clock in successful"
	if result.Type == string(timecard.EventTypeOut) {
		message = "Clock out successful"
	}
	response.Created(w, message, result)
}

// GetStatus implements TimecardHandler.
func (h *timecardHandlerImpl) GetStatus(w http.ResponseWriter, r *http.Request) {
	result, err := h.timecardService.GetStatus(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetTimecard implements TimecardHandler.
func (h *timecardHandlerImpl) GetTimecard(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := timecard.TimecardRequest{
		EmployeeID: chi.URLParam(r, "employeeID"),
		Period:     query.Get("period"),
		Date:       query.Get("date"),
		SortOrder:  query.Get("order"),
	}

	if offsetStr := query.Get("week_offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			response.BadRequest(w, "week_offset must be a whole number", nil)
			return
		}
		req.WeekOffset = offset
	}

	result, err := h.timecardService.GetTimecard(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListWeekWindows implements TimecardHandler.
func (h *timecardHandlerImpl) ListWeekWindows(w http.ResponseWriter, r *http.Request) {
	req, ok := parseWindowsRequest(w, r)
	if !ok {
		return
	}

	result, err := h.timecardService.ListWeekWindows(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListPayPeriods implements TimecardHandler.
func (h *timecardHandlerImpl) ListPayPeriods(w http.ResponseWriter, r *http.Request) {
	req, ok := parseWindowsRequest(w, r)
	if !ok {
		return
	}

	result, err := h.timecardService.ListPayPeriods(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func parseWindowsRequest(w http.ResponseWriter, r *http.Request) (timecard.WindowsRequest, bool) {
	var req timecard.WindowsRequest
	if countStr := r.URL.Query().Get("count"); countStr != "" {
		count, err := strconv.Atoi(countStr)
		if err != nil {
			response.BadRequest(w, "count must be a whole number", nil)
			return req, false
		}
		req.Count = count
	}
	return req, true
}

// Amend implements TimecardHandler.
func (h *timecardHandlerImpl) Amend(w http.ResponseWriter, r *http.Request) {
	identity, err := jwt.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req timecard.AmendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode amend request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	req.EmployeeID = chi.URLParam(r, "employeeID")
	req.Date = chi.URLParam(r, "date")
	req.ActorID = identity.UserID

	result, err := h.timecardService.Amend(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clock-out corrected", result)
}

// ListCorrections implements TimecardHandler.
func (h *timecardHandlerImpl) ListCorrections(w http.ResponseWriter, r *http.Request) {
	result, err := h.timecardService.ListCorrections(r.Context(), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// TeamSummary implements TimecardHandler.
func (h *timecardHandlerImpl) TeamSummary(w http.ResponseWriter, r *http.Request) {
	req := timecard.TeamSummaryRequest{
		Range: r.URL.Query().Get("range"),
	}

	result, err := h.timecardService.TeamSummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Export implements TimecardHandler.
func (h *timecardHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := timecard.ExportRequest{
		StartDate: query.Get("start"),
		EndDate:   query.Get("end"),
		Format:    strings.ToLower(query.Get("format")),
	}
	if employeeID := query.Get("employee_id"); employeeID != "" {
		req.EmployeeID = &employeeID
	}

	rows, err := h.timecardService.Export(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	// An empty format means csv.
	if req.Format == "" {
		req.Format = timecard.ExportFormatCSV
	}
	filename := fmt.Sprintf("timecards_%s_%s.%s", req.StartDate, req.EndDate, req.Format)

	switch req.Format {
	case timecard.ExportFormatXLSX:
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		err = writeXLSX(w, rows)
	default:
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		err = writeCSV(w, rows)
	}
	if err != nil {
		// Headers are already sent, only log.
		slog.Error("Failed to write timecard export", "format", req.Format, "error", err)
	}
}
