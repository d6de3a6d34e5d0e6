package timecard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shifttrack/timecard-backend-go/internal/domain/timecard"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/metrics"
	"github.com/shifttrack/timecard-backend-go/internal/pkg/validator"
)

// Settings are the payroll rules the pipeline runs with.
type Settings struct {
	Location          *time.Location
	Anchor            time.Time // a Sunday
	OvertimeThreshold time.Duration
	WeekWindowCount   int
	AutoClockOutAfter time.Duration
	Now               func() time.Time
}

const (
	defaultWeekWindowCount   = 30
	defaultAutoClockOutAfter = 12 * time.Hour
)

type timecardServiceImpl struct {
	eventRepo timecard.EventRepository
	settings  Settings
	metrics   *metrics.Metrics
}

func NewTimecardService(eventRepo timecard.EventRepository, settings Settings, m *metrics.Metrics) timecard.TimecardService {
	if settings.Location == nil {
		settings.Location = time.UTC
	}
	if settings.OvertimeThreshold <= 0 {
		settings.OvertimeThreshold = DefaultOvertimeThreshold
	}
	if settings.WeekWindowCount <= 0 {
		settings.WeekWindowCount = defaultWeekWindowCount
	}
	if settings.AutoClockOutAfter <= 0 {
		settings.AutoClockOutAfter = defaultAutoClockOutAfter
	}
	if settings.Now == nil {
		settings.Now = time.Now
	}

	return &timecardServiceImpl{
		eventRepo: eventRepo,
		settings:  settings,
		metrics:   m,
	}
}

// Punch implements timecard.TimecardService.
func (s *timecardServiceImpl) Punch(ctx context.Context, req timecard.PunchRequest) (timecard.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.EventResponse{}, err
	}

	latest, err := s.eventRepo.Latest(ctx, req.EmployeeID)
	if err != nil {
		return timecard.EventResponse{}, storeError("failed to read last punch", err)
	}

	eventType := timecard.EventType(req.Type)
	clockedIn := latest != nil && latest.Type == timecard.EventTypeIn
	if eventType == timecard.EventTypeIn && clockedIn {
		return timecard.EventResponse{}, timecard.ErrAlreadyClockedIn
	}
	if eventType == timecard.EventTypeOut && !clockedIn {
		return timecard.EventResponse{}, timecard.ErrNotClockedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return timecard.EventResponse{}, fmt.Errorf("failed to generate event id: %w", err)
	}

	now := s.settings.Now()
	created, err := s.eventRepo.Create(ctx, timecard.Event{
		ID:           id.String(),
		EmployeeID:   req.EmployeeID,
		EmployeeName: req.EmployeeName,
		Type:         eventType,
		Timestamp:    now,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return timecard.EventResponse{}, storeError("failed to record punch", err)
	}

	s.metrics.Punch(req.Type)
	slog.Info("Recorded punch", "employee_id", created.EmployeeID, "type", created.Type, "event_id", created.ID)

	return s.toEventResponse(created), nil
}

// GetStatus implements timecard.TimecardService.
func (s *timecardServiceImpl) GetStatus(ctx context.Context, employeeID string) (timecard.StatusResponse, error) {
	if validator.IsEmpty(employeeID) {
		return timecard.StatusResponse{}, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}

	latest, err := s.eventRepo.Latest(ctx, employeeID)
	if err != nil {
		return timecard.StatusResponse{}, storeError("failed to read last punch", err)
	}

	resp := timecard.StatusResponse{
		EmployeeID: employeeID,
		Status:     "none",
		CanClockIn: true,
	}
	if latest != nil {
		ev := s.toEventResponse(*latest)
		resp.LastEvent = &ev
		resp.Status = string(latest.Type)
		resp.CanClockIn = latest.Type != timecard.EventTypeIn
		resp.CanClockOut = latest.Type == timecard.EventTypeIn
	}
	return resp, nil
}

// GetTimecard implements timecard.TimecardService.
func (s *timecardServiceImpl) GetTimecard(ctx context.Context, req timecard.TimecardRequest) (timecard.TimecardResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.TimecardResponse{}, err
	}

	loc := s.settings.Location
	week := WeekWindowAt(s.reference(req.Reference), req.WeekOffset, loc)
	if req.Date != "" {
		day, _ := time.ParseInLocation(timecard.DateLayout, req.Date, loc)
		week = WeekWindowAt(day, 0, loc)
	}
	period := PayPeriodFor(week, s.settings.Anchor, loc)

	var window timecard.Window = week
	if req.Period == timecard.PeriodPayPeriod {
		window = period
	}

	events, err := s.eventRepo.ListByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return timecard.TimecardResponse{}, storeError("failed to load events", err)
	}

	tl := BuildTimeline(req.EmployeeID, events, loc)
	s.observe(req.Period, tl)

	summary := Summarize(tl.Records, window, s.settings.OvertimeThreshold)
	days := summary.Days
	if req.SortOrder == timecard.SortDesc {
		days = slices.Clone(days)
		slices.Reverse(days)
	}

	resp := timecard.TimecardResponse{
		EmployeeID:   req.EmployeeID,
		EmployeeName: tl.EmployeeName,
		Window:       toWindowResponse(window),
		Days:         make([]timecard.DayResponse, 0, len(days)),
		Stats:        toStatsResponse(summary.Stats),
		Anomalies:    s.anomaliesIn(tl.Anomalies, window),
	}
	if req.Period == timecard.PeriodWeek {
		pp := toWindowResponse(period)
		resp.PayPeriod = &pp
	}
	for _, day := range days {
		resp.Days = append(resp.Days, s.toDayResponse(day))
	}
	if tl.OpenShift != nil {
		open := s.toEventResponse(*tl.OpenShift)
		resp.OpenShift = &open
	}

	return resp, nil
}

// ListWeekWindows implements timecard.TimecardService.
func (s *timecardServiceImpl) ListWeekWindows(ctx context.Context, req timecard.WindowsRequest) ([]timecard.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	weeks := WeekWindows(s.reference(req.Reference), s.count(req.Count), s.settings.Location)
	resp := make([]timecard.WindowResponse, 0, len(weeks))
	for _, w := range weeks {
		resp = append(resp, toWindowResponse(w))
	}
	return resp, nil
}

// ListPayPeriods implements timecard.TimecardService.
func (s *timecardServiceImpl) ListPayPeriods(ctx context.Context, req timecard.WindowsRequest) ([]timecard.WindowResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	periods := PayPeriods(s.reference(req.Reference), s.count(req.Count), s.settings.Anchor, s.settings.Location)
	resp := make([]timecard.WindowResponse, 0, len(periods))
	for _, p := range periods {
		resp = append(resp, toWindowResponse(p))
	}
	return resp, nil
}

// Amend implements timecard.TimecardService.
func (s *timecardServiceImpl) Amend(ctx context.Context, req timecard.AmendRequest) (timecard.TimecardResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.TimecardResponse{}, err
	}

	loc := s.settings.Location
	date, _ := time.ParseInLocation(timecard.DateLayout, req.Date, loc)

	events, err := s.eventRepo.ListByEmployee(ctx, req.EmployeeID)
	if err != nil {
		return timecard.TimecardResponse{}, storeError("failed to load events", err)
	}

	rec, ok := BuildTimeline(req.EmployeeID, events, loc).Record(date)
	if !ok {
		return timecard.TimecardResponse{}, fmt.Errorf("%w: %s", timecard.ErrRecordNotFound, req.Date)
	}

	correction, err := BuildCorrection(rec, req.ClockOutTime, req.Note, req.ActorID, loc)
	if err != nil {
		return timecard.TimecardResponse{}, err
	}

	if _, err := s.eventRepo.ApplyCorrection(ctx, correction); err != nil {
		return timecard.TimecardResponse{}, storeError("failed to apply correction", err)
	}

	s.metrics.Correction()
	slog.Info("Applied clock-out correction",
		"employee_id", req.EmployeeID,
		"event_id", correction.EventID,
		"actor_id", req.ActorID,
		"date", req.Date,
		"clock_out", req.ClockOutTime,
	)

	// Recompute from a fresh snapshot rather than patching the old timeline.
	return s.GetTimecard(ctx, timecard.TimecardRequest{
		EmployeeID: req.EmployeeID,
		Period:     timecard.PeriodWeek,
		Date:       req.Date,
		SortOrder:  timecard.SortDesc,
	})
}

// ListCorrections implements timecard.TimecardService.
func (s *timecardServiceImpl) ListCorrections(ctx context.Context, employeeID string) ([]timecard.CorrectionResponse, error) {
	if validator.IsEmpty(employeeID) {
		return nil, validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}}
	}

	audits, err := s.eventRepo.ListCorrections(ctx, employeeID)
	if err != nil {
		return nil, storeError("failed to load corrections", err)
	}

	resp := make([]timecard.CorrectionResponse, 0, len(audits))
	for _, a := range audits {
		item := timecard.CorrectionResponse{
			ID:                   a.ID,
			EventID:              a.EventID,
			EmployeeID:           a.EmployeeID,
			ActorID:              a.ActorID,
			NewTimestamp:         s.formatInstant(a.NewTimestamp),
			PreviousAutoClockOut: a.PreviousAutoClockOut,
			Note:                 a.Note,
			CreatedAt:            s.formatInstant(a.CreatedAt),
		}
		if a.PreviousTimestamp != nil {
			prev := s.formatInstant(*a.PreviousTimestamp)
			item.PreviousTimestamp = &prev
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// TeamSummary implements timecard.TimecardService.
func (s *timecardServiceImpl) TeamSummary(ctx context.Context, req timecard.TeamSummaryRequest) (timecard.TeamSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return timecard.TeamSummaryResponse{}, err
	}

	window := s.rangeWindow(req.Range, s.reference(req.Reference))
	start, end := window.Bounds()

	events, err := s.eventRepo.ListByRange(ctx, start, end)
	if err != nil {
		return timecard.TeamSummaryResponse{}, storeError("failed to load events", err)
	}

	groups := GroupByEmployee(events)
	resp := timecard.TeamSummaryResponse{
		Window:    toWindowResponse(window),
		Employees: make([]timecard.EmployeeTotal, 0, len(groups)),
	}
	for _, g := range groups {
		tl := BuildTimeline(g.EmployeeID, g.Events, s.settings.Location)
		s.observe(req.Range, tl)

		summary := Summarize(tl.Records, window, s.settings.OvertimeThreshold)
		total := timecard.EmployeeTotal{
			EmployeeID:    g.EmployeeID,
			EmployeeName:  g.EmployeeName,
			TotalHours:    roundHours(summary.Stats.TotalHours),
			RegularHours:  roundHours(summary.Stats.RegularHours),
			OvertimeHours: roundHours(summary.Stats.OvertimeHours),
			Formatted:     FormatDuration(summary.Stats.Total),
		}
		for _, day := range summary.Days {
			if day.Record.HasWarning {
				total.WarningDays++
			}
			if day.Record.IsOpen() {
				total.OpenDays++
			}
		}
		resp.Employees = append(resp.Employees, total)
	}

	return resp, nil
}

// Export implements timecard.TimecardService.
func (s *timecardServiceImpl) Export(ctx context.Context, req timecard.ExportRequest) ([]timecard.ExportRow, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	loc := s.settings.Location
	from, _ := time.ParseInLocation(timecard.DateLayout, req.StartDate, loc)
	to, _ := time.ParseInLocation(timecard.DateLayout, req.EndDate, loc)
	window := DateRangeWindow(from, to, loc)
	start, end := window.Bounds()

	var (
		events []timecard.Event
		err    error
	)
	if req.EmployeeID != nil && strings.TrimSpace(*req.EmployeeID) != "" {
		events, err = s.eventRepo.ListByEmployee(ctx, strings.TrimSpace(*req.EmployeeID))
	} else {
		events, err = s.eventRepo.ListByRange(ctx, start, end)
	}
	if err != nil {
		return nil, storeError("failed to load events", err)
	}

	var rows []timecard.ExportRow
	for _, g := range GroupByEmployee(events) {
		tl := BuildTimeline(g.EmployeeID, g.Events, loc)
		records := SortRecords(FilterRecords(tl.Records, start, end), timecard.SortAsc)
		rows = append(rows, ExportRows(records, loc)...)
	}

	slog.Info("Prepared timecard export", "start", req.StartDate, "end", req.EndDate, "rows", len(rows), "format", req.Format)
	return rows, nil
}

// CloseStaleShifts implements timecard.TimecardService.
func (s *timecardServiceImpl) CloseStaleShifts(ctx context.Context) (int, error) {
	now := s.settings.Now()
	cutoff := now.Add(-s.settings.AutoClockOutAfter)

	stale, err := s.eventRepo.ListStaleClockIns(ctx, cutoff)
	if err != nil {
		return 0, storeError("failed to list open shifts", err)
	}

	var (
		closed int
		errs   []error
	)
	for _, in := range stale {
		id, err := uuid.NewV7()
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to generate event id: %w", err))
			continue
		}

		out := timecard.Event{
			ID:           id.String(),
			EmployeeID:   in.EmployeeID,
			EmployeeName: in.EmployeeName,
			Type:         timecard.EventTypeOut,
			Timestamp:    AutoClockOutAt(in.Timestamp, s.settings.AutoClockOutAfter, s.settings.Location),
			AutoClockOut: true,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := s.eventRepo.Create(ctx, out); err != nil {
			errs = append(errs, storeError(fmt.Sprintf("failed to close shift of %s", in.EmployeeID), err))
			continue
		}

		closed++
		slog.Warn("Forced clock-out for stale shift",
			"employee_id", in.EmployeeID,
			"clock_in_event_id", in.ID,
			"clock_out", out.Timestamp,
		)
	}

	s.metrics.AutoClockOuts(closed)
	return closed, errors.Join(errs...)
}

// AutoClockOutAt is the forced clock-out instant for a shift started at in:
// in + after, but never past the end of the clock-in's local day and never
// before in itself.
func AutoClockOutAt(in time.Time, after time.Duration, loc *time.Location) time.Time {
	out := minTime(in.Add(after), endOfDay(localDate(in, loc)))
	if whole := out.Truncate(time.Second); !whole.Before(in) {
		out = whole
	}
	return maxTime(in, out)
}

func minTime(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

func maxTime(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func (s *timecardServiceImpl) rangeWindow(rangeName string, ref time.Time) timecard.Window {
	loc := s.settings.Location
	switch rangeName {
	case timecard.RangeToday:
		return DayWindow(ref, loc)
	case timecard.RangePayPeriod:
		return PayPeriodContaining(ref, s.settings.Anchor, loc)
	case timecard.RangeMonth:
		return MonthWindow(ref, loc)
	default:
		return WeekWindowAt(ref, 0, loc)
	}
}

func (s *timecardServiceImpl) reference(ref time.Time) time.Time {
	if ref.IsZero() {
		return s.settings.Now()
	}
	return ref
}

func (s *timecardServiceImpl) count(n int) int {
	if n <= 0 {
		return s.settings.WeekWindowCount
	}
	return n
}

// observe reports one pipeline pass and its anomalies.
func (s *timecardServiceImpl) observe(window string, tl timecard.Timeline) {
	s.metrics.PipelineRun(window)
	if len(tl.Anomalies) == 0 {
		return
	}

	kinds := make(map[timecard.AnomalyKind]int)
	for _, a := range tl.Anomalies {
		kinds[a.Kind]++
		s.metrics.Anomaly(string(a.Kind))
	}
	slog.Warn("Timecard anomalies detected", "employee_id", tl.EmployeeID, "count", len(tl.Anomalies), "kinds", kinds)
}

// anomaliesIn keeps anomalies dated inside the window plus undated ones.
func (s *timecardServiceImpl) anomaliesIn(anomalies []timecard.Anomaly, window timecard.Window) []timecard.AnomalyResponse {
	start, end := window.Bounds()
	resp := make([]timecard.AnomalyResponse, 0)
	for _, a := range anomalies {
		if a.Date != nil && (a.Date.Before(start) || a.Date.After(end)) {
			continue
		}
		resp = append(resp, s.toAnomalyResponse(a))
	}
	return resp
}

// storeError marks a collaborator failure as retryable. Not-found passes
// through unchanged.
func storeError(op string, err error) error {
	if errors.Is(err, timecard.ErrEventNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w: %w", op, timecard.ErrStoreUnavailable, err)
}

func (s *timecardServiceImpl) formatInstant(t time.Time) string {
	return t.In(s.settings.Location).Format(time.RFC3339)
}

func (s *timecardServiceImpl) toEventResponse(ev timecard.Event) timecard.EventResponse {
	return timecard.EventResponse{
		ID:           ev.ID,
		EmployeeID:   ev.EmployeeID,
		EmployeeName: ev.EmployeeName,
		Type:         string(ev.Type),
		Timestamp:    s.formatInstant(ev.Timestamp),
		AutoClockOut: ev.AutoClockOut,
		Edited:       ev.Edited,
		ManagerNote:  ev.ManagerNote,
	}
}

func (s *timecardServiceImpl) toAnomalyResponse(a timecard.Anomaly) timecard.AnomalyResponse {
	resp := timecard.AnomalyResponse{
		Kind:    string(a.Kind),
		EventID: a.EventID,
		Message: a.Message,
	}
	if a.Date != nil {
		date := a.Date.In(s.settings.Location).Format(timecard.DateLayout)
		resp.Date = &date
	}
	return resp
}

func (s *timecardServiceImpl) toDayResponse(day timecard.DaySummary) timecard.DayResponse {
	rec := day.Record
	resp := timecard.DayResponse{
		Date:          rec.DateKey(),
		Weekday:       rec.Date.Weekday().String(),
		Hours:         roundHours(rec.Hours),
		RunningTotal:  roundHours(day.RunningHours),
		Label:         "REG",
		Open:          rec.IsOpen(),
		HasWarning:    rec.HasWarning,
		Edited:        rec.Edited,
		Note:          rec.Note,
		SourceEventID: rec.SourceEventID,
	}
	if day.IsOvertime {
		resp.Label = "OT"
	}
	if rec.ClockIn != nil {
		in := s.formatInstant(*rec.ClockIn)
		resp.ClockIn = &in
	}
	if rec.ClockOut != nil {
		out := s.formatInstant(*rec.ClockOut)
		resp.ClockOut = &out
	}
	for _, a := range rec.Anomalies {
		resp.Anomalies = append(resp.Anomalies, s.toAnomalyResponse(a))
	}
	return resp
}

func toWindowResponse(w timecard.Window) timecard.WindowResponse {
	start, end := w.Bounds()
	return timecard.WindowResponse{
		Label: w.Name(),
		Start: start.Format(timecard.DateLayout),
		End:   end.Format(timecard.DateLayout),
	}
}

func toStatsResponse(stats timecard.WeeklyStats) timecard.StatsResponse {
	return timecard.StatsResponse{
		RegularHours:  roundHours(stats.RegularHours),
		OvertimeHours: roundHours(stats.OvertimeHours),
		TotalHours:    roundHours(stats.TotalHours),
	}
}

// roundHours rounds to two decimals for display. Sums are taken on exact
// durations before rounding.
func roundHours(h float64) float64 {
	return math.Round(h*100) / 100
}
