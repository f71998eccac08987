package api

import (
	"net/http"
	"strconv"
	"time"

	"lexdesk/internal/service"
	"lexdesk/pkg/civil"
)

func (s *Server) today() civil.Date {
	return s.svc.Overdue.Calculator().Today(s.now())
}

// targetUserID — чьи данные смотреть; чужие доступны только администратору
func (s *Server) targetUserID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	user := currentUser(r)
	id, ok := queryUint(w, r, "user_id")
	if !ok {
		return 0, false
	}
	if id == 0 || id == user.ID {
		return user.ID, true
	}
	if !user.IsAdmin() {
		writeError(w, http.StatusForbidden, "admin role required")
		return 0, false
	}
	return id, true
}

func (s *Server) listEntries(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.targetUserID(w, r)
	if !ok {
		return
	}
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}
	today := s.today()
	if from.IsZero() {
		from = civil.NewDate(today.Year, today.Month, 1)
	}
	if to.IsZero() {
		to = civil.NewDate(today.Year, today.Month+1, 0)
	}

	entries, err := s.svc.Timesheets.ListEntries(userID, from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) logEntry(w http.ResponseWriter, r *http.Request) {
	var in service.EntryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := s.svc.Timesheets.LogEntry(currentUser(r), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.EntryInput
	if !decodeJSON(w, r, &in) {
		return
	}
	entry, err := s.svc.Timesheets.UpdateEntry(currentUser(r), id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Timesheets.DeleteEntry(currentUser(r), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) daySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.targetUserID(w, r)
	if !ok {
		return
	}
	date, ok := queryDate(w, r, "date")
	if !ok {
		return
	}
	if date.IsZero() {
		date = s.today()
	}
	summary, err := s.svc.Timesheets.DaySummary(userID, date)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) monthSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.targetUserID(w, r)
	if !ok {
		return
	}
	today := s.today()
	year, month := today.Year, int(today.Month)

	q := r.URL.Query()
	if raw := q.Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = v
	}
	if raw := q.Get("month"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = v
	}

	summary, err := s.svc.Timesheets.MonthlySummary(userID, year, time.Month(month))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type overdueResponse struct {
	Dates        []civil.Date `json:"dates"`
	Count        int          `json:"count"`
	DeadlineHour int          `json:"deadline_hour"`
	Timezone     string       `json:"timezone"`
}

func (s *Server) overdueSelf(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.targetUserID(w, r)
	if !ok {
		return
	}
	user := currentUser(r)
	if userID != user.ID {
		other, err := s.svc.Users.GetUser(userID)
		if err != nil {
			s.writeServiceError(w, r, err)
			return
		}
		user = other
	}

	dates, err := s.svc.Overdue.ForUser(user, s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if dates == nil {
		dates = []civil.Date{}
	}
	calc := s.svc.Overdue.Calculator()
	writeJSON(w, http.StatusOK, overdueResponse{
		Dates:        dates,
		Count:        len(dates),
		DeadlineHour: calc.DeadlineHour(),
		Timezone:     calc.Location().String(),
	})
}

func (s *Server) overdueAll(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Overdue.ForAllUsers(s.now())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if report == nil {
		report = []service.UserOverdue{}
	}
	writeJSON(w, http.StatusOK, report)
}
