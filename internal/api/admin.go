package api

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"lexdesk/internal/models"
	"lexdesk/pkg/civil"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type holidayRequest struct {
	Date civil.Date `json:"date"`
	Name string     `json:"name"`
}

type createUserRequest struct {
	Email    string      `json:"email"`
	Name     string      `json:"name"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type roleRequest struct {
	Role models.Role `json:"role"`
}

type issueRequest struct {
	ClientID uint       `json:"client_id"`
	From     civil.Date `json:"from"`
	To       civil.Date `json:"to"`
}

func (s *Server) listHolidays(w http.ResponseWriter, r *http.Request) {
	from, ok := queryDate(w, r, "from")
	if !ok {
		return
	}
	to, ok := queryDate(w, r, "to")
	if !ok {
		return
	}
	days, err := s.svc.Holidays.List(from, to)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if days == nil {
		days = []models.NonWorkingDay{}
	}
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) addHoliday(w http.ResponseWriter, r *http.Request) {
	var req holidayRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	day, err := s.svc.Holidays.AddHoliday(req.Date, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, day)
}

func (s *Server) deleteHoliday(w http.ResponseWriter, r *http.Request) {
	date, err := civil.ParseDate(mux.Vars(r)["date"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: expected YYYY-MM-DD")
		return
	}
	if err := s.svc.Holidays.DeleteHoliday(date); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.svc.Users.ListUsers()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (s *Server) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	user, err := s.svc.Users.CreateUser(req.Email, req.Name, req.Password, req.Role)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

func (s *Server) updateRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := s.svc.Users.UpdateRole(currentUser(r), id, req.Role); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	// старый токен не должен сохранять прежнюю роль
	if err := s.svc.Auth.RevokeUser(id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	user, err := s.svc.Users.GetUser(id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (s *Server) issueDocument(w http.ResponseWriter, r *http.Request) {
	var req issueRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	kind := mux.Vars(r)["kind"]
	issued, err := s.svc.Billing.Issue(kind, req.ClientID, req.From, req.To, currentUser(r))
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, issued)
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	clientID, ok := queryUint(w, r, "client_id")
	if !ok {
		return
	}
	docs, err := s.svc.Billing.ListDocuments(clientID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (s *Server) getDocumentByNumber(w http.ResponseWriter, r *http.Request) {
	issued, err := s.svc.Billing.FindByNumber(mux.Vars(r)["number"])
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, issued)
}

// exportDocument собирает книгу в буфер, чтобы ошибка ушла JSON-ом
func (s *Server) exportDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	doc, err := s.svc.Billing.Export(id, &buf)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Number+".xlsx"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
