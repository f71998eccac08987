package api

import (
	"net/http"

	"lexdesk/pkg/civil"
)

type leaveRequest struct {
	Type      string     `json:"type"`
	StartDate civil.Date `json:"start_date"`
	EndDate   civil.Date `json:"end_date"`
	Reason    string     `json:"reason"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (s *Server) listLeave(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.targetUserID(w, r)
	if !ok {
		return
	}
	periods, err := s.svc.Leave.ListForUser(userID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) requestLeave(w http.ResponseWriter, r *http.Request) {
	var req leaveRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	period, err := s.svc.Leave.RequestLeave(currentUser(r).ID, req.Type, req.StartDate, req.EndDate, req.Reason)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, period)
}

func (s *Server) cancelLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	period, err := s.svc.Leave.Cancel(currentUser(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

func (s *Server) pendingLeave(w http.ResponseWriter, r *http.Request) {
	periods, err := s.svc.Leave.ListPending()
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, periods)
}

func (s *Server) approveLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	period, err := s.svc.Leave.Approve(currentUser(r), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}

func (s *Server) rejectLeave(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rejectRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}
	period, err := s.svc.Leave.Reject(currentUser(r), id, req.Reason)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, period)
}
