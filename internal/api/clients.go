package api

import (
	"net/http"

	"lexdesk/internal/export"
	"lexdesk/internal/service"
)

type topicRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) listClients(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("all") != "true" || !currentUser(r).IsAdmin()
	clients, err := s.svc.Clients.ListClients(activeOnly)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) listTopics(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	topics, err := s.svc.Clients.ListTopics(id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, topics)
}

func (s *Server) createClient(w http.ResponseWriter, r *http.Request) {
	var in service.ClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	client, err := s.svc.Clients.CreateClient(in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, client)
}

func (s *Server) updateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.ClientInput
	if !decodeJSON(w, r, &in) {
		return
	}
	client, err := s.svc.Clients.UpdateClient(id, in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, client)
}

func (s *Server) deactivateClient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := s.svc.Clients.DeactivateClient(id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) createTopic(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req topicRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	topic, err := s.svc.Clients.CreateTopic(id, req.Name, req.Description)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, topic)
}

// importClients принимает .xlsx/.xls в поле формы "file"
func (s *Server) importClients(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(8 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "expected multipart form with a file field")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	rows, err := export.ReadClientRows(file, header.Filename)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.svc.Clients.ImportClients(rows)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
