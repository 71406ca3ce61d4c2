package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/custodia-labs/habitplan/internal/core/domain"
	"github.com/custodia-labs/habitplan/internal/core/ports/driving"
)

type voteRequest struct {
	ChatID    string          `json:"chatId"`
	MessageID string          `json:"messageId"`
	Type      domain.VoteType `json:"type"`
}

type voteResponse struct {
	Vote          domain.Vote      `json:"vote"`
	Document      *domain.Document `json:"document,omitempty"`
	Appended      int              `json:"appended"`
	Skipped       int              `json:"skipped"`
	Fallback      bool             `json:"fallback"`
	DocumentError string           `json:"documentError,omitempty"`
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	if s.ports.Vote == nil {
		notConfigured(w)
		return
	}
	var req voteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.ports.Vote.Vote(r.Context(), userFrom(r), req.ChatID, req.MessageID, req.Type)
	if err != nil {
		writeDomainErr(w, err)
		return
	}

	resp := voteResponse{
		Vote:     result.Vote,
		Document: result.Document,
		Appended: result.Merge.AppendedCount,
		Skipped:  result.Merge.Skipped,
		Fallback: result.Merge.Fallback,
	}
	if result.DocumentErr != nil {
		resp.DocumentError = result.DocumentErr.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) listVotes(w http.ResponseWriter, r *http.Request) {
	if s.ports.Vote == nil {
		notConfigured(w)
		return
	}
	chatID, ok := requireQuery(w, r, "chatId")
	if !ok {
		return
	}
	votes, err := s.ports.Vote.List(r.Context(), userFrom(r), chatID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, votes)
}

func (s *Server) getDocumentVersions(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		notConfigured(w)
		return
	}
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	versions, err := s.ports.Document.Versions(r.Context(), userFrom(r), id)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

func (s *Server) getDocumentByChat(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		notConfigured(w)
		return
	}
	chatID, ok := requireQuery(w, r, "chatId")
	if !ok {
		return
	}
	doc, err := s.ports.Document.Latest(r.Context(), userFrom(r), chatID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

type saveDocumentRequest struct {
	Title   string `json:"title"`
	Kind    string `json:"kind"`
	Content string `json:"content"`
}

func (s *Server) saveDocument(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		notConfigured(w)
		return
	}
	q := r.URL.Query()
	var body saveDocumentRequest
	if !decodeBody(w, r, &body) {
		return
	}

	doc, err := s.ports.Document.Save(r.Context(), userFrom(r), driving.SaveDocumentRequest{
		ID:      q.Get("id"),
		ChatID:  q.Get("chatId"),
		Title:   body.Title,
		Kind:    body.Kind,
		Content: body.Content,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) revertDocument(w http.ResponseWriter, r *http.Request) {
	if s.ports.Document == nil {
		notConfigured(w)
		return
	}
	id, ok := requireQuery(w, r, "id")
	if !ok {
		return
	}
	raw, ok := requireQuery(w, r, "timestamp")
	if !ok {
		return
	}
	ts, err := parseTimestamp(raw)
	if err != nil {
		writeErr(w, http.StatusBadRequest, "bad_request", "invalid timestamp: "+raw)
		return
	}

	n, err := s.ports.Document.Revert(r.Context(), userFrom(r), id, ts)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"deleted": n})
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	if s.ports.Todo == nil {
		notConfigured(w)
		return
	}
	chatID, ok := requireQuery(w, r, "chatId")
	if !ok {
		return
	}
	items, err := s.ports.Todo.List(r.Context(), userFrom(r), chatID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

type completeRequest struct {
	ChatID string `json:"chatId"`
	ID     string `json:"id"`
}

func (s *Server) completeTodo(w http.ResponseWriter, r *http.Request) {
	if s.ports.Todo == nil {
		notConfigured(w)
		return
	}
	var req completeRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := s.ports.Todo.Complete(r.Context(), userFrom(r), req.ChatID, req.ID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// editRequest carries a TodoEdit. newText replaces the action line only, so
// clients should send an item's lineText as originalText.
type editRequest struct {
	ChatID string `json:"chatId"`
	driving.TodoEdit
}

func (s *Server) editTodo(w http.ResponseWriter, r *http.Request) {
	if s.ports.Todo == nil {
		notConfigured(w)
		return
	}
	var req editRequest
	if !decodeBody(w, r, &req) {
		return
	}
	doc, err := s.ports.Todo.Edit(r.Context(), userFrom(r), req.ChatID, req.TodoEdit)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	if s.ports.Message == nil {
		notConfigured(w)
		return
	}
	chatID, ok := requireQuery(w, r, "chatId")
	if !ok {
		return
	}
	msgs, err := s.ports.Message.List(r.Context(), userFrom(r), chatID)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type addMessageRequest struct {
	ChatID  string `json:"chatId"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	if s.ports.Message == nil {
		notConfigured(w)
		return
	}
	var req addMessageRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleAssistant
	}
	msg, err := s.ports.Message.Add(r.Context(), userFrom(r), req.ChatID, req.Role, req.Content)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

type askRequest struct {
	ChatID   string `json:"chatId"`
	Question string `json:"question"`
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	if s.ports.Coach == nil {
		notConfigured(w)
		return
	}
	var req askRequest
	if !decodeBody(w, r, &req) {
		return
	}
	msg, err := s.ports.Coach.Ask(r.Context(), userFrom(r), req.ChatID, req.Question)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// parseTimestamp accepts RFC 3339 (with optional fractional seconds) or
// unix milliseconds.
func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339Nano, raw); err == nil {
		return ts, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(ms), nil
}
