package notes_box

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/2beens/notesbox/internal/telemetry/tracing"
	"github.com/2beens/notesbox/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=notes_box_test

type notesService interface {
	List(ctx context.Context) ([]Note, error)
	Get(ctx context.Context, id int) (*Note, error)
	Add(ctx context.Context, title, content string) (*Note, error)
	Update(ctx context.Context, id int, title, content string) error
	Patch(ctx context.Context, id int, patch NotePatch) error
	Delete(ctx context.Context, id int) error
	Search(ctx context.Context, query string) ([]Note, error)
}

const (
	msgNoteNotFound      = "Note not found"
	msgNoSearchQuery     = "No search query provided"
	msgInvalidBody       = "Invalid JSON body"
	msgBodyTooLarge      = "Request body too large"
	msgInternalError     = "Internal server error"
	msgNoteUpdated       = "Note updated successfully"
	msgNotePatched       = "Note patched successfully"
	msgNoteDeleted       = "Note deleted"
	searchQueryParamName = "q"
)

type Handler struct {
	service notesService
}

func NewHandler(service notesService) *Handler {
	return &Handler{
		service: service,
	}
}

// SetupRoutes registers the notes routes. writeMiddlewares wrap only the
// routes that modify notes (create, update, patch, delete).
func (handler *Handler) SetupRoutes(router *mux.Router, writeMiddlewares ...mux.MiddlewareFunc) {
	write := func(h http.HandlerFunc) http.Handler {
		var wrapped http.Handler = h
		for i := len(writeMiddlewares) - 1; i >= 0; i-- {
			wrapped = writeMiddlewares[i](wrapped)
		}
		return wrapped
	}

	router.HandleFunc("/notes", handler.HandleList).Methods("GET", "OPTIONS").Name("list-notes")
	router.Handle("/notes", write(handler.HandleAdd)).Methods("POST").Name("new-note")
	// must be registered before /notes/{id}
	router.HandleFunc("/notes/search", handler.HandleSearch).Methods("GET", "OPTIONS").Name("search-notes")
	router.HandleFunc("/notes/{id}", handler.HandleGet).Methods("GET", "OPTIONS").Name("get-note")
	router.Handle("/notes/{id}", write(handler.HandleUpdate)).Methods("PUT").Name("update-note")
	router.Handle("/notes/{id}", write(handler.HandlePatch)).Methods("PATCH").Name("patch-note")
	router.Handle("/notes/{id}", write(handler.HandleDelete)).Methods("DELETE").Name("delete-note")
}

func (handler *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.list")
	defer span.End()

	notes, err := handler.service.List(ctx)
	if err != nil {
		handler.writeServiceError(w, "list notes", err)
		return
	}

	pkg.WriteJSON(w, NotesListResponse{Notes: notes}, http.StatusOK)
}

func (handler *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.get")
	defer span.End()

	id, ok := noteIDFromPath(w, r)
	if !ok {
		return
	}

	note, err := handler.service.Get(ctx, id)
	if err != nil {
		handler.writeServiceError(w, "get note", err)
		return
	}

	pkg.WriteJSON(w, note, http.StatusOK)
}

func (handler *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.new")
	defer span.End()

	title, content, err := decodeNoteRequest(limitBody(w, r))
	if err != nil {
		writeBodyError(w, "new note", err)
		return
	}

	addedNote, err := handler.service.Add(ctx, title, content)
	if err != nil {
		handler.writeServiceError(w, "new note", err)
		return
	}

	log.Debugf("new note added: %d", addedNote.ID)
	pkg.WriteJSON(w, NewNoteResponse{ID: addedNote.ID}, http.StatusCreated)
}

func (handler *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.update")
	defer span.End()

	id, ok := noteIDFromPath(w, r)
	if !ok {
		return
	}

	// body is validated before storage is touched, so an incomplete
	// body is a 400 even for an unknown id
	title, content, err := decodeNoteRequest(limitBody(w, r))
	if err != nil {
		writeBodyError(w, "update note", err)
		return
	}

	if err := handler.service.Update(ctx, id, title, content); err != nil {
		handler.writeServiceError(w, "update note", err)
		return
	}

	pkg.WriteJSON(w, MessageResponse{Message: msgNoteUpdated}, http.StatusOK)
}

func (handler *Handler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.patch")
	defer span.End()

	id, ok := noteIDFromPath(w, r)
	if !ok {
		return
	}

	patch, err := decodePatchRequest(limitBody(w, r))
	if err != nil {
		writeBodyError(w, "patch note", err)
		return
	}

	if err := handler.service.Patch(ctx, id, patch); err != nil {
		handler.writeServiceError(w, "patch note", err)
		return
	}

	pkg.WriteJSON(w, MessageResponse{Message: msgNotePatched}, http.StatusOK)
}

func (handler *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.delete")
	defer span.End()

	id, ok := noteIDFromPath(w, r)
	if !ok {
		return
	}

	if err := handler.service.Delete(ctx, id); err != nil {
		handler.writeServiceError(w, "delete note", err)
		return
	}

	pkg.WriteJSON(w, MessageResponse{Message: msgNoteDeleted}, http.StatusOK)
}

func (handler *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.notes.search")
	defer span.End()

	query := r.URL.Query().Get(searchQueryParamName)
	results, err := handler.service.Search(ctx, query)
	if err != nil {
		handler.writeServiceError(w, "search notes", err)
		return
	}

	pkg.WriteJSON(w, SearchResponse{Results: results}, http.StatusOK)
}

// noteIDFromPath writes a not found response when the {id} segment is not an integer
func noteIDFromPath(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := strconv.Atoi(idStr)
	if err != nil {
		log.Tracef("note id [%s] is not a number", idStr)
		pkg.WriteJSONError(w, msgNoteNotFound, http.StatusNotFound)
		return 0, false
	}
	return id, true
}

func (handler *Handler) writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNoteNotFound):
		pkg.WriteJSONError(w, msgNoteNotFound, http.StatusNotFound)
	case errors.Is(err, ErrEmptySearchQuery):
		pkg.WriteJSONError(w, msgNoSearchQuery, http.StatusBadRequest)
	default:
		log.Errorf("%s: %s", op, err)
		pkg.WriteJSONError(w, msgInternalError, http.StatusInternalServerError)
	}
}

func writeBodyError(w http.ResponseWriter, op string, err error) {
	log.Tracef("%s, bad request body: %s", op, err)

	var missingFieldErr *MissingFieldError
	if errors.As(err, &missingFieldErr) {
		pkg.WriteJSONError(w, missingFieldErr.Error(), http.StatusBadRequest)
		return
	}
	if errors.Is(err, ErrBodyTooLarge) {
		pkg.WriteJSONError(w, msgBodyTooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	if errors.Is(err, ErrInvalidBody) {
		pkg.WriteJSONError(w, msgInvalidBody, http.StatusBadRequest)
		return
	}

	log.Errorf("%s: %s", op, err)
	pkg.WriteJSONError(w, msgInternalError, http.StatusInternalServerError)
}
