package misc

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/2beens/notesbox/internal/telemetry/tracing"
	"github.com/2beens/notesbox/pkg"
)

const rootMessage = "MY NOTES"

type VersionResponse struct {
	Version string `json:"version"`
}

type Handler struct {
	versionInfo string
}

func NewHandler(versionInfo string) *Handler {
	if versionInfo == "" {
		versionInfo = "unknown"
	}
	return &Handler{
		versionInfo: versionInfo,
	}
}

func (handler *Handler) SetupRoutes(mainRouter *mux.Router) {
	mainRouter.HandleFunc("/", handler.handleRoot).Methods("GET", "OPTIONS").Name("root")
	mainRouter.HandleFunc("/version", handler.handleGetVersionInfo).Methods("GET", "OPTIONS").Name("version")
}

func (handler *Handler) handleRoot(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteTextResponseOK(w, rootMessage)
}

func (handler *Handler) handleGetVersionInfo(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "miscHandler.version")
	defer span.End()

	pkg.WriteJSON(w, VersionResponse{Version: handler.versionInfo}, http.StatusOK)
}
