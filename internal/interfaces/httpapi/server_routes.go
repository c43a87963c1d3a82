package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerCatalogRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/catalogs", handler.ImportCatalogFromURL)
	mux.HandleFunc("POST /v1/catalogs/upload", handler.UploadCatalogCSV)
	mux.HandleFunc("GET /v1/catalogs", handler.ListCatalogs)
	mux.HandleFunc("GET /v1/catalogs/{catalogID}", handler.GetCatalog)
	mux.HandleFunc("GET /v1/catalogs/{catalogID}/players", handler.ListCatalogPlayers)
}

func registerDraftRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/drafts", handler.CreateDraft)
	mux.HandleFunc("GET /v1/drafts", handler.ListDrafts)
	mux.HandleFunc("GET /v1/drafts/{draftID}", handler.GetDraft)
	mux.HandleFunc("DELETE /v1/drafts/{draftID}", handler.DeleteDraft)

	mux.HandleFunc("POST /v1/drafts/{draftID}/keepers", handler.ReserveKeeper)
	mux.HandleFunc("GET /v1/drafts/{draftID}/keepers", handler.ListKeepers)
	mux.HandleFunc("DELETE /v1/drafts/{draftID}/keepers/{playerID}", handler.RemoveKeeper)

	mux.HandleFunc("POST /v1/drafts/{draftID}/start", handler.StartDraft)
	mux.HandleFunc("POST /v1/drafts/{draftID}/picks", handler.ManualPick)
	mux.HandleFunc("POST /v1/drafts/{draftID}/autopick", handler.Autopick)
	mux.HandleFunc("POST /v1/drafts/{draftID}/advance", handler.AdvanceToUser)
	mux.HandleFunc("POST /v1/drafts/{draftID}/undo", handler.UndoPick)

	mux.HandleFunc("GET /v1/drafts/{draftID}/board", handler.GetBoard)
	mux.HandleFunc("GET /v1/drafts/{draftID}/remaining", handler.ListRemainingPlayers)
	mux.HandleFunc("GET /v1/drafts/{draftID}/teams/{team}/needs", handler.GetTeamNeeds)
	mux.HandleFunc("GET /v1/drafts/{draftID}/grades", handler.GetGrades)

	mux.HandleFunc("GET /v1/drafts/{draftID}/export/csv", handler.ExportDraftCSV)
	mux.HandleFunc("GET /v1/drafts/{draftID}/export/json", handler.ExportDraftJSON)
}

func registerSimulationRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/simulations", handler.RunSimulation)
}

func registerArchiveRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/archives", handler.ListArchives)
	mux.HandleFunc("GET /v1/archives/{archiveID}", handler.GetArchive)
	mux.HandleFunc("DELETE /v1/archives/{archiveID}", handler.DeleteArchive)
}
