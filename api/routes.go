package main

import "net/http"

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", app.healthz)

	mux.HandleFunc("POST /api/forms", app.openForm)
	mux.HandleFunc("GET /api/forms/{id}", app.getForm)
	mux.HandleFunc("DELETE /api/forms/{id}", app.discardForm)
	mux.HandleFunc("POST /api/forms/{id}/reset", app.resetForm)
	mux.HandleFunc("POST /api/forms/{id}/attachments", app.addAttachment)
	mux.HandleFunc("GET /api/forms/{id}/attachments/{key}", app.getAttachment)
	mux.HandleFunc("DELETE /api/forms/{id}/attachments/{key}", app.removeAttachment)
	mux.HandleFunc("POST /api/forms/{id}/submit", app.submitForm)

	mux.HandleFunc("GET /api/submissions", app.listSubmissions)
	mux.HandleFunc("GET /api/submissions/{id}", app.getSubmission)

	return requestLogger(mux)
}
