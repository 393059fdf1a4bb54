package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"sync/atomic"

	"apbdes/internal/core"
	"apbdes/internal/imagedata"
	applog "apbdes/internal/log"
	"apbdes/internal/session"
)

const (
	maxFormBytes   = 64 << 10
	maxUploadBytes = imagedata.MaxUploadBytes + 64<<10
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	doc, err := s.sessions.Get(r.Context(), sid)
	if err != nil {
		s.structured.LogError(r.Context(), "Session load failed", err, applog.ComponentSession, applog.OpRender,
			applog.NewFields().WithSession(sid))
		http.Error(w, "document unavailable", http.StatusInternalServerError)
		return
	}
	s.renderView(w, r, viewIndex, doc, NewHTMXResponse())
}

// handleBanner renders the banner fragment alone.
func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	doc, err := s.sessions.Get(r.Context(), sid)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpRender, nil, err)
		return
	}
	s.renderView(w, r, viewBanner, doc, NewHTMXResponse())
}

// handleDocument returns the session document with its totals as JSON.
func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	doc, err := s.sessions.Get(r.Context(), sid)
	if err != nil {
		s.structured.LogError(r.Context(), "Session load failed", err, applog.ComponentSession, applog.OpRender,
			applog.NewFields().WithSession(sid))
		http.Error(w, "document unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(struct {
		Document core.Document `json:"document"`
		Totals   core.Totals   `json:"totals"`
	}{doc, core.Aggregate(doc)})
}

func (s *Server) handleUpdateHeader(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	field, err := core.ParseHeaderField(p.Get("field"))
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpdateHeader, nil, err)
		return
	}
	value := p.Get("value")
	fields := applog.NewFields()
	fields[applog.FieldField] = string(field)

	doc, err := s.sessions.Update(r.Context(), sid, func(d core.Document) (core.Document, error) {
		return core.UpdateHeader(d, field, value)
	})
	s.respondEdit(w, r, sid, applog.OpUpdateHeader, fields, viewBanner, doc, err)
}

func (s *Server) handleAddRow(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	target, err := ParseRowTarget(p)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpAddRow, nil, err)
		return
	}

	doc, err := s.sessions.Update(r.Context(), sid, func(d core.Document) (core.Document, error) {
		return core.AddRow(d, target, s.ids)
	})
	index := -1
	if rows, rerr := doc.Rows(target); err == nil && rerr == nil {
		index = len(rows) - 1
	}
	fields := applog.NewFields().WithRow(target.Group.String(), target.Section, index)
	s.respondEdit(w, r, sid, applog.OpAddRow, fields, viewWorkspace, doc, err)
}

func (s *Server) handleRemoveRow(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	target, err := ParseRowTarget(p)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpRemoveRow, nil, err)
		return
	}
	index, err := ParseRowIndex(p)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpRemoveRow, nil, err)
		return
	}

	doc, err := s.sessions.Update(r.Context(), sid, func(d core.Document) (core.Document, error) {
		return core.RemoveRow(d, target, index)
	})
	fields := applog.NewFields().WithRow(target.Group.String(), target.Section, index)
	s.respondEdit(w, r, sid, applog.OpRemoveRow, fields, viewWorkspace, doc, err)
}

// handleUpdateRow edits one cell. Amount cells accept any format
// core.ParseAmount understands; an unparsable amount leaves the row as is.
func (s *Server) handleUpdateRow(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	p, ok := s.parseBody(w, r)
	if !ok {
		return
	}
	target, err := ParseRowTarget(p)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpdateRow, nil, err)
		return
	}
	index, err := ParseRowIndex(p)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpdateRow, nil, err)
		return
	}
	field, err := core.ParseRowField(p.Get("field"))
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpdateRow, nil, err)
		return
	}
	fields := applog.NewFields().WithRow(target.Group.String(), target.Section, index)
	fields[applog.FieldField] = string(field)

	value := p.Get("value")
	var edit func(core.Document) (core.Document, error)
	if field == core.FieldDescription {
		edit = func(d core.Document) (core.Document, error) {
			return core.UpdateRowDescription(d, target, index, value)
		}
	} else {
		amount, err := core.ParseAmount(value)
		if err != nil {
			s.editFailed(w, r, sid, applog.OpUpdateRow, fields, err)
			return
		}
		edit = func(d core.Document) (core.Document, error) {
			return core.UpdateRowAmount(d, target, index, field, amount)
		}
	}

	doc, err := s.sessions.Update(r.Context(), sid, edit)
	s.respondEdit(w, r, sid, applog.OpUpdateRow, fields, viewBanner, doc, err)
}

// handleUploadImage stores an uploaded file as the data URL of a slot.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	slot, err := core.ParseImageSlot(r.PathValue("slot"))
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpload, nil, err)
		return
	}
	fields := applog.NewFields()
	fields[applog.FieldSlot] = string(slot)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.editFailed(w, r, sid, applog.OpUpload, fields, imagedata.ErrTooLarge)
			return
		}
		s.logger.WarnContext(r.Context(), "Invalid upload", applog.FieldError, err, applog.FieldSlot, string(slot))
		BadRequestError("Format permintaan tidak valid").Write(w)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpload, fields, imagedata.ErrEmpty)
		return
	}
	defer file.Close()

	ref, err := imagedata.FromUpload(file)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpUpload, fields, err)
		return
	}

	doc, err := s.sessions.Update(r.Context(), sid, func(d core.Document) (core.Document, error) {
		return core.SetImage(d, slot, ref)
	})
	s.respondEdit(w, r, sid, applog.OpUpload, fields, viewWorkspace, doc, err)
}

func (s *Server) handleClearImage(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	slot, err := core.ParseImageSlot(r.PathValue("slot"))
	if err != nil {
		s.editFailed(w, r, sid, applog.OpClearImage, nil, err)
		return
	}
	fields := applog.NewFields()
	fields[applog.FieldSlot] = string(slot)

	doc, err := s.sessions.Update(r.Context(), sid, func(d core.Document) (core.Document, error) {
		return core.SetImage(d, slot, "")
	})
	s.respondEdit(w, r, sid, applog.OpClearImage, fields, viewWorkspace, doc, err)
}

// handleReset replaces the session document with a fresh seed.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	sid := s.sessionID(w, r)
	doc, err := s.sessions.Reset(r.Context(), sid)
	if err != nil {
		s.editFailed(w, r, sid, applog.OpReset, nil, err)
		return
	}
	atomic.AddInt64(&s.appMetrics.edits, 1)
	s.structured.LogEdit(r.Context(), sid, applog.OpReset, applog.NewFields())
	s.renderView(w, r, viewWorkspace, doc, NewHTMXResponse().
		TriggerDocumentReset().
		TriggerSuccessNotification("Data dikembalikan ke awal"))
}

// parseBody reads a form or JSON body. On failure the response is already
// written.
func (s *Server) parseBody(w http.ResponseWriter, r *http.Request) (*RequestBodyParser, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	p := NewRequestBodyParser(r)
	if err := p.Parse(); err != nil {
		s.logger.WarnContext(r.Context(), "Invalid request body", applog.FieldError, err, applog.FieldPath, r.URL.Path)
		BadRequestError("Format permintaan tidak valid").Write(w)
		return nil, false
	}
	return p, true
}

// respondEdit answers an edit with the refreshed view, or with an error
// fragment when the edit was rejected. A rejected edit never changes the
// stored document.
func (s *Server) respondEdit(w http.ResponseWriter, r *http.Request, sid, op string, fields applog.LogFields, view string, doc core.Document, err error) {
	if err != nil {
		s.editFailed(w, r, sid, op, fields, err)
		return
	}
	if fields == nil {
		fields = applog.NewFields()
	}
	atomic.AddInt64(&s.appMetrics.edits, 1)
	s.structured.LogEdit(r.Context(), sid, op, fields)
	s.renderView(w, r, view, doc, NewHTMXResponse().TriggerDocumentChanged(view))
}

func (s *Server) editFailed(w http.ResponseWriter, r *http.Request, sid, op string, fields applog.LogFields, err error) {
	if fields == nil {
		fields = applog.NewFields()
	}
	fields = fields.WithSession(sid)
	status, msg := editError(err)
	if status >= http.StatusInternalServerError {
		s.structured.LogError(r.Context(), "Edit failed", err, applog.ComponentEditor, op, fields)
	} else {
		s.logger.WarnContext(r.Context(), "Edit rejected", fields.WithError(err).WithOperation(op).ToSlice()...)
	}
	ErrorResponse(status, msg).TriggerErrorNotification(msg).Write(w)
}

// editError maps an edit failure to a status and a message for the user.
func editError(err error) (int, string) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		return http.StatusUnprocessableEntity, "Nominal tidak valid"
	case errors.Is(err, core.ErrInvalidYear):
		return http.StatusUnprocessableEntity, "Tahun harus berupa angka"
	case errors.Is(err, imagedata.ErrTooLarge):
		return http.StatusUnprocessableEntity, "Ukuran gambar maksimal 5 MB"
	case errors.Is(err, imagedata.ErrUnsupportedType), errors.Is(err, imagedata.ErrEmpty):
		return http.StatusUnprocessableEntity, "Berkas harus berupa gambar PNG, JPEG atau SVG"
	case errors.Is(err, core.ErrRowOutOfRange),
		errors.Is(err, core.ErrUnknownSection),
		errors.Is(err, core.ErrUnknownGroup),
		errors.Is(err, core.ErrUnknownField):
		return http.StatusBadRequest, "Baris tidak ditemukan"
	case errors.Is(err, core.ErrUnknownSlot):
		return http.StatusNotFound, "Slot gambar tidak dikenal"
	case errors.Is(err, session.ErrInvalidID):
		return http.StatusBadRequest, "Sesi tidak valid"
	}
	return http.StatusInternalServerError, "Gagal memperbarui data"
}

// renderView executes view into a buffer first so a template error never
// leaves a half written fragment.
func (s *Server) renderView(w http.ResponseWriter, r *http.Request, view string, doc core.Document, resp *HTMXResponseBuilder) {
	if s.templates == nil {
		s.logger.ErrorContext(r.Context(), "Templates not loaded",
			applog.FieldPath, r.URL.Path,
			"error_type", applog.ErrorTypeConfiguration)
		InternalServerError("Template tidak tersedia").Write(w)
		return
	}
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, view, s.page(doc)); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err, applog.ComponentTemplate, applog.OpRender,
			applog.LogFields{"template": view})
		InternalServerError("Gagal menampilkan banner").Write(w)
		return
	}
	resp.BodyHTML(buf.String()).Write(w)
}
