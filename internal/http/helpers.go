package http

import (
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"apbdes/internal/core"
	"apbdes/internal/export"
	"apbdes/internal/render"
	"apbdes/internal/session"
)

const sessionCookie = "apbdes_session"

// sessionID returns the session of the request, issuing a new one when the
// cookie is missing or malformed. The cookie is refreshed on every call so
// it lives as long as the server side document.
func (s *Server) sessionID(w http.ResponseWriter, r *http.Request) string {
	var id string
	if c, err := r.Cookie(sessionCookie); err == nil && session.ValidID(c.Value) {
		id = c.Value
	} else {
		id = session.NewID()
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.sessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	result := strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
	return result
}

// imageSrc marks a stored image reference as safe for src attributes.
// Only inline image data is accepted; anything else renders nothing.
func imageSrc(ref string) template.URL {
	if !strings.HasPrefix(ref, "data:image/") {
		return ""
	}
	return template.URL(ref)
}

// backgroundStyle is the inline style of the banner backdrop.
func backgroundStyle(ref string) template.CSS {
	src := imageSrc(ref)
	if src == "" || strings.ContainsAny(string(src), `"()\`) {
		return ""
	}
	return template.CSS(`background-image: url("` + string(src) + `")`)
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"imgsrc":     imageSrc,
		"background": backgroundStyle,
		"columns":    func() [4]string { return render.Columns },
	}
}

const (
	viewIndex     = "index.html"
	viewWorkspace = "workspace"
	viewBanner    = "banner"
)

type (
	headerInput struct {
		Field core.HeaderField
		Label string
		Value string
		Type  string
	}

	slotInput struct {
		Slot  core.ImageSlot
		Label string
		Ref   string
		Set   bool
	}

	rowInput struct {
		Index       int
		Description string
		Initial     core.Amount
		Final       core.Amount
	}

	rowGroup struct {
		Title   string
		Group   string
		Section int
		Color   core.Color
		Rows    []rowInput
	}

	pageData struct {
		Banner  *render.Banner
		Header  []headerInput
		Slots   []slotInput
		Groups  []rowGroup
		Formats []export.Format
	}
)

var slotLabels = map[core.ImageSlot]string{
	core.SlotLogoRegency:  "Logo Kabupaten",
	core.SlotLogoMinistry: "Logo Kemendesa",
	core.SlotHeadshot:     "Foto Kepala Desa",
	core.SlotBackground:   "Gambar Latar",
}

// page builds the editor and banner view of doc.
func (s *Server) page(doc core.Document) pageData {
	b := render.Build(doc)
	h := doc.Header
	data := pageData{
		Banner: b,
		Header: []headerInput{
			{Field: core.HeaderVillage, Label: "Nama Desa", Value: h.VillageName, Type: "text"},
			{Field: core.HeaderDistrict, Label: "Kecamatan", Value: h.DistrictName, Type: "text"},
			{Field: core.HeaderRegency, Label: "Kabupaten", Value: h.RegencyName, Type: "text"},
			{Field: core.HeaderHead, Label: "Kepala Desa", Value: h.HeadOfVillageName, Type: "text"},
			{Field: core.HeaderYear, Label: "Tahun Anggaran", Value: strconv.Itoa(h.Year), Type: "number"},
		},
		Formats: s.formats,
	}
	for _, slot := range core.ImageSlots {
		ref := h.Image(slot)
		data.Slots = append(data.Slots, slotInput{Slot: slot, Label: slotLabels[slot], Ref: ref, Set: ref != ""})
	}

	data.Groups = append(data.Groups, editorGroup(b.Revenue, doc.Revenue))
	for i, c := range b.Expenditure {
		data.Groups = append(data.Groups, editorGroup(c, doc.Expenditure[i].Rows))
	}
	data.Groups = append(data.Groups,
		editorGroup(b.FinancingIn, doc.Financing.In),
		editorGroup(b.FinancingOut, doc.Financing.Out),
	)
	return data
}

func editorGroup(c render.Card, rows []core.LineItem) rowGroup {
	g := rowGroup{
		Title:   c.Title,
		Group:   c.Group.String(),
		Section: c.Section,
		Color:   c.Color,
		Rows:    make([]rowInput, len(rows)),
	}
	for i, r := range rows {
		g.Rows[i] = rowInput{Index: i, Description: r.Description, Initial: r.Initial, Final: r.Final}
	}
	return g
}
