package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path"
	"time"

	"maqamat/internal/jins"
	"maqamat/internal/locale"
	"maqamat/internal/maqam"
	"maqamat/internal/scale"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

// Content is the assembled data rendered into every language.
type Content struct {
	Ajnas   []jins.Jins
	Maqamat []*maqam.Maqam
}

// Assets names the fingerprinted static files a page links to, relative to
// the page.
type Assets struct {
	CSS string
	JS  string
}

type languageLink struct {
	Code    string
	Name    string
	Href    string
	Current bool
}

type maqamView struct {
	Name     string
	ImageURL string
	Tonic    jins.Jins
	Ghammaz  []jins.Jins
	Views    []scale.Mask
}

// MatchData is the finder payload: binary views per maqam.
type MatchData struct {
	Width   int                 `json:"width"`
	Maqamat map[string][]uint32 `json:"maqamat"`
}

type pageData struct {
	Lang        string
	Dir         string
	Title       string
	RunID       string
	GeneratedAt string
	Languages   []languageLink
	Degrees     []int
	Ajnas       []jins.Jins
	Maqamat     []maqamView
	MatchData   MatchData
	Assets      Assets
}

// Renderer turns assembled content into one HTML page per language.
type Renderer struct {
	tmpl         *template.Template
	catalog      *locale.Catalog
	title        string
	imageBaseURL string
	now          func() time.Time
}

// NewRenderer parses the embedded templates.
func NewRenderer(cat *locale.Catalog, title, imageBaseURL string) (*Renderer, error) {
	tmpl, err := template.New("").Funcs(baseFuncs()).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl:         tmpl,
		catalog:      cat,
		title:        title,
		imageBaseURL: imageBaseURL,
		now:          time.Now,
	}, nil
}

// NewMatchData collects the binary views the finder script matches against.
func NewMatchData(maqamat []*maqam.Maqam) MatchData {
	data := MatchData{Width: scale.Width, Maqamat: make(map[string][]uint32, len(maqamat))}
	for _, m := range maqamat {
		views := m.BinaryViews()
		raw := make([]uint32, len(views))
		for i, v := range views {
			raw[i] = uint32(v)
		}
		data.Maqamat[m.Name()] = raw
	}
	return data
}

// Render executes the page template for lang. languages lists every rendered
// language for the switcher. Interval values outside the vocabulary fail the
// render.
func (r *Renderer) Render(lang string, languages []string, content Content, assets Assets, runID string) ([]byte, error) {
	loc, err := r.catalog.Localizer(lang)
	if err != nil {
		return nil, err
	}
	tmpl, err := r.tmpl.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone templates: %w", err)
	}
	tmpl.Funcs(localizedFuncs(loc))

	data := pageData{
		Lang:        loc.Code(),
		Dir:         loc.Direction(),
		Title:       r.title,
		RunID:       runID,
		GeneratedAt: r.now().UTC().Format(time.RFC3339),
		Ajnas:       content.Ajnas,
		MatchData:   NewMatchData(content.Maqamat),
		Assets:      assets,
	}
	for d := 0; d < scale.Width; d++ {
		data.Degrees = append(data.Degrees, d)
	}
	for _, code := range languages {
		name := code
		if other, err := r.catalog.Localizer(code); err == nil {
			name = other.Name()
		}
		data.Languages = append(data.Languages, languageLink{
			Code:    code,
			Name:    name,
			Href:    path.Join("..", code, PageName),
			Current: code == loc.Code(),
		})
	}
	for _, m := range content.Maqamat {
		view := maqamView{
			Name:    m.Name(),
			Tonic:   m.Tonic(),
			Ghammaz: m.Ghammaz(),
			Views:   m.BinaryViews(),
		}
		if r.imageBaseURL != "" {
			view.ImageURL = r.imageBaseURL + "/" + m.Name() + ".png"
		}
		data.Maqamat = append(data.Maqamat, view)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "index", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", lang, err)
	}
	return buf.Bytes(), nil
}
