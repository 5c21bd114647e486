package locale

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"maqamat/internal/combination"
)

//go:embed locales/*.toml
var embedded embed.FS

// ErrUnknownLanguage is returned when a language has no catalog file.
var ErrUnknownLanguage = errors.New("unknown language")

const namePrefix = "name."

type catalogFile struct {
	Meta struct {
		Name      string `toml:"name"`
		Direction string `toml:"direction"`
	} `toml:"meta"`
	Messages map[string]string `toml:"messages"`
	Names    map[string]string `toml:"names"`
}

type catalogLang struct {
	code      string
	tag       language.Tag
	name      string
	direction string
	keys      map[string]struct{}
}

// Catalog holds the messages of every loaded language.
type Catalog struct {
	builder   *catalog.Builder
	languages map[string]*catalogLang
	fallback  string
}

// Load reads <lang>.toml catalogs from dir, or the embedded catalogs when dir
// is empty. fallback names the language used for keys a catalog lacks.
func Load(dir, fallback string) (*Catalog, error) {
	var fsys fs.FS
	if dir == "" {
		sub, err := fs.Sub(embedded, "locales")
		if err != nil {
			return nil, fmt.Errorf("open embedded catalogs: %w", err)
		}
		fsys = sub
	} else {
		fsys = os.DirFS(dir)
	}
	return LoadFS(fsys, fallback)
}

// LoadFS reads <lang>.toml catalogs from the root of fsys.
func LoadFS(fsys fs.FS, fallback string) (*Catalog, error) {
	matches, err := fs.Glob(fsys, "*.toml")
	if err != nil {
		return nil, fmt.Errorf("list catalogs: %w", err)
	}
	if len(matches) == 0 {
		return nil, errors.New("no message catalogs found")
	}

	c := &Catalog{
		builder:   catalog.NewBuilder(),
		languages: make(map[string]*catalogLang, len(matches)),
		fallback:  fallback,
	}
	for _, name := range matches {
		if err := c.add(fsys, name); err != nil {
			return nil, err
		}
	}
	if _, ok := c.languages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q: %w", fallback, ErrUnknownLanguage)
	}
	return c, nil
}

func (c *Catalog) add(fsys fs.FS, name string) error {
	code := strings.ToLower(strings.TrimSuffix(path.Base(name), ".toml"))
	tag, err := language.Parse(code)
	if err != nil {
		return fmt.Errorf("catalog %s: invalid language: %w", name, err)
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read catalog %s: %w", name, err)
	}
	var file catalogFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse catalog %s: %w", name, err)
	}

	lang := &catalogLang{
		code:      code,
		tag:       tag,
		name:      file.Meta.Name,
		direction: strings.ToLower(strings.TrimSpace(file.Meta.Direction)),
		keys:      make(map[string]struct{}, len(file.Messages)+len(file.Names)),
	}
	if lang.direction != "rtl" {
		lang.direction = "ltr"
	}
	if lang.name == "" {
		lang.name = code
	}
	set := func(key, msg string) error {
		if err := c.builder.SetString(tag, key, msg); err != nil {
			return fmt.Errorf("catalog %s: key %q: %w", name, key, err)
		}
		lang.keys[key] = struct{}{}
		return nil
	}
	for key, msg := range file.Messages {
		if err := set(key, msg); err != nil {
			return err
		}
	}
	for key, msg := range file.Names {
		if err := set(namePrefix+key, msg); err != nil {
			return err
		}
	}
	c.languages[code] = lang
	return nil
}

// Languages returns the loaded language codes, sorted.
func (c *Catalog) Languages() []string {
	codes := make([]string, 0, len(c.languages))
	for code := range c.languages {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Localizer returns the translator for lang.
func (c *Catalog) Localizer(lang string) (*Localizer, error) {
	entry, ok := c.languages[strings.ToLower(lang)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", lang, ErrUnknownLanguage)
	}
	fallback := c.languages[c.fallback]
	return &Localizer{
		lang:     entry,
		fallback: fallback,
		printer:  message.NewPrinter(entry.tag, message.Catalog(c.builder)),
		backup:   message.NewPrinter(fallback.tag, message.Catalog(c.builder)),
		title:    cases.Title(language.Und),
	}, nil
}

// Localizer translates messages and names for one language.
type Localizer struct {
	lang     *catalogLang
	fallback *catalogLang
	printer  *message.Printer
	backup   *message.Printer
	title    cases.Caser
}

// Code returns the language code, e.g. "ar".
func (l *Localizer) Code() string { return l.lang.code }

// Name returns the language's own name, e.g. "العربية".
func (l *Localizer) Name() string { return l.lang.name }

// Direction returns "rtl" or "ltr".
func (l *Localizer) Direction() string { return l.lang.direction }

// T formats the message stored under key. Missing keys fall back to the
// fallback language, then to the key itself.
func (l *Localizer) T(key string, args ...any) string {
	if _, ok := l.lang.keys[key]; ok {
		return l.printer.Sprintf(key, args...)
	}
	if _, ok := l.fallback.keys[key]; ok {
		return l.backup.Sprintf(key, args...)
	}
	return key
}

// Jins translates a jins or maqam name. Names absent from every catalog are
// title-cased with underscores turned into spaces.
func (l *Localizer) Jins(name string) string {
	key := namePrefix + name
	if _, ok := l.lang.keys[key]; ok {
		return l.printer.Sprintf(key)
	}
	if _, ok := l.fallback.keys[key]; ok {
		return l.backup.Sprintf(key)
	}
	return l.title.String(strings.ReplaceAll(name, "_", " "))
}

// Label translates each jins of a combination expression, dropping overlap
// digits: "saba3 + hijaz" becomes "Saba + Hijaz".
func (l *Localizer) Label(expression string) string {
	names := combination.Label(expression)
	for i, name := range names {
		names[i] = l.Jins(name)
	}
	return strings.Join(names, combination.Separator)
}
