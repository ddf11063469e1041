// Package content resolves raw configuration records and expertise cards into
// section view-models.
//
// Resolve is a pure function: the same snapshots always produce the same
// view, nothing is cached, and missing or malformed values fall back to the
// documented defaults instead of failing.
package content

import (
	"github.com/starford/vitrine/internal/gradient"
	"github.com/starford/vitrine/internal/icon"
	"github.com/starford/vitrine/internal/models"
)

// Hero is the resolved hero_image section.
type Hero struct {
	// ImagePath is the uploaded image, empty when the built-in one is used.
	ImagePath string `json:"image_path,omitempty"`
	Custom    bool   `json:"custom"`
}

// GeneralInfo is the resolved general_info section.
type GeneralInfo struct {
	Name string `json:"name"`
	CRP  string `json:"crp"`
}

// Credential is one resolved entry of the about section.
type Credential struct {
	ID       models.ID `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Gradient string    `json:"gradient"`
}

// Card is one resolved expertise card.
type Card struct {
	ID              models.ID     `json:"id"`
	Title           gradient.Text `json:"title"`
	Description     gradient.Text `json:"description"`
	Icon            icon.Name     `json:"icon"`
	Glyph           string        `json:"glyph"`
	BackgroundColor string        `json:"background_color,omitempty"`
}

// About is the resolved about_section, including its credentials and the
// expertise cards listed next to the profile.
type About struct {
	Name        string        `json:"name"`
	CRP         string        `json:"crp"`
	Title       gradient.Text `json:"title"`
	Subtitle    string        `json:"subtitle"`
	Description string        `json:"description"`
	Credentials []Credential  `json:"credentials"`
	// DefaultCredentials is true when no active credential was configured.
	DefaultCredentials bool   `json:"default_credentials"`
	Cards              []Card `json:"cards"`
}

// Specialization is the resolved specialization_section. Hidden is true when
// there are no active cards, in which case the section renders nothing.
type Specialization struct {
	Title       gradient.Text `json:"title"`
	Subtitle    gradient.Text `json:"subtitle"`
	Description gradient.Text `json:"description"`
	Cards       []Card        `json:"cards"`
	Hidden      bool          `json:"hidden"`
}

// View is the complete resolved page.
type View struct {
	Hero           Hero           `json:"hero_image"`
	GeneralInfo    GeneralInfo    `json:"general_info"`
	About          About          `json:"about_section"`
	Specialization Specialization `json:"specialization_section"`
}

// Map returns the plain mapping of section key to view-model.
func (v View) Map() map[string]any {
	return map[string]any{
		KeyHeroImage:      v.Hero,
		KeyGeneralInfo:    v.GeneralInfo,
		KeyAboutSection:   v.About,
		KeyCredentials:    v.About.Credentials,
		KeySpecialization: v.Specialization,
	}
}

// Section returns the view-model of key.
func (v View) Section(key string) (any, bool) {
	s, ok := v.Map()[key]
	return s, ok
}

// Resolve derives the page view from the current snapshots.
func Resolve(configs []models.ConfigRecord, cards []models.ExpertiseCard) View {
	info := resolveGeneralInfo(configs)
	active := ActiveSorted(cards)
	return View{
		Hero:           resolveHero(configs),
		GeneralInfo:    info,
		About:          resolveAbout(configs, info, active),
		Specialization: resolveSpecialization(configs, active),
	}
}

func resolveHero(configs []models.ConfigRecord) Hero {
	var v struct {
		Path string `json:"path"`
	}
	decodeObject(configs, KeyHeroImage, &v)
	return Hero{ImagePath: v.Path, Custom: v.Path != ""}
}

func resolveGeneralInfo(configs []models.ConfigRecord) GeneralInfo {
	var v struct {
		Name string `json:"name"`
		CRP  string `json:"crp"`
	}
	decodeObject(configs, KeyGeneralInfo, &v)
	return GeneralInfo{
		Name: orDefault(v.Name, DefaultName),
		CRP:  orDefault(v.CRP, DefaultCRP),
	}
}

// ResolveCredentials returns the active credentials ordered by rank, or the
// default credentials when none is configured. The second result reports
// whether the defaults were used.
func ResolveCredentials(configs []models.ConfigRecord) ([]Credential, bool) {
	var entries []models.CredentialEntry
	if raw, ok := Lookup(configs, KeyCredentials); ok {
		entries = ActiveSorted(decodeCredentials(raw))
	}
	defaulted := len(entries) == 0
	if defaulted {
		entries = DefaultCredentials()
	}
	out := make([]Credential, len(entries))
	for i, c := range entries {
		out[i] = Credential{ID: c.ID, Title: c.Title, Subtitle: c.Subtitle, Gradient: c.Gradient}
	}
	return out, defaulted
}

func resolveAbout(configs []models.ConfigRecord, info GeneralInfo, cards []models.ExpertiseCard) About {
	var v struct {
		Title       string `json:"title"`
		Subtitle    string `json:"subtitle"`
		Description string `json:"description"`
	}
	decodeObject(configs, KeyAboutSection, &v)
	creds, defaulted := ResolveCredentials(configs)
	return About{
		Name:               info.Name,
		CRP:                info.CRP,
		Title:              gradient.Parse(orDefault(v.Title, DefaultAboutTitle)),
		Subtitle:           orDefault(v.Subtitle, DefaultAboutSubtitle),
		Description:        orDefault(v.Description, DefaultAboutDescription),
		Credentials:        creds,
		DefaultCredentials: defaulted,
		Cards:              resolveCards(cards, icon.Extended),
	}
}

func resolveSpecialization(configs []models.ConfigRecord, cards []models.ExpertiseCard) Specialization {
	var v struct {
		Title       string `json:"title"`
		Subtitle    string `json:"subtitle"`
		Description string `json:"description"`
	}
	decodeObject(configs, KeySpecialization, &v)
	resolved := resolveCards(cards, icon.Core)
	return Specialization{
		Title:       gradient.Parse(orDefault(v.Title, DefaultSpecializationTitle)),
		Subtitle:    gradient.Parse(orDefault(v.Subtitle, DefaultSpecializationSubtitle)),
		Description: gradient.Parse(orDefault(v.Description, DefaultSpecializationDescription)),
		Cards:       resolved,
		Hidden:      len(resolved) == 0,
	}
}

// ResolveCards returns the active cards ordered by rank with icons resolved
// against the core vocabulary.
func ResolveCards(cards []models.ExpertiseCard) []Card {
	return resolveCards(ActiveSorted(cards), icon.Core)
}

// resolveCards expects cards already filtered and sorted.
func resolveCards(cards []models.ExpertiseCard, icons icon.Set) []Card {
	out := make([]Card, len(cards))
	for i, c := range cards {
		name := icons.Resolve(c.Icon)
		out[i] = Card{
			ID:              c.ID,
			Title:           gradient.Parse(c.Title),
			Description:     gradient.Parse(c.Description),
			Icon:            name,
			Glyph:           name.Glyph(),
			BackgroundColor: c.BackgroundColor,
		}
	}
	return out
}
