package content

import "github.com/starford/vitrine/internal/models"

// Section keys of the configuration collection.
const (
	KeyHeroImage      = "hero_image"
	KeyGeneralInfo    = "general_info"
	KeyAboutSection   = "about_section"
	KeyCredentials    = "about_credentials"
	KeySpecialization = "specialization_section"
)

// Keys lists every section key in page order.
var Keys = []string{KeyHeroImage, KeyGeneralInfo, KeyAboutSection, KeyCredentials, KeySpecialization}

// Fallback values used when a key is absent or a field is empty. This is the
// single source of truth for what a visitor sees before the admin panel has
// been filled in.
const (
	DefaultName = "Dra. Adrielle Benhossi"
	DefaultCRP  = "08/123456"

	DefaultAboutTitle       = "Minhas (especialidades)"
	DefaultAboutSubtitle    = "Áreas especializadas onde posso te ajudar a encontrar equilíbrio e bem-estar emocional"
	DefaultAboutDescription = "Este é o espaço para escrever sobre você no painel administrativo."

	DefaultSpecializationTitle       = "Áreas de Especialização"
	DefaultSpecializationSubtitle    = "Como posso te ajudar"
	DefaultSpecializationDescription = "Oferecemos apoio especializado nas principais áreas da saúde mental"
)

// DefaultCredentials is shown when about_credentials holds no active entry.
func DefaultCredentials() []models.CredentialEntry {
	return []models.CredentialEntry{
		{ID: "default-education", Title: "Centro Universitário Integrado", Subtitle: "Formação Acadêmica", Gradient: "from-pink-50 to-purple-50"},
		{ID: "default-approach", Title: "Terapia Cognitivo-Comportamental", Subtitle: "Abordagem Terapêutica", Gradient: "from-purple-50 to-indigo-50"},
		{ID: "default-experience", Title: "Mais de 5 anos de experiência", Subtitle: "Experiência Profissional", Gradient: "from-green-50 to-teal-50"},
	}
}

// orDefault treats the empty string as absent.
func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
