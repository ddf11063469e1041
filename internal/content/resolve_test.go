package content

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starford/vitrine/internal/gradient"
	"github.com/starford/vitrine/internal/icon"
	"github.com/starford/vitrine/internal/models"
	"github.com/starford/vitrine/internal/reveal"
)

func records(t *testing.T, raw string) []models.ConfigRecord {
	t.Helper()
	var out []models.ConfigRecord
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func cardsFrom(t *testing.T, raw string) []models.ExpertiseCard {
	t.Helper()
	var out []models.ExpertiseCard
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	return out
}

func titles(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title.Raw
	}
	return out
}

func TestResolve_ExpertiseFilterAndOrder(t *testing.T) {
	cards := cardsFrom(t, `[
		{"id":1,"title":"A","isActive":false,"order":2},
		{"id":2,"title":"B","order":1},
		{"id":3,"title":"C","order":0}
	]`)

	v := Resolve(nil, cards)
	assert.Equal(t, []string{"C", "B"}, titles(v.Specialization.Cards))
	assert.Equal(t, []string{"C", "B"}, titles(v.About.Cards))
	assert.False(t, v.Specialization.Hidden)
	assert.Equal(t, []string{"C", "B"}, titles(ResolveCards(cards)))
}

func TestActiveSorted_MissingOrderIsZeroAndStable(t *testing.T) {
	cards := cardsFrom(t, `[
		{"id":1,"title":"one","order":1},
		{"id":2,"title":"two"},
		{"id":3,"title":"three","isActive":true,"order":0},
		{"id":4,"title":"four","order":-1},
		{"id":5,"title":"five","isActive":false}
	]`)

	got := ActiveSorted(cards)
	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Title
	}
	assert.Equal(t, []string{"four", "two", "three", "one"}, names)

	again := ActiveSorted(got)
	assert.Equal(t, got, again, "resolving twice must be idempotent")
	assert.Equal(t, "one", cards[0].Title, "input must not be reordered")
}

func TestLookup_LastOccurrenceWins(t *testing.T) {
	recs := records(t, `[
		{"key":"general_info","value":{"name":"First"}},
		{"key":"hero_image","value":{"path":"/a.jpg"}},
		{"key":"general_info","value":{"name":"Second"}}
	]`)

	raw, ok := Lookup(recs, KeyGeneralInfo)
	require.True(t, ok)
	assert.JSONEq(t, `{"name":"Second"}`, string(raw))

	_, ok = Lookup(recs, "missing")
	assert.False(t, ok)

	assert.Equal(t, "Second", Resolve(recs, nil).GeneralInfo.Name)
}

func TestResolve_Defaults(t *testing.T) {
	v := Resolve(nil, nil)

	assert.Equal(t, Hero{}, v.Hero)
	assert.Equal(t, GeneralInfo{Name: DefaultName, CRP: DefaultCRP}, v.GeneralInfo)

	assert.Equal(t, DefaultAboutTitle, v.About.Title.Raw)
	assert.Equal(t, DefaultAboutSubtitle, v.About.Subtitle)
	assert.Equal(t, DefaultAboutDescription, v.About.Description)
	assert.True(t, v.About.DefaultCredentials)
	require.Len(t, v.About.Credentials, 3)
	assert.Equal(t, "Centro Universitário Integrado", v.About.Credentials[0].Title)
	assert.Equal(t, "from-green-50 to-teal-50", v.About.Credentials[2].Gradient)
	assert.Empty(t, v.About.Cards)

	assert.Equal(t, DefaultSpecializationTitle, v.Specialization.Title.Raw)
	assert.Equal(t, DefaultSpecializationSubtitle, v.Specialization.Subtitle.Raw)
	assert.Equal(t, DefaultSpecializationDescription, v.Specialization.Description.Raw)
	assert.True(t, v.Specialization.Hidden, "no cards means the section renders nothing")
	assert.Empty(t, v.Specialization.Cards)
}

func TestResolve_AboutTitleDefaultWhenKeyMissing(t *testing.T) {
	recs := records(t, `[{"key":"general_info","value":{"name":"Ana"}}]`)
	v := Resolve(recs, nil)

	assert.Equal(t, "Minhas (especialidades)", v.About.Title.Raw)
	assert.Equal(t, []gradient.Segment{
		{Kind: gradient.Plain, Text: "Minhas ", Raw: "Minhas "},
		{Kind: gradient.Emphasized, Text: "especialidades", Raw: "(especialidades)"},
	}, v.About.Title.Segments)
	assert.Equal(t, "Ana", v.About.Name)
	assert.Equal(t, DefaultCRP, v.About.CRP)
}

func TestResolve_ConfiguredValues(t *testing.T) {
	recs := records(t, `[
		{"key":"hero_image","value":{"path":"/uploads/hero.webp"}},
		{"key":"general_info","value":{"name":"Dra. Ana","crp":"06/999"}},
		{"key":"about_section","value":{"title":"Sobre (mim)","subtitle":"","description":"Texto"}},
		{"key":"about_credentials","value":[
			{"id":"c1","title":"Mestrado","subtitle":"USP","gradient":"g1","order":2},
			{"id":"c2","title":"Oculto","isActive":false},
			{"id":"c3","title":"Graduação","subtitle":"UFPR","gradient":"g3","order":1}
		]},
		{"key":"specialization_section","value":{"title":"Minhas (áreas)","subtitle":"Ajuda","description":"Desc"}}
	]`)
	cards := cardsFrom(t, `[{"id":7,"title":"Ansiedade","description":"Apoio (real)","icon":"Sparkles","backgroundColor":"#fef"}]`)

	v := Resolve(recs, cards)

	assert.Equal(t, Hero{ImagePath: "/uploads/hero.webp", Custom: true}, v.Hero)
	assert.Equal(t, GeneralInfo{Name: "Dra. Ana", CRP: "06/999"}, v.GeneralInfo)
	assert.Equal(t, "Sobre (mim)", v.About.Title.Raw)
	assert.Equal(t, DefaultAboutSubtitle, v.About.Subtitle, "empty strings fall back to defaults")
	assert.Equal(t, "Texto", v.About.Description)
	assert.False(t, v.About.DefaultCredentials)
	require.Len(t, v.About.Credentials, 2)
	assert.Equal(t, "Graduação", v.About.Credentials[0].Title)
	assert.Equal(t, "Mestrado", v.About.Credentials[1].Title)

	assert.Equal(t, "Minhas (áreas)", v.Specialization.Title.Raw)
	require.Len(t, v.Specialization.Cards, 1)
	card := v.Specialization.Cards[0]
	assert.EqualValues(t, "7", card.ID)
	assert.Equal(t, icon.Brain, card.Icon, "Sparkles is not in the core vocabulary")
	assert.Equal(t, "brain", card.Glyph)
	assert.Equal(t, "#fef", card.BackgroundColor)
	assert.True(t, gradient.HasEmphasis(card.Description.Segments))

	require.Len(t, v.About.Cards, 1)
	assert.Equal(t, icon.Sparkles, v.About.Cards[0].Icon)
}

func TestResolve_MalformedValuesFallBack(t *testing.T) {
	recs := records(t, `[
		{"key":"general_info","value":"just a string"},
		{"key":"about_section","value":[1,2,3]},
		{"key":"about_credentials","value":{"not":"a list"}},
		{"key":"hero_image","value":null}
	]`)

	v := Resolve(recs, nil)
	assert.Equal(t, DefaultName, v.GeneralInfo.Name)
	assert.Equal(t, DefaultAboutTitle, v.About.Title.Raw)
	assert.True(t, v.About.DefaultCredentials)
	assert.False(t, v.Hero.Custom)
}

func TestResolveCredentials_AllInactiveFallsBack(t *testing.T) {
	recs := records(t, `[{"key":"about_credentials","value":[
		{"id":1,"title":"x","isActive":false},
		"garbage"
	]}]`)

	creds, defaulted := ResolveCredentials(recs)
	assert.True(t, defaulted)
	assert.Len(t, creds, 3)
}

func TestView_MapAndSection(t *testing.T) {
	v := Resolve(nil, nil)
	m := v.Map()
	for _, k := range Keys {
		_, ok := m[k]
		assert.True(t, ok, "missing key %s", k)
	}
	s, ok := v.Section(KeyGeneralInfo)
	require.True(t, ok)
	assert.Equal(t, v.GeneralInfo, s)

	_, ok = v.Section("footer")
	assert.False(t, ok)
}

func TestResolve_Pure(t *testing.T) {
	recs := records(t, `[{"key":"about_section","value":{"title":"A (b)"}}]`)
	cards := cardsFrom(t, `[{"id":1,"title":"x","order":3},{"id":2,"title":"y","order":1}]`)
	assert.Equal(t, Resolve(recs, cards), Resolve(recs, cards))
	assert.Equal(t, "x", cards[0].Title)
}

func TestChoreography(t *testing.T) {
	about := Choreography(KeyAboutSection, 0)
	require.Len(t, about, 2)
	assert.Equal(t, reveal.Frame{Opacity: 0, Y: 15}, about[0].Initial)
	assert.Equal(t, 800*time.Millisecond, about[1].Transition.Duration)
	assert.Equal(t, 200*time.Millisecond, about[1].Transition.Delay)

	grid := Choreography(KeySpecialization, 3)
	require.Len(t, grid, 4)
	assert.Equal(t, reveal.Frame{Opacity: 0, Y: 30}, grid[0].Initial)
	assert.Equal(t, time.Duration(0), grid[1].Transition.Delay)
	assert.Equal(t, 200*time.Millisecond, grid[3].Transition.Delay)

	assert.Nil(t, Choreography(KeyHeroImage, 0))
}
