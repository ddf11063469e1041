package api

import (
	"github.com/starford/vitrine/internal/content"
	"github.com/starford/vitrine/internal/gradient"
	"github.com/starford/vitrine/internal/livestore"
	"github.com/starford/vitrine/internal/reveal"
)

// SectionsResponse wraps every resolved section.
type SectionsResponse struct {
	Version  uint64         `json:"version"`
	Sections map[string]any `json:"sections"`
}

// SectionResponse wraps a single resolved section.
type SectionResponse struct {
	Key     string `json:"key"`
	Version uint64 `json:"version"`
	Section any    `json:"section"`
}

// ExpertiseResponse lists the active expertise cards in display order.
type ExpertiseResponse struct {
	Cards []content.Card `json:"cards"`
}

// StatusResponse reports the freshness of the upstream snapshots.
type StatusResponse struct {
	Version uint64             `json:"version"`
	Stores  []livestore.Status `json:"stores"`
	Mounted int                `json:"mounted"`
	// Reveal is the intersection rule clients should sample against.
	Reveal reveal.Options `json:"reveal"`
}

// GradientResponse is the segmentation of a text.
type GradientResponse = gradient.Text

// MountRequest mounts a section instance.
type MountRequest struct {
	Section string `json:"section"`
}

// MountResponse describes a newly mounted instance: its id and the frames
// children hold until the section becomes visible.
type MountResponse struct {
	ID      string          `json:"id"`
	Section string          `json:"section"`
	State   reveal.State    `json:"state"`
	Motions []reveal.Motion `json:"motions"`
	Cues    []reveal.Cue    `json:"cues"`
}

// ReportRequest is one intersection sample.
type ReportRequest = reveal.Entry

// ReportResponse is the instance state after a sample. Changed is true only
// for the sample that made the section visible.
type ReportResponse struct {
	ID      string       `json:"id"`
	State   reveal.State `json:"state"`
	Changed bool         `json:"changed"`
	Cues    []reveal.Cue `json:"cues"`
}
