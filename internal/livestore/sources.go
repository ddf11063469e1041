package livestore

import (
	"github.com/starford/vitrine/internal/models"
	"github.com/starford/vitrine/internal/source"
)

// ConfigStore holds the latest configuration records.
type ConfigStore = Store[models.ConfigRecord]

// ExpertiseStore holds the latest expertise cards.
type ExpertiseStore = Store[models.ExpertiseCard]

// NewConfigStore polls src for configuration records.
func NewConfigStore(src source.Source, opts ...Option[models.ConfigRecord]) *ConfigStore {
	return New("config", src.FetchConfigs, opts...)
}

// NewExpertiseStore polls src for expertise cards.
func NewExpertiseStore(src source.Source, opts ...Option[models.ExpertiseCard]) *ExpertiseStore {
	return New("expertise", src.FetchExpertise, opts...)
}
