// Package echo provides a log-only resource handler. It accepts every group
// it is asked to validate and logs the resources it is asked to ensure
// instead of creating anything. Useful as a dispatch target for dry runs and
// for exercising the initializer end to end.
package echo

import (
	"github.com/rs/zerolog"

	"github.com/openplat/openplat/pkg/metadata"
)

// Handler implements metadata.ResourceHandler by logging.
type Handler struct {
	logger zerolog.Logger
}

// New creates an echo handler.
func New(logger zerolog.Logger) *Handler {
	return &Handler{
		logger: logger.With().Str("subsystem", "echo-handler").Logger(),
	}
}

// Validate accepts every descriptor group and logs it.
func (h *Handler) Validate(group []metadata.ResourceDescriptor) error {
	if len(group) == 0 {
		return nil
	}
	h.logger.Debug().
		Str("resource", group[0].ID()).
		Str("resource_type", group[0].Type()).
		Int("descriptors", len(group)).
		Msg("Validated resource group")
	return nil
}

// Ensure logs each resource instead of creating it.
func (h *Handler) Ensure(resources []metadata.ResourceDescriptor) error {
	for _, r := range resources {
		h.logger.Info().
			Str("resource", r.ID()).
			Str("resource_type", r.Type()).
			Str("initialization", r.Initialization().String()).
			Msg("Would ensure resource")
	}
	return nil
}
