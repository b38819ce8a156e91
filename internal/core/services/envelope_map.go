package services

import (
	"errors"
	"net/http"

	"github.com/AshesOfPhoenix/telepost/internal/core/domain"
)

// envelopeFromError translates a core error into the uniform response
// envelope. Provider rejections keep their stable status and native code
// in the envelope data; nothing depends on parsing the message text.
func envelopeFromError(platform domain.Provider, err error) domain.Envelope {
	var perr *domain.ProviderError
	var puberr *domain.PublishError

	switch {
	case errors.Is(err, domain.ErrMissingParameter):
		return domain.ErrorEnvelope(platform, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotConnected):
		return domain.MissingEnvelope(platform)
	case errors.Is(err, domain.ErrExpiredCredentials):
		return domain.ExpiredEnvelope(platform)
	case errors.As(err, &puberr):
		env := domain.ErrorEnvelope(platform, http.StatusInternalServerError, puberr.Error())
		env.Data = map[string]any{
			"stage":        string(puberr.Stage),
			"container_id": puberr.ContainerID,
		}
		return env
	case errors.As(err, &perr):
		env := domain.ErrorEnvelope(platform, http.StatusBadGateway, perr.Message)
		env.Data = map[string]any{
			"provider_status": perr.Status,
			"provider_code":   perr.Code,
			"details":         perr.Detail,
		}
		return env
	default:
		return domain.ErrorEnvelope(platform, http.StatusInternalServerError, err.Error())
	}
}
