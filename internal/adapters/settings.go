// Package adapters contains anti-corruption adapters between bounded
// contexts. Modules depend on their own ports; adapters translate.
package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"montagehub_backend/internal/montages/domain"
	montagesvc "montagehub_backend/internal/montages/service"
	settingssvc "montagehub_backend/internal/settings/service"
	"montagehub_backend/platform/apperr"
	"montagehub_backend/platform/logger"
)

// Setting keys owned by the montages context.
const (
	KeyMontageAlertThresholds   = "montage_alert_thresholds"
	KeyMontageChecklistTemplate = "montage_checklist_template"
)

// MontageSettings adapts the settings module to the montages context's
// SettingsProvider port. Reads never fail: broken or missing values fall back
// to built-in defaults with a warning.
type MontageSettings struct {
	svc *settingssvc.Service
	log *logger.Logger
}

var _ montagesvc.SettingsProvider = (*MontageSettings)(nil)

// NewMontageSettings builds the adapter and registers the montage setting
// keys with strict write-time validation.
func NewMontageSettings(svc *settingssvc.Service, log *logger.Logger) *MontageSettings {
	svc.RegisterKey(KeyMontageAlertThresholds, validateAlertSettings)
	svc.RegisterKey(KeyMontageChecklistTemplate, validateChecklistTemplate)
	return &MontageSettings{svc: svc, log: log}
}

func (a *MontageSettings) AlertSettings(ctx context.Context) domain.AlertSettings {
	raw, err := a.svc.Get(ctx, KeyMontageAlertThresholds)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			a.log.ConfigFallback(KeyMontageAlertThresholds, err)
		}
		return domain.DefaultAlertSettings()
	}

	var settings domain.AlertSettings
	if err := json.Unmarshal(raw, &settings); err != nil {
		a.log.ConfigFallback(KeyMontageAlertThresholds, err)
		return domain.DefaultAlertSettings()
	}
	if err := checkThresholds(settings); err != nil {
		a.log.ConfigFallback(KeyMontageAlertThresholds, err)
		return domain.DefaultAlertSettings()
	}
	return settings
}

func (a *MontageSettings) ChecklistTemplateRaw(ctx context.Context) []byte {
	raw, err := a.svc.Get(ctx, KeyMontageChecklistTemplate)
	if err != nil {
		if !apperr.Is(err, apperr.KindNotFound) {
			a.log.ConfigFallback(KeyMontageChecklistTemplate, err)
		}
		return nil
	}
	return raw
}

func validateAlertSettings(raw []byte) error {
	var settings domain.AlertSettings
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&settings); err != nil {
		return fmt.Errorf("alert thresholds: %w", err)
	}
	return checkThresholds(settings)
}

func checkThresholds(settings domain.AlertSettings) error {
	if settings.MissingMeasurerDays < 0 || settings.MissingInstallerDays < 0 ||
		settings.MaterialOrderedDays < 0 || settings.MaterialInstockDays < 0 {
		return errors.New("alert thresholds must not be negative")
	}
	return nil
}

// validateChecklistTemplate rejects a template the resolver would throw away.
// Reads stay lenient; writes must not knowingly store garbage.
func validateChecklistTemplate(raw []byte) error {
	if _, reason := domain.ResolveTemplate(raw); reason != nil {
		return reason
	}
	return nil
}
