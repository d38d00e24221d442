package adapters

import (
	"context"
	"testing"

	"montagehub_backend/internal/montages/domain"
	settingssvc "montagehub_backend/internal/settings/service"
	"montagehub_backend/platform/apperr"
	"montagehub_backend/platform/logger"
)

type memStore struct {
	values map[string][]byte
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	value, ok := m.values[key]
	if !ok {
		return nil, apperr.NotFound("setting not found: " + key)
	}
	return value, nil
}

func (m *memStore) Upsert(_ context.Context, key string, value []byte) error {
	m.values[key] = value
	return nil
}

func newAdapter(stored map[string][]byte) (*MontageSettings, *settingssvc.Service) {
	svc := settingssvc.NewService(&memStore{values: stored})
	return NewMontageSettings(svc, logger.New("development")), svc
}

func TestAlertSettingsDefaults(t *testing.T) {
	tests := []struct {
		name   string
		stored map[string][]byte
		want   domain.AlertSettings
	}{
		{
			name:   "absent falls back to defaults",
			stored: map[string][]byte{},
			want:   domain.DefaultAlertSettings(),
		},
		{
			name: "malformed falls back to defaults",
			stored: map[string][]byte{
				KeyMontageAlertThresholds: []byte(`{"missingMeasurerDays": "soon"}`),
			},
			want: domain.DefaultAlertSettings(),
		},
		{
			name: "negative threshold falls back to defaults",
			stored: map[string][]byte{
				KeyMontageAlertThresholds: []byte(`{"missingMeasurerDays": -1, "missingInstallerDays": 14, "materialOrderedDays": 7, "materialInstockDays": 14}`),
			},
			want: domain.DefaultAlertSettings(),
		},
		{
			name: "stored value wins",
			stored: map[string][]byte{
				KeyMontageAlertThresholds: []byte(`{"missingMeasurerDays": 3, "missingInstallerDays": 10, "materialOrderedDays": 5, "materialInstockDays": 21}`),
			},
			want: domain.AlertSettings{
				MissingMeasurerDays:  3,
				MissingInstallerDays: 10,
				MaterialOrderedDays:  5,
				MaterialInstockDays:  21,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adapter, _ := newAdapter(tc.stored)
			got := adapter.AlertSettings(context.Background())
			if got != tc.want {
				t.Errorf("AlertSettings() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestChecklistTemplateRaw(t *testing.T) {
	t.Run("absent yields nil", func(t *testing.T) {
		adapter, _ := newAdapter(map[string][]byte{})
		if raw := adapter.ChecklistTemplateRaw(context.Background()); raw != nil {
			t.Errorf("ChecklistTemplateRaw() = %s, want nil", raw)
		}
	})

	t.Run("stored bytes pass through untouched", func(t *testing.T) {
		stored := []byte(`[{"key": "a_key", "label": "A", "requiresAttachment": false, "gate": "before_first_payment"}]`)
		adapter, _ := newAdapter(map[string][]byte{KeyMontageChecklistTemplate: stored})
		raw := adapter.ChecklistTemplateRaw(context.Background())
		if string(raw) != string(stored) {
			t.Errorf("ChecklistTemplateRaw() = %s, want %s", raw, stored)
		}
	})
}

func TestWriteValidation(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects negative thresholds", func(t *testing.T) {
		_, svc := newAdapter(map[string][]byte{})
		err := svc.Set(ctx, KeyMontageAlertThresholds, []byte(`{"missingMeasurerDays": -2}`))
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects unknown threshold fields", func(t *testing.T) {
		_, svc := newAdapter(map[string][]byte{})
		err := svc.Set(ctx, KeyMontageAlertThresholds, []byte(`{"missingPainterDays": 4}`))
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects template with duplicate keys", func(t *testing.T) {
		_, svc := newAdapter(map[string][]byte{})
		err := svc.Set(ctx, KeyMontageChecklistTemplate, []byte(`[
			{"key": "a_key", "label": "A", "requiresAttachment": false, "gate": "before_first_payment"},
			{"key": "a_key", "label": "B", "requiresAttachment": false, "gate": "before_final_invoice"}
		]`))
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		_, svc := newAdapter(map[string][]byte{})
		err := svc.Set(ctx, "favorite_color", []byte(`"blue"`))
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})

	t.Run("accepts a valid template", func(t *testing.T) {
		adapter, svc := newAdapter(map[string][]byte{})
		template := []byte(`[{"key": "site_survey", "label": "Opname", "requiresAttachment": true, "gate": "before_first_payment"}]`)
		if err := svc.Set(ctx, KeyMontageChecklistTemplate, template); err != nil {
			t.Fatalf("Set: %v", err)
		}
		items, reason := domain.ResolveTemplate(adapter.ChecklistTemplateRaw(ctx))
		if reason != nil {
			t.Fatalf("stored template did not resolve: %v", reason)
		}
		if len(items) != 1 || items[0].Key != "site_survey" {
			t.Errorf("resolved items = %+v", items)
		}
	})
}
