package service

import (
	"context"
	"testing"

	"montagehub_backend/internal/montages/domain"
	"montagehub_backend/platform/apperr"

	"github.com/google/uuid"
)

func TestEnsureChecklistMaterializesDefault(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	inserted, err := svc.EnsureChecklist(ctx, m.ID)
	if err != nil {
		t.Fatalf("EnsureChecklist: %v", err)
	}
	want := len(domain.DefaultTemplate())
	if inserted != want {
		t.Fatalf("inserted = %d, want %d", inserted, want)
	}

	items, err := repo.ListChecklistItems(ctx, m.ID)
	if err != nil {
		t.Fatalf("ListChecklistItems: %v", err)
	}
	for i, tmpl := range domain.DefaultTemplate() {
		if items[i].TemplateKey != tmpl.Key {
			t.Errorf("item[%d] key = %q, want %q", i, items[i].TemplateKey, tmpl.Key)
		}
	}
}

func TestEnsureChecklistIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	if _, err := svc.EnsureChecklist(ctx, m.ID); err != nil {
		t.Fatalf("first EnsureChecklist: %v", err)
	}
	firstInserts := repo.insertCalls

	inserted, err := svc.EnsureChecklist(ctx, m.ID)
	if err != nil {
		t.Fatalf("second EnsureChecklist: %v", err)
	}
	if inserted != 0 {
		t.Errorf("second call inserted %d rows, want 0", inserted)
	}
	if repo.insertCalls != firstInserts {
		t.Error("second call attempted an insert despite existing items")
	}
}

func TestEnsureChecklistSurvivesInsertRace(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	// Simulate a concurrent materializer winning between the count and the
	// insert: the count reads zero, but every row already exists, so the
	// conflict clause swallows all inserts and the call still succeeds.
	if _, err := repo.InsertChecklistItems(ctx, m.ID, domain.DefaultTemplate()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	repo.forceCountZero = true

	inserted, err := svc.EnsureChecklist(ctx, m.ID)
	if err != nil {
		t.Fatalf("EnsureChecklist: %v", err)
	}
	if inserted != 0 {
		t.Errorf("inserted = %d, want 0 after losing the race", inserted)
	}
}

func TestEnsureChecklistFallsBackOnBrokenTemplate(t *testing.T) {
	repo := newFakeRepo()
	settings := &fakeSettings{
		alerts:   domain.DefaultAlertSettings(),
		template: []byte(`{"not": "an array"}`),
	}
	svc := newTestService(repo, settings, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	inserted, err := svc.EnsureChecklist(ctx, m.ID)
	if err != nil {
		t.Fatalf("EnsureChecklist: %v", err)
	}
	if want := len(domain.DefaultTemplate()); inserted != want {
		t.Errorf("inserted = %d, want default template size %d", inserted, want)
	}
}

func TestEnsureChecklistUsesStoredTemplate(t *testing.T) {
	repo := newFakeRepo()
	settings := &fakeSettings{
		alerts: domain.DefaultAlertSettings(),
		template: []byte(`[
			{"key": "site_survey", "label": "Werkplek opgenomen", "requiresAttachment": false, "gate": "before_first_payment"},
			{"key": "final_photos", "label": "Eindfoto's gemaakt", "requiresAttachment": true, "gate": "before_final_invoice"}
		]`),
	}
	svc := newTestService(repo, settings, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	if _, err := svc.EnsureChecklist(ctx, m.ID); err != nil {
		t.Fatalf("EnsureChecklist: %v", err)
	}
	items, _ := repo.ListChecklistItems(ctx, m.ID)
	if len(items) != 2 {
		t.Fatalf("item count = %d, want 2", len(items))
	}
	if items[0].TemplateKey != "site_survey" || items[1].TemplateKey != "final_photos" {
		t.Errorf("keys = [%s %s], want [site_survey final_photos]", items[0].TemplateKey, items[1].TemplateKey)
	}
}

func TestGetChecklistMaterializesLazily(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &recordingBus{})
	ctx := context.Background()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})

	items, err := svc.GetChecklist(ctx, adminViewer(), m.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}
	if want := len(domain.DefaultTemplate()); len(items) != want {
		t.Errorf("item count = %d, want %d", len(items), want)
	}
}

func TestCompleteChecklistItem(t *testing.T) {
	repo := newFakeRepo()
	bus := &recordingBus{}
	svc := newTestService(repo, nil, bus)
	ctx := context.Background()
	viewer := adminViewer()

	m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})
	items, err := svc.GetChecklist(ctx, viewer, m.ID)
	if err != nil {
		t.Fatalf("GetChecklist: %v", err)
	}

	var plain, documented *struct {
		id  uuid.UUID
		key string
	}
	for _, item := range items {
		entry := &struct {
			id  uuid.UUID
			key string
		}{item.ID, item.TemplateKey}
		if item.RequiresAttachment && documented == nil {
			documented = entry
		}
		if !item.RequiresAttachment && plain == nil {
			plain = entry
		}
	}
	if plain == nil || documented == nil {
		t.Fatal("default template must contain both attachment and plain items")
	}

	t.Run("plain item completes and publishes", func(t *testing.T) {
		item, err := svc.CompleteChecklistItem(ctx, viewer, m.ID, plain.id)
		if err != nil {
			t.Fatalf("CompleteChecklistItem: %v", err)
		}
		if !item.Completed || item.CompletedBy == nil || *item.CompletedBy != viewer.UserID {
			t.Errorf("completion not recorded: %+v", item)
		}
		names := bus.names()
		if names[len(names)-1] != "montages.checklist.item_completed" {
			t.Errorf("last event = %q", names[len(names)-1])
		}
	})

	t.Run("completing again is a no-op", func(t *testing.T) {
		before := len(bus.names())
		item, err := svc.CompleteChecklistItem(ctx, viewer, m.ID, plain.id)
		if err != nil {
			t.Fatalf("CompleteChecklistItem: %v", err)
		}
		if !item.Completed {
			t.Error("item no longer completed")
		}
		if len(bus.names()) != before {
			t.Error("repeat completion published an event")
		}
	})

	t.Run("attachment required before completion", func(t *testing.T) {
		_, err := svc.CompleteChecklistItem(ctx, viewer, m.ID, documented.id)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("attach then complete succeeds", func(t *testing.T) {
		if _, err := svc.AttachToChecklistItem(ctx, viewer, m.ID, documented.id, "docs/measure-report.pdf"); err != nil {
			t.Fatalf("AttachToChecklistItem: %v", err)
		}
		item, err := svc.CompleteChecklistItem(ctx, viewer, m.ID, documented.id)
		if err != nil {
			t.Fatalf("CompleteChecklistItem: %v", err)
		}
		if !item.Completed {
			t.Error("item not completed after attaching")
		}
	})

	t.Run("empty attachment ref rejected", func(t *testing.T) {
		_, err := svc.AttachToChecklistItem(ctx, viewer, m.ID, documented.id, "")
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("err = %v, want validation error", err)
		}
	})

	t.Run("unknown item id", func(t *testing.T) {
		_, err := svc.CompleteChecklistItem(ctx, viewer, m.ID, uuid.New())
		if !apperr.Is(err, apperr.KindNotFound) {
			t.Fatalf("err = %v, want not found", err)
		}
	})
}

func TestReconcileChecklists(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo, nil, &recordingBus{})
	ctx := context.Background()

	var ids []uuid.UUID
	for i := 0; i < 5; i++ {
		m, _ := svc.CreateMontage(ctx, CreateMontageInput{ClientName: "X"})
		ids = append(ids, m.ID)
	}
	// One montage already has its checklist.
	if _, err := svc.EnsureChecklist(ctx, ids[0]); err != nil {
		t.Fatalf("seed EnsureChecklist: %v", err)
	}

	report, err := svc.ReconcileChecklists(ctx)
	if err != nil {
		t.Fatalf("ReconcileChecklists: %v", err)
	}
	if report.Scanned != 4 {
		t.Errorf("scanned = %d, want 4", report.Scanned)
	}
	if report.Repaired != 4 {
		t.Errorf("repaired = %d, want 4", report.Repaired)
	}
	if report.Failed != 0 {
		t.Errorf("failed = %d, want 0", report.Failed)
	}

	for _, id := range ids {
		items, _ := repo.ListChecklistItems(ctx, id)
		if len(items) != len(domain.DefaultTemplate()) {
			t.Errorf("montage %s has %d items after reconcile", id, len(items))
		}
	}

	t.Run("second pass finds nothing", func(t *testing.T) {
		report, err := svc.ReconcileChecklists(ctx)
		if err != nil {
			t.Fatalf("ReconcileChecklists: %v", err)
		}
		if report.Scanned != 0 || report.Repaired != 0 {
			t.Errorf("report = %+v, want all zero", report)
		}
	})
}
