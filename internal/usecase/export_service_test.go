package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"testing"

	sonic "github.com/bytedance/sonic"

	"github.com/draftday/draftsim/internal/platform/logging"
)

func newExportFixture(t *testing.T) (*ExportService, string) {
	t.Helper()

	drafts, catalogID := newDraftFixture(t, nil)
	seed := int64(11)

	view, err := drafts.Create(context.Background(), CreateDraftInput{
		Name: "export me", CatalogID: catalogID, TeamCount: 8, RoundCount: 15, Seed: &seed,
	})
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := drafts.Autopick(context.Background(), view.ID); err != nil {
			t.Fatalf("autopick %d: %v", i, err)
		}
	}

	return NewExportService(drafts, logging.NewNop()), view.ID
}

func TestExportService_CSV(t *testing.T) {
	service, draftID := newExportFixture(t)

	out, err := service.ExportCSV(context.Background(), draftID)
	if err != nil {
		t.Fatalf("export csv: %v", err)
	}

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("read exported csv: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d records", len(records))
	}
	if records[0][0] != "overall" || records[0][3] != "player_id" {
		t.Fatalf("unexpected header %v", records[0])
	}
	// Rows are 1-based for spreadsheet readers.
	if records[1][0] != "1" || records[1][1] != "1" || records[1][2] != "1" {
		t.Fatalf("expected 1-based first row, got %v", records[1])
	}
	if records[1][3] == "" || records[1][5] == "" {
		t.Fatalf("first row missing player fields: %v", records[1])
	}
}

func TestExportService_JSON(t *testing.T) {
	service, draftID := newExportFixture(t)

	out, err := service.ExportJSON(context.Background(), draftID)
	if err != nil {
		t.Fatalf("export json: %v", err)
	}

	var payload struct {
		Draft DraftView  `json:"draft"`
		Picks []PickView `json:"picks"`
	}
	if err := sonic.Unmarshal(out, &payload); err != nil {
		t.Fatalf("unmarshal export: %v", err)
	}
	if payload.Draft.PicksMade != 3 || len(payload.Picks) != 3 {
		t.Fatalf("expected 3 picks in export, got draft=%d picks=%d", payload.Draft.PicksMade, len(payload.Picks))
	}
	if payload.Picks[0].PlayerID == "" || payload.Picks[0].SlotKind == "" {
		t.Fatalf("pick fields missing: %+v", payload.Picks[0])
	}
}

func TestExportService_UnknownDraft(t *testing.T) {
	service, _ := newExportFixture(t)

	if _, err := service.ExportCSV(context.Background(), "draft_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.ExportJSON(context.Background(), "draft_missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
