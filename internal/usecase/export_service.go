package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"strconv"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"

	"github.com/draftday/draftsim/internal/platform/logging"
)

// ExportService renders a draft board for download. CSV targets
// spreadsheet review, JSON targets other tooling.
type ExportService struct {
	drafts *DraftService
	logger *logging.Logger
}

func NewExportService(drafts *DraftService, logger *logging.Logger) *ExportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ExportService{
		drafts: drafts,
		logger: logger,
	}
}

var exportCSVHeader = []string{
	"overall", "round", "team", "player_id", "player_name", "position", "is_keeper", "slot",
}

func (s *ExportService) ExportCSV(ctx context.Context, draftID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportCSV")
	defer span.End()

	board, err := s.drafts.Board(ctx, draftID)
	if err != nil {
		return nil, err
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	if err := writer.Write(exportCSVHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, pick := range board.Picks {
		row := []string{
			strconv.Itoa(pick.Overall + 1),
			strconv.Itoa(pick.Round + 1),
			strconv.Itoa(pick.Team + 1),
			pick.PlayerID,
			pick.PlayerName,
			pick.Position,
			strconv.FormatBool(pick.IsKeeper),
			pick.SlotKind,
		}
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %d: %w", pick.Overall, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	// The pooled buffer is reused after Put, so hand back a copy.
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

type exportJSONPayload struct {
	Draft DraftView  `json:"draft"`
	Picks []PickView `json:"picks"`
}

func (s *ExportService) ExportJSON(ctx context.Context, draftID string) ([]byte, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ExportService.ExportJSON")
	defer span.End()

	board, err := s.drafts.Board(ctx, draftID)
	if err != nil {
		return nil, err
	}

	out, err := sonic.Marshal(exportJSONPayload{
		Draft: board.Draft,
		Picks: board.Picks,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal draft export: %w", err)
	}

	return out, nil
}
