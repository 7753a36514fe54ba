package cli

import (
	"encoding/json"
	"io"

	"github.com/sheikh-saqib/farminvest/internal/apperrors"
	"github.com/sheikh-saqib/farminvest/internal/models"
	"github.com/sheikh-saqib/farminvest/internal/optimistic"
	"github.com/sheikh-saqib/farminvest/internal/view"
)

// recordJSON is the --format json shape of one list entry.
type recordJSON struct {
	ID         string `json:"id"`
	FarmerName string `json:"farmer_name"`
	Crop       string `json:"crop"`
	Amount     string `json:"amount"`
	RecordedAt string `json:"recorded_at"`
	Pending    bool   `json:"pending"`
}

type snapshotJSON struct {
	Phase      string       `json:"phase"`
	Records    []recordJSON `json:"records"`
	Submitting bool         `json:"submitting,omitempty"`
	LoadError  string       `json:"load_error,omitempty"`
	Error      string       `json:"error,omitempty"`
}

func writeSnapshot(w io.Writer, format string, s optimistic.Snapshot) error {
	if format != "json" {
		return view.Render(w, s)
	}

	out := snapshotJSON{
		Phase:      s.Phase.String(),
		Records:    make([]recordJSON, 0, len(s.Records)),
		Submitting: s.Submitting,
	}
	for _, r := range s.Records {
		out.Records = append(out.Records, toRecordJSON(r))
	}
	if s.LoadErr != nil {
		out.LoadError = apperrors.Message(s.LoadErr)
	}
	if s.CreateErr != nil {
		out.Error = apperrors.Message(s.CreateErr)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toRecordJSON(r models.Record) recordJSON {
	return recordJSON{
		ID:         r.ID.String(),
		FarmerName: r.FarmerName,
		Crop:       r.Crop,
		Amount:     r.Amount.String(),
		RecordedAt: r.RecordedAt.Format("2006-01-02T15:04:05Z07:00"),
		Pending:    r.Pending,
	}
}
