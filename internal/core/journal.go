package core

import (
	"errors"
	"strings"
	"time"
)

// ExportRecord is the journal entry written for every successful download.
// It carries headline figures only; the document itself is never stored.
type ExportRecord struct {
	ID               string    `json:"id"`
	SessionID        string    `json:"sessionId"`
	Filename         string    `json:"filename"`
	Format           string    `json:"format"`
	Village          string    `json:"village"`
	Year             int       `json:"year"`
	ByteSize         int64     `json:"byteSize"`
	RevenueFinal     Amount    `json:"revenueFinal"`
	ExpenditureFinal Amount    `json:"expenditureFinal"`
	ResidualFinal    Amount    `json:"residualFinal"`
	CreatedAt        time.Time `json:"createdAt"`
}

var ErrInvalidRecord = errors.New("invalid export record")

// NewExportRecord summarizes an export of doc.
func NewExportRecord(id, sessionID, filename, format string, doc Document, size int, at time.Time) ExportRecord {
	t := Aggregate(doc)
	return ExportRecord{
		ID:               id,
		SessionID:        sessionID,
		Filename:         filename,
		Format:           format,
		Village:          doc.Header.VillageName,
		Year:             doc.Header.Year,
		ByteSize:         int64(size),
		RevenueFinal:     t.Revenue.Final,
		ExpenditureFinal: t.Expenditure.Final,
		ResidualFinal:    t.Residual.Final,
		CreatedAt:        at.UTC(),
	}
}

// Validate checks the fields the journal relies on.
func (r ExportRecord) Validate() error {
	switch {
	case strings.TrimSpace(r.ID) == "":
		return errors.Join(ErrInvalidRecord, errors.New("empty id"))
	case strings.TrimSpace(r.Filename) == "":
		return errors.Join(ErrInvalidRecord, errors.New("empty filename"))
	case r.Format == "":
		return errors.Join(ErrInvalidRecord, errors.New("empty format"))
	case r.ByteSize < 0:
		return errors.Join(ErrInvalidRecord, errors.New("negative size"))
	}
	return nil
}
