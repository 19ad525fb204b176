package export_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"aria/internal/domain"
	"aria/internal/export"
)

func samplePending() []domain.PendingMint {
	tx := "TX123"
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return []domain.PendingMint{
		{
			ID:          uuid.MustParse("11111111-1111-1111-1111-111111111111"),
			RunID:       uuid.MustParse("22222222-2222-2222-2222-222222222222"),
			Recipient:   "0xR1",
			ContentID:   "QmCID",
			ArtifactURL: "https://gateway.pinata.cloud/ipfs/QmCID",
			Filename:    "invoice, final.pdf",
			LastError:   "minting script failed with exit code 1: boom",
			Attempts:    2,
			Status:      domain.PendingMintStatusPending,
			CreatedAt:   created,
			UpdatedAt:   created,
		},
		{
			ID:        uuid.MustParse("33333333-3333-3333-3333-333333333333"),
			Status:    domain.PendingMintStatusResolved,
			TxID:      &tx,
			Attempts:  3,
			CreatedAt: created,
			UpdatedAt: created.Add(time.Hour),
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := export.NewRowWriter(export.FormatCSV, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WritePendingMints(samplePending()))
	require.NoError(t, w.Close())

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, export.BOM))
	records, err := csv.NewReader(bytes.NewReader(raw[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, export.Columns(), records[0])
	assert.Equal(t, "invoice, final.pdf", records[1][6])
	assert.Equal(t, "2", records[1][7])
	assert.Equal(t, "", records[1][9])
	assert.Equal(t, "2024-01-02T03:04:05Z", records[1][10])
	assert.Equal(t, "resolved", records[2][2])
	assert.Equal(t, "TX123", records[2][9])
}

func TestXLSXWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := export.NewRowWriter(export.FormatXLSX, &buf)
	require.NoError(t, err)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WritePendingMints(samplePending()))
	require.NoError(t, w.Close())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, export.Columns(), rows[0])
	assert.Equal(t, "0xR1", rows[1][3])
	assert.Equal(t, "TX123", rows[2][9])
}

func TestBuildFilename(t *testing.T) {
	now := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "pending_mints_2024-01-31.csv", export.BuildFilename(export.FormatCSV, now))
	assert.Equal(t, "pending_mints_2024-01-31.xlsx", export.BuildFilename(export.FormatXLSX, now))
}
