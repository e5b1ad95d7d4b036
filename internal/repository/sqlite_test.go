package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billdispute/disputecall/internal/domain"
)

func newTestArchive(t *testing.T) *SQLiteArchive {
	t.Helper()
	a, err := NewSQLiteArchive(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func sampleRecord(recordID, disputeID string, endedAt time.Time) *domain.CallRecord {
	return &domain.CallRecord{
		RecordID:        recordID,
		CallSID:         "CA" + recordID,
		DisputeID:       disputeID,
		Status:          domain.CallStatusCompleted,
		DurationSeconds: 95,
		Transcript:      "AI: Hello\nHuman: Hi",
		Outcome:         domain.OutcomePending,
		StartedAt:       endedAt.Add(-95 * time.Second),
		EndedAt:         endedAt,
	}
}

func TestSaveAndListCallRecords(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, a.SaveCallRecord(ctx, sampleRecord("rec-1", "disp-1", base)))
	require.NoError(t, a.SaveCallRecord(ctx, sampleRecord("rec-2", "disp-1", base.Add(time.Hour))))
	require.NoError(t, a.SaveCallRecord(ctx, sampleRecord("rec-3", "disp-2", base)))

	records, err := a.ListCallRecords(ctx, "disp-1")
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "rec-2", records[0].RecordID)
	assert.Equal(t, "rec-1", records[1].RecordID)
	assert.Equal(t, domain.CallStatusCompleted, records[0].Status)
	assert.Equal(t, domain.OutcomePending, records[0].Outcome)
	assert.Equal(t, 95, records[0].DurationSeconds)
	assert.Equal(t, "AI: Hello\nHuman: Hi", records[0].Transcript)
}

func TestListCallRecordsEmpty(t *testing.T) {
	a := newTestArchive(t)

	records, err := a.ListCallRecords(context.Background(), "no-such-dispute")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestUpdateOutcome(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	require.NoError(t, a.SaveCallRecord(ctx, sampleRecord("rec-1", "disp-1", time.Now().UTC())))

	analysis := domain.OutcomeAnalysis{
		Outcome:   domain.OutcomeResolved,
		Summary:   "Charge reversed on the spot",
		NextSteps: "Confirm refund on next statement",
	}
	require.NoError(t, a.UpdateOutcome(ctx, "rec-1", analysis))

	records, err := a.ListCallRecords(ctx, "disp-1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.OutcomeResolved, records[0].Outcome)
	assert.Equal(t, "Charge reversed on the spot", records[0].Summary)
	assert.Equal(t, "Confirm refund on next statement", records[0].NextSteps)
}

func TestUpdateOutcomeMissingRecord(t *testing.T) {
	a := newTestArchive(t)

	err := a.UpdateOutcome(context.Background(), "nope", domain.OutcomeAnalysis{Outcome: domain.OutcomeFailed})
	assert.Error(t, err)
}

func TestSaveRecording(t *testing.T) {
	a := newTestArchive(t)
	ctx := context.Background()

	rec := &domain.Recording{
		RecordingSID:    "RE001",
		CallSID:         "CA001",
		URL:             "https://api.twilio.com/recordings/RE001",
		DurationSeconds: 88,
		CreatedAt:       time.Now().UTC(),
	}
	require.NoError(t, a.SaveRecording(ctx, rec))

	// Duplicate callbacks replace rather than fail.
	rec.DurationSeconds = 90
	assert.NoError(t, a.SaveRecording(ctx, rec))

	recordings, err := a.ListRecordings(ctx, "CA001")
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	assert.Equal(t, "RE001", recordings[0].RecordingSID)
	assert.Equal(t, "https://api.twilio.com/recordings/RE001", recordings[0].URL)
	assert.Equal(t, 90, recordings[0].DurationSeconds)
}

func TestListRecordingsEmpty(t *testing.T) {
	a := newTestArchive(t)

	recordings, err := a.ListRecordings(context.Background(), "CA-none")
	require.NoError(t, err)
	assert.Empty(t, recordings)
}
