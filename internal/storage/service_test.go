package storage

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentscout-bot/internal/candidate"
)

func sampleCandidate() candidate.Complete {
	return candidate.Complete{Draft: candidate.Draft{
		FullName:        "Ada Lovelace",
		Email:           "a@b.com",
		Phone:           "1234567890",
		YearsExperience: "7",
		DesiredPosition: "Data Engineer",
		CurrentLocation: "London",
		TechStack:       []string{"Python", "SQL"},
		Consent:         true,
	}}
}

func TestRedact(t *testing.T) {
	savedAt := time.Unix(1700000000, 0)
	rec := Redact(sampleCandidate(), savedAt)

	assert.Equal(t, HashPII("a@b.com"), rec.EmailHashed)
	assert.Equal(t, HashPII("1234567890"), rec.PhoneHashed)
	assert.Len(t, rec.EmailHashed, 64)
	assert.Equal(t, int64(1700000000), rec.SavedAt)
	assert.Equal(t, "Ada Lovelace", rec.FullName)
	assert.True(t, rec.Consent)
}

func TestHashPIIIsStable(t *testing.T) {
	assert.Equal(t, HashPII("a@b.com"), HashPII("a@b.com"))
	assert.NotEqual(t, HashPII("a@b.com"), HashPII("a@b.co"))
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", HashPII(""))
}

func TestFileLogAppendRedacts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "candidates.json")
	log, err := OpenFileLog(path)
	require.NoError(t, err)
	defer log.Close()

	require.NoError(t, log.Append(context.Background(), Redact(sampleCandidate(), time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "a@b.com")
	assert.NotContains(t, string(data), "1234567890")
	assert.Contains(t, string(data), HashPII("a@b.com"))
	assert.Contains(t, string(data), HashPII("1234567890"))

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "email")
	assert.NotContains(t, entries[0], "phone")
}

func TestFileLogAppendsInOrder(t *testing.T) {
	log, err := OpenFileLog(filepath.Join(t.TempDir(), "candidates.json"))
	require.NoError(t, err)

	for _, name := range []string{"first", "second", "third"} {
		rec := Redact(sampleCandidate(), time.Now())
		rec.FullName = name
		require.NoError(t, log.Append(context.Background(), rec))
	}

	records := log.ReadAll()
	require.Len(t, records, 3)
	assert.Equal(t, "first", records[0].FullName)
	assert.Equal(t, "third", records[2].FullName)
}

func TestFileLogCorruptFileStartsOver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	log, err := OpenFileLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(context.Background(), Redact(sampleCandidate(), time.Now())))

	assert.Len(t, log.ReadAll(), 1)
}

func TestFileLogKeepsUnknownFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"full_name": "Old", "legacy": 1}]`), 0644))

	log, err := OpenFileLog(path)
	require.NoError(t, err)
	require.NoError(t, log.Append(context.Background(), Redact(sampleCandidate(), time.Now())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"legacy": 1`)
	assert.Len(t, log.ReadAll(), 2)
}

func TestFileLogMissingFileReadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	log, err := OpenFileLog(path)
	require.NoError(t, err)

	assert.Empty(t, log.ReadAll())
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestFileLogClosed(t *testing.T) {
	log, err := OpenFileLog(filepath.Join(t.TempDir(), "candidates.json"))
	require.NoError(t, err)
	require.NoError(t, log.Close())

	err = log.Append(context.Background(), Redact(sampleCandidate(), time.Now()))
	assert.ErrorIs(t, err, ErrLogClosed)
}

func TestFileLogConcurrentAppends(t *testing.T) {
	log, err := OpenFileLog(filepath.Join(t.TempDir(), "candidates.json"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, log.Append(context.Background(), Redact(sampleCandidate(), time.Now())))
		}()
	}
	wg.Wait()

	assert.Len(t, log.ReadAll(), 10)
}

func TestOpenLogFileDriver(t *testing.T) {
	log, err := OpenLog("file", filepath.Join(t.TempDir(), "candidates.json"), "")
	require.NoError(t, err)
	_, ok := log.(*FileLog)
	assert.True(t, ok)

	_, err = OpenLog("mongodb", "", "mongodb://localhost")
	assert.Error(t, err)
}
