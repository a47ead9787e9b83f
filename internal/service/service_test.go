package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"harjoitus/internal/database"
	"harjoitus/internal/models"
	"harjoitus/internal/progress"
	"harjoitus/internal/repository"
)

func sampleProgress() models.PlayerProgress {
	day := time.Date(2024, 5, 2, 8, 30, 0, 0, time.UTC)
	var p models.PlayerProgress
	p.RecordBestTime(models.TimeRecord{Mode: "partitive", TopicKey: "vowel", TimeMs: 42000, Date: day, Accuracy: 100, ItemCount: 6})
	p.MarkTopicComplete("pikkusanat/time", 31000, day)
	return p
}

func newSQLRepo(t *testing.T) *repository.KVRepository {
	t.Helper()
	db, err := database.Initialize(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.RunMigrations(context.Background())
	require.NoError(t, err)
	return repository.NewKVRepository(db)
}

func TestDataService(t *testing.T) {
	backends := map[string]func(t *testing.T) DataBackend{
		"file": func(t *testing.T) DataBackend {
			return NewFileBackend(filepath.Join(t.TempDir(), "nested", "progress.csv"))
		},
		"sql": func(t *testing.T) DataBackend {
			return NewKVBackend(newSQLRepo(t))
		},
	}

	for name, newBackend := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			svc := NewDataService(newBackend(t), zap.NewNop())

			_, err := svc.Get(ctx)
			assert.ErrorIs(t, err, ErrNoData)

			csv := progress.EncodeCSV(sampleProgress())
			parsed, err := svc.Put(ctx, csv)
			require.NoError(t, err)
			assert.True(t, parsed.Equal(sampleProgress()))

			got, err := svc.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, csv, got)

			_, err = svc.Put(ctx, []byte("not,a,progress,file\n1,2,3,4\n"))
			assert.ErrorIs(t, err, progress.ErrMalformedCSV)

			got, err = svc.Get(ctx)
			require.NoError(t, err)
			assert.Equal(t, csv, got, "rejected upload must not replace stored data")
		})
	}
}

func TestBackupRoundTrip(t *testing.T) {
	ctx := context.Background()
	source := progress.NewFileStore(t.TempDir())
	svc := NewBackupService(source, nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	var empty bytes.Buffer
	require.NoError(t, svc.ExportToWriter(ctx, &empty))
	assert.Contains(t, empty.String(), `"version": "1.0"`)

	require.NoError(t, svc.save(ctx, sampleProgress()))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportToWriter(ctx, &buf))
	assert.Contains(t, buf.String(), `"exported_at": "2024-06-01T00:00:00Z"`)

	repo := newSQLRepo(t)
	target := NewBackupService(repo, nil)
	require.NoError(t, target.ImportFromReader(ctx, &buf))

	got, err := target.load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleProgress()))

	// The import must win over the mirror on the next start
	marker, err := repo.Get(ctx, progress.UnsyncedKey)
	require.NoError(t, err)
	assert.Equal(t, "true", string(marker))
}

func TestBackupFiles(t *testing.T) {
	ctx := context.Background()
	svc := NewBackupService(progress.NewFileStore(t.TempDir()), nil)
	require.NoError(t, svc.save(ctx, sampleProgress()))

	path := filepath.Join(t.TempDir(), "backup.json")
	require.NoError(t, svc.Export(ctx, path))

	other := NewBackupService(progress.NewFileStore(t.TempDir()), nil)
	require.NoError(t, other.Import(ctx, path))
	got, err := other.load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleProgress()))
}

func TestBackupRejectsUnknownVersion(t *testing.T) {
	svc := NewBackupService(progress.NewFileStore(t.TempDir()), nil)
	err := svc.ImportFromReader(context.Background(), strings.NewReader(`{"version":"9","progress":{}}`))
	assert.ErrorIs(t, err, ErrUnsupportedBackup)
}

func TestBackupCSV(t *testing.T) {
	ctx := context.Background()
	svc := NewBackupService(progress.NewFileStore(t.TempDir()), nil)
	require.NoError(t, svc.save(ctx, sampleProgress()))

	var buf bytes.Buffer
	require.NoError(t, svc.ExportCSV(ctx, &buf))
	assert.True(t, strings.HasPrefix(buf.String(), `"Kind"`))

	other := NewBackupService(progress.NewFileStore(t.TempDir()), nil)
	require.NoError(t, other.ImportCSV(ctx, &buf))
	got, err := other.load(ctx)
	require.NoError(t, err)
	assert.True(t, got.Equal(sampleProgress()))

	err = other.ImportCSV(ctx, strings.NewReader("garbage"))
	assert.ErrorIs(t, err, progress.ErrMalformedCSV)
}

type fakeSES struct {
	mu     sync.Mutex
	inputs []*sesv2.SendEmailInput
	err    error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.inputs = append(f.inputs, in)
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailServiceDisabled(t *testing.T) {
	svc, err := NewEmailService(context.Background(), "eu-north-1", "", "", "", nil)
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.TopicCompleted(context.Background(), "pikkusanat/time", 1000))
}

func TestEmailServiceTopicCompleted(t *testing.T) {
	client := &fakeSES{}
	svc := newEmailService(client, "noreply@example.com", "Harjoitus", "player@example.com", zap.NewNop())

	require.NoError(t, svc.TopicCompleted(context.Background(), "question-words/place", 61400))

	require.Len(t, client.inputs, 1)
	in := client.inputs[0]
	assert.Equal(t, "Harjoitus <noreply@example.com>", aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"player@example.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "Aihe suoritettu: place", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Contains(t, aws.ToString(in.Content.Simple.Body.Text.Data), "question-words")
	assert.Contains(t, aws.ToString(in.Content.Simple.Body.Text.Data), "1m1s")

	client.err = errors.New("throttled")
	err := svc.TopicCompleted(context.Background(), "question-words/place", 1)
	assert.ErrorContains(t, err, "throttled")
}
