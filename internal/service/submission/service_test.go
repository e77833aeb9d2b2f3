package submission

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/generator"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/store"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/queue"
)

type fixture struct {
	svc        *Service
	store      *store.SQLiteStore
	dispatcher *queue.LocalDispatcher
}

func newFixture(t *testing.T, webhookURL string) *fixture {
	t.Helper()

	st, err := store.NewSQLiteStore(":memory:", logger.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	gen := generator.NewClient(generator.Config{
		GenerateURL: webhookURL,
		ChatURL:     webhookURL,
	}, logger.NewTestLogger())

	d := queue.NewLocalDispatcher()
	svc := NewService(st, gen, d, logger.NewTestLogger())
	d.Bind(svc.Process)

	return &fixture{svc: svc, store: st, dispatcher: d}
}

// makeFileHeaders builds real multipart.FileHeader values the way gin would
// hand them to the service.
func makeFileHeaders(t *testing.T, txtName, txtBody, csvName, csvBody string) (*multipart.FileHeader, *multipart.FileHeader) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if txtName != "" {
		part, err := mw.CreateFormFile("txt_file", txtName)
		require.NoError(t, err)
		_, err = io.WriteString(part, txtBody)
		require.NoError(t, err)
	}
	if csvName != "" {
		part, err := mw.CreateFormFile("csv_file", csvName)
		require.NoError(t, err)
		_, err = io.WriteString(part, csvBody)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&buf, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })

	var txt, csv *multipart.FileHeader
	if headers := form.File["txt_file"]; len(headers) > 0 {
		txt = headers[0]
	}
	if headers := form.File["csv_file"]; len(headers) > 0 {
		csv = headers[0]
	}
	return txt, csv
}

func TestSubmitCompletesWithDocumentArtifact(t *testing.T) {
	docxBytes := []byte{0x50, 0x4b, 0x03, 0x04, 0xde, 0xad}
	gate := make(chan struct{})

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-gate
		w.Header().Set("Content-Type", models.WordMIME)
		w.Write(docxBytes)
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	txt, csv := makeFileHeaders(t, "doc.txt", "Hello", "data.csv", "a,b\n1,2")
	sub, err := f.svc.Submit(ctx, txt, csv, "")
	require.NoError(t, err)
	require.NotEmpty(t, sub.ID)

	// Intake returned before the background unit finished.
	status, err := f.svc.Status(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusProcessing, status.Status)
	assert.Empty(t, status.ArtifactFilename)

	_, err = f.svc.Download(ctx, sub.ID)
	require.ErrorIs(t, err, store.ErrNotReady)

	close(gate)
	f.dispatcher.Wait()

	status, err = f.svc.Status(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, status.Status)
	assert.True(t, strings.HasSuffix(status.ArtifactFilename, ".docx"))

	artifact, err := f.svc.Download(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, docxBytes, artifact.Content)
	assert.Equal(t, models.ArtifactWord, artifact.Kind)
	assert.Equal(t, models.WordMIME, artifact.Kind.MIME())
}

func TestSubmitUpstreamFailureMarksFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	txt, csv := makeFileHeaders(t, "doc.txt", "Hello", "data.csv", "a,b\n1,2")
	sub, err := f.svc.Submit(ctx, txt, csv, "")
	require.NoError(t, err)

	f.dispatcher.Wait()

	status, err := f.svc.Status(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, status.Status)

	_, err = f.svc.Download(ctx, sub.ID)
	require.ErrorIs(t, err, store.ErrNotReady)
}

func TestProcessTimeoutMarksFailed(t *testing.T) {
	// The webhook hangs until the test ends, so the only way out of Generate
	// is the task context expiring.
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	now := time.Now().UTC()
	sub := &models.Submission{
		ID:          "timeout-sub",
		TxtFilename: "doc.txt",
		CSVFilename: "data.csv",
		TxtContent:  []byte("Hello"),
		CSVContent:  []byte("a,b"),
		Status:      models.StatusProcessing,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, f.store.CreateSubmission(ctx, sub))

	taskCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	require.NoError(t, f.svc.Process(taskCtx, sub.ID))

	// The terminal write happened even though the task context is dead.
	status, err := f.svc.Status(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusFailed, status.Status)

	_, err = f.svc.Download(ctx, sub.ID)
	require.ErrorIs(t, err, store.ErrNotReady)
}

func TestSubmitTextResponseStoredAsTextArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "generated letter text")
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	txt, csv := makeFileHeaders(t, "doc.txt", "Hello", "data.csv", "a,b")
	sub, err := f.svc.Submit(ctx, txt, csv, "")
	require.NoError(t, err)
	f.dispatcher.Wait()

	artifact, err := f.svc.Download(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ArtifactText, artifact.Kind)
	assert.True(t, strings.HasSuffix(artifact.Filename, ".txt"))
	assert.Equal(t, "generated letter text", string(artifact.Content))
}

func TestSubmitValidationRejectsBeforePersisting(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")
	ctx := context.Background()

	cases := []struct {
		name    string
		txtName string
		txtBody string
		csvName string
		csvBody string
	}{
		{"missing csv", "doc.txt", "Hello", "", ""},
		{"missing txt", "", "", "data.csv", "a,b"},
		{"wrong txt extension", "doc.pdf", "Hello", "data.csv", "a,b"},
		{"wrong csv extension", "doc.txt", "Hello", "data.xlsx", "a,b"},
		{"empty txt content", "doc.txt", "", "data.csv", "a,b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			txt, csv := makeFileHeaders(t, tc.txtName, tc.txtBody, tc.csvName, tc.csvBody)
			_, err := f.svc.Submit(ctx, txt, csv, "")
			require.ErrorIs(t, err, ErrValidation)
		})
	}

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	assert.Empty(t, history, "rejected submissions must not be persisted")
}

func TestStatusUnknownSubmission(t *testing.T) {
	f := newFixture(t, "http://unused.invalid")

	_, err := f.svc.Status(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = f.svc.Download(context.Background(), "ghost")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestHistoryListsSubmissions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		io.WriteString(w, "ok")
	}))
	defer srv.Close()

	f := newFixture(t, srv.URL)
	ctx := context.Background()

	txt, csv := makeFileHeaders(t, "doc.txt", "Hello", "data.csv", "a,b")
	_, err := f.svc.Submit(ctx, txt, csv, "")
	require.NoError(t, err)
	f.dispatcher.Wait()

	history, err := f.svc.History(ctx)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "doc.txt", history[0].TxtFilename)
}

func TestChatRelayAndFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "sure, working on it")
	}))
	f := newFixture(t, srv.URL)
	ctx := context.Background()

	reply, err := f.svc.Chat(ctx, "how long?")
	require.NoError(t, err)
	assert.Equal(t, "sure, working on it", reply)

	// Webhook down: canned reply, exchange still recorded.
	srv.Close()
	reply, err = f.svc.Chat(ctx, "anyone there?")
	require.NoError(t, err)
	assert.Equal(t, fallbackChatReply, reply)

	messages, err := f.svc.ChatHistory(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "how long?", messages[0].UserMessage)
	assert.Equal(t, fallbackChatReply, messages[1].BotResponse)

	_, err = f.svc.Chat(ctx, "   ")
	require.ErrorIs(t, err, ErrValidation)
}
