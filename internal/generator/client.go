package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/arcthaneaidelta/Docx-generation-with-database/internal/models"
	"github.com/arcthaneaidelta/Docx-generation-with-database/pkg/logger"
)

// ResultKind tags the shape of a successful generator response.
type ResultKind string

const (
	KindDocument ResultKind = "document"
	KindText     ResultKind = "text"
)

// Result is the tagged outcome of a generation call. Kind is document when
// the upstream Content-Type signals a Word document, text otherwise.
type Result struct {
	Kind        ResultKind
	ContentType string
	Payload     []byte
}

// Request carries the original submission inputs to the generator.
type Request struct {
	TxtFilename string
	TxtContent  []byte
	CSVFilename string
	CSVContent  []byte
	Message     string
}

type Config struct {
	GenerateURL string
	ChatURL     string
	Timeout     time.Duration
}

// Client talks to the external document-generator webhook. Any non-200
// response, transport error, or timeout surfaces as an error; the caller maps
// all of them to a failed submission.
type Client struct {
	httpClient *http.Client
	cfg        Config
	logger     logger.Logger
}

func NewClient(cfg Config, log logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		logger:     log,
	}
}

// Generate posts both file payloads (and the message, when present) as a
// multipart request and returns the tagged response payload.
func (c *Client) Generate(ctx context.Context, req Request) (*Result, error) {
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)

	if err := writeFilePart(mw, "txt_file", orDefault(req.TxtFilename, "document.txt"), req.TxtContent); err != nil {
		return nil, err
	}
	if err := writeFilePart(mw, "csv_file", orDefault(req.CSVFilename, "data.csv"), req.CSVContent); err != nil {
		return nil, err
	}
	if req.Message != "" {
		if err := mw.WriteField("message", req.Message); err != nil {
			return nil, fmt.Errorf("failed to write message field: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GenerateURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build generator request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generator call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generator returned status %d", resp.StatusCode)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read generator response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	kind := KindText
	if models.KindFromContentType(contentType) == models.ArtifactWord {
		kind = KindDocument
	}

	c.logger.Info("Generator call succeeded",
		logger.String("kind", string(kind)),
		logger.Int("payloadSize", len(payload)),
	)

	return &Result{Kind: kind, ContentType: contentType, Payload: payload}, nil
}

// RelayChat forwards a chat message to the chat webhook and returns the raw
// reply text.
func (c *Client) RelayChat(ctx context.Context, message string) (string, error) {
	body, err := json.Marshal(map[string]string{"message": message})
	if err != nil {
		return "", fmt.Errorf("failed to encode chat message: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.ChatURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat relay failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat webhook returned status %d", resp.StatusCode)
	}

	reply, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read chat reply: %w", err)
	}
	return string(reply), nil
}

func writeFilePart(mw *multipart.Writer, field, filename string, content []byte) error {
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return fmt.Errorf("failed to create %s part: %w", field, err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("failed to write %s part: %w", field, err)
	}
	return nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
