// Package telegram disponibiliza o cliente da Bot API usado como colaborador
// de entrega.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jordan12251/telegram-form-api/internal/core/domain"
	"github.com/jordan12251/telegram-form-api/internal/core/ports"
)

const defaultBaseURL = "https://api.telegram.org"

type Client struct {
	token   string
	baseURL string
	http    *http.Client
}

var _ ports.Messenger = (*Client)(nil)

type Config struct {
	Token string
	// BaseURL troca o endpoint da Bot API; usado em testes.
	BaseURL string
	// HTTPClient substitui o cliente padrão (timeout de 30s).
	HTTPClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: bot token is required", domain.ErrMisconfigured)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{token: cfg.Token, baseURL: cfg.BaseURL, http: cfg.HTTPClient}, nil
}

// SendText entrega uma mensagem de texto com parse_mode HTML; o chamador é
// responsável por escapar o conteúdo.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	payload, err := json.Marshal(map[string]any{
		"chat_id":    chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendMessage"), bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

// SendPhoto sobe o binário como multipart para o método sendPhoto.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo domain.Photo, caption string) error {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("chat_id", strconv.FormatInt(chatID, 10)); err != nil {
		return err
	}
	if caption != "" {
		if err := mw.WriteField("caption", caption); err != nil {
			return err
		}
	}

	part, err := mw.CreateFormFile("photo", "photo"+extensionFor(photo.MIME))
	if err != nil {
		return err
	}
	if _, err := part.Write(photo.Data); err != nil {
		return err
	}
	if err := mw.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL("sendPhoto"), &body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	return c.do(req)
}

func (c *Client) methodURL(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (c *Client) do(req *http.Request) error {
	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error carrega a URL completa, que inclui o token do bot;
		// propaga só a causa.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			return fmt.Errorf("telegram request: %v", uerr.Err)
		}
		return fmt.Errorf("telegram request: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read telegram response: %w", err)
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		return fmt.Errorf("telegram returned status %d with unreadable body", resp.StatusCode)
	}
	if !api.OK {
		if api.Description == "" {
			api.Description = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("telegram rejected request: %s", api.Description)
	}
	return nil
}

func extensionFor(mimeType string) string {
	exts, err := mime.ExtensionsByType(mimeType)
	if err != nil || len(exts) == 0 {
		return ".bin"
	}
	return exts[0]
}
