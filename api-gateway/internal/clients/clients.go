// clients — HTTP-клиенты внутренних сервисов. Каждый исходящий запрос
// заверяется СВЕЖИМ межсервисным токеном (X-Service-Token): токены живут
// меньше минуты и не кэшируются.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pribylovaa/go-music-stream/api-gateway/internal/config"
	"github.com/pribylovaa/go-music-stream/pkg/internalauth"
	"github.com/pribylovaa/go-music-stream/pkg/log"
	"github.com/pribylovaa/go-music-stream/pkg/redact"
)

// maxErrorBody ограничивает чтение тел ошибок апстримов.
const maxErrorBody = 64 << 10

// Upstream — один внутренний сервис: базовый URL + audience его токенов.
type Upstream struct {
	base     string
	audience string

	issuer string
	tokens *internalauth.ServiceTokens
	http   *http.Client
}

// Response — результат вызова апстрима. Body уже вычитан и закрыт.
type Response struct {
	Status int
	Body   []byte
}

// OK сообщает, что апстрим ответил 2xx.
func (r *Response) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Decode разбирает тело успешного ответа в out.
func (r *Response) Decode(out any) error {
	return json.Unmarshal(r.Body, out)
}

// Clients агрегирует клиенты всех апстрим-сервисов.
type Clients struct {
	Auth    *Upstream
	Catalog *Upstream
	Stream  *Upstream
	Admin   *Upstream
	Search  *Upstream
}

// New создаёт клиенты для всех апстримов.
func New(cfg config.Config, tokens *internalauth.ServiceTokens, timeout time.Duration) *Clients {
	hc := &http.Client{Timeout: timeout}

	mk := func(base, audience string) *Upstream {
		return &Upstream{
			base:     strings.TrimRight(base, "/"),
			audience: audience,
			issuer:   cfg.Service.Name,
			tokens:   tokens,
			http:     hc,
		}
	}

	return &Clients{
		Auth:    mk(cfg.Upstreams.AuthURL, "auth-service"),
		Catalog: mk(cfg.Upstreams.CatalogURL, "catalog-service"),
		Stream:  mk(cfg.Upstreams.StreamURL, "stream-service"),
		Admin:   mk(cfg.Upstreams.AdminURL, "admin-service"),
		Search:  mk(cfg.Upstreams.SearchURL, "search-service"),
	}
}

// Do выполняет запрос к апстриму: сериализует in (если не nil), минтит
// свежий сервисный токен, прокидывает X-Request-Id из контекста запроса.
func (u *Upstream) Do(ctx context.Context, method, path string, in any) (*Response, error) {
	return u.do(ctx, method, path, in, "")
}

// DoAuth — то же, что Do, плюс пересылает пользовательский access-токен
// (Authorization: Bearer) апстриму, который перепроверяет его сам.
func (u *Upstream) DoAuth(ctx context.Context, method, path string, in any, bearer string) (*Response, error) {
	return u.do(ctx, method, path, in, bearer)
}

func (u *Upstream) do(ctx context.Context, method, path string, in any, bearer string) (*Response, error) {
	const op = "clients.Do"

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.base+path, body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := u.tokens.NewServiceToken(u.issuer, u.audience)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set(internalauth.HeaderServiceToken, token)

	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	if rid := RequestIDFrom(ctx); rid != "" {
		req.Header.Set("X-Request-Id", rid)
	}

	resp, err := u.http.Do(req)
	if err != nil {
		lg := log.From(ctx).With(
			slog.String("op", op),
			slog.String("audience", u.audience),
			slog.String("path", path),
		)
		// Сам токен в лог не попадает, фиксируется только его наличие.
		if bearer != "" {
			lg = lg.With(slog.String("bearer", redact.Token()))
		}
		lg.Warn("upstream_call_failed", slog.String("err", err.Error()))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Лимит только для тел ошибок: успешный ответ (листинг библиотеки,
	// поисковая выдача) может быть сколь угодно большим.
	reader := io.Reader(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		reader = io.LimitReader(resp.Body, maxErrorBody)
	}

	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Response{Status: resp.StatusCode, Body: raw}, nil
}

// Get — шорткат для GET без тела.
func (u *Upstream) Get(ctx context.Context, path string) (*Response, error) {
	return u.Do(ctx, http.MethodGet, path, nil)
}

// Post — шорткат для POST с JSON-телом.
func (u *Upstream) Post(ctx context.Context, path string, in any) (*Response, error) {
	return u.Do(ctx, http.MethodPost, path, in)
}

type ctxKeyRequestID struct{}

// WithRequestID кладёт request id в контекст для прокидывания апстримам.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, rid)
}

// RequestIDFrom возвращает request id из контекста или "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID{}).(string); ok {
		return v
	}
	return ""
}
