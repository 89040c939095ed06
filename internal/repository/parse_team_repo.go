package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	parseTeamClass = "Team"

	// Parse error code for a missing object.
	parseCodeObjectNotFound = 101

	parseHeaderAppID = "X-Parse-Application-Id"
	parseHeaderJSKey = "X-Parse-JavaScript-Key"
)

// ParseConfig configures the Parse Server REST client.
type ParseConfig struct {
	ServerURL string
	AppID     string
	ClientKey string

	RetryMax int
	// Zero means no timeout.
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// ParseError is an error body returned by Parse Server.
type ParseError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"error"`
}

func (e *ParseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s (code %d, status %d)", msg, e.Code, e.StatusCode)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrNotFound && e.Code == parseCodeObjectNotFound
}

type parseTeamRepository struct {
	baseURL   string
	appID     string
	clientKey string

	client *retryablehttp.Client
}

// NewParseTeamRepository returns a TeamRepository backed by the "Team" class
// of a Parse Server application.
func NewParseTeamRepository(cfg ParseConfig) TeamRepository {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.RetryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	if cfg.HTTPClient != nil {
		client.HTTPClient = cfg.HTTPClient
	}
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}

	l := cfg.Logger
	if l == nil {
		l = zap.NewNop()
	}
	client.Logger = retryLogger{l: l.Sugar()}

	return &parseTeamRepository{
		baseURL:   strings.TrimSuffix(cfg.ServerURL, "/"),
		appID:     cfg.AppID,
		clientKey: cfg.ClientKey,
		client:    client,
	}
}

type parseTeamFields struct {
	Name        string `json:"name"`
	Founded     string `json:"founded"`
	Logo        string `json:"logo"`
	Description string `json:"description"`
}

func (p *parseTeamRepository) FindAll(ctx context.Context) ([]*Team, error) {
	var res struct {
		Results []*Team `json:"results"`
	}

	if err := p.do(ctx, http.MethodGet, p.classPath(""), nil, &res); err != nil {
		return nil, errors.Wrap(err, "query teams")
	}

	if res.Results == nil {
		return []*Team{}, nil
	}
	return res.Results, nil
}

func (p *parseTeamRepository) Get(ctx context.Context, id string) (*Team, error) {
	team := &Team{}
	if err := p.do(ctx, http.MethodGet, p.classPath(id), nil, team); err != nil {
		return nil, errors.Wrapf(err, "get team %s", id)
	}
	return team, nil
}

// Save creates or updates the object. Parse only echoes the object id, so the
// returned team carries nothing else.
func (p *parseTeamRepository) Save(ctx context.Context, team *Team) (*Team, error) {
	fields := parseTeamFields{
		Name:        team.Name,
		Founded:     team.Founded,
		Logo:        team.Logo,
		Description: team.Description,
	}

	if team.ID != "" {
		if err := p.do(ctx, http.MethodPut, p.classPath(team.ID), fields, nil); err != nil {
			return nil, errors.Wrapf(err, "update team %s", team.ID)
		}
		return &Team{ID: team.ID}, nil
	}

	var created struct {
		ObjectID string `json:"objectId"`
	}
	if err := p.do(ctx, http.MethodPost, p.classPath(""), fields, &created); err != nil {
		return nil, errors.Wrap(err, "create team")
	}
	if created.ObjectID == "" {
		return nil, errors.New("create team: response carries no objectId")
	}

	return &Team{ID: created.ObjectID}, nil
}

func (p *parseTeamRepository) Destroy(ctx context.Context, id string) error {
	if err := p.do(ctx, http.MethodDelete, p.classPath(id), nil, nil); err != nil {
		return errors.Wrapf(err, "destroy team %s", id)
	}
	return nil
}

// Ping runs an empty query, which also checks the credentials.
func (p *parseTeamRepository) Ping(ctx context.Context) error {
	return p.do(ctx, http.MethodGet, p.classPath("")+"?limit=0", nil, nil)
}

func (p *parseTeamRepository) classPath(id string) string {
	path := "/classes/" + parseTeamClass
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

func (p *parseTeamRepository) do(ctx context.Context, method, path string, body, out any) error {
	var payload any
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = raw
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, p.baseURL+path, payload)
	if err != nil {
		return err
	}

	req.Header.Set(parseHeaderAppID, p.appID)
	req.Header.Set(parseHeaderJSKey, p.clientKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		parseErr := &ParseError{StatusCode: resp.StatusCode}
		if len(bytes.TrimSpace(raw)) > 0 {
			_ = json.Unmarshal(raw, parseErr)
		}
		return parseErr
	}

	if out == nil {
		return nil
	}

	return errors.Wrap(json.Unmarshal(raw, out), "decode response")
}

// retryLogger routes retryablehttp's leveled log lines to zap.
type retryLogger struct {
	l *zap.SugaredLogger
}

func (r retryLogger) Error(msg string, keysAndValues ...interface{}) {
	r.l.Errorw(msg, keysAndValues...)
}

func (r retryLogger) Info(msg string, keysAndValues ...interface{}) {
	r.l.Infow(msg, keysAndValues...)
}

func (r retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	r.l.Debugw(msg, keysAndValues...)
}

func (r retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	r.l.Warnw(msg, keysAndValues...)
}
