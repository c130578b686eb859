// Package hosted es el binding live contra el backend hosteado (GoTrue-style
// auth + PostgREST-style tablas + object storage), configurado por env.
// Cada llamada es un round trip único; los errores del backend llegan al
// caller como backend.Error sin traducir.
package hosted

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"pet-services-marketplace/internal/platform/httpclient"
	"pet-services-marketplace/internal/ports/backend"
)

type Config struct {
	BaseURL string
	AnonKey string
	Timeout time.Duration
}

type Client struct {
	http    *httpclient.Client
	anonKey string
}

func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("hosted: base url is required")
	}
	if strings.TrimSpace(cfg.AnonKey) == "" {
		return nil, errors.New("hosted: anon key is required")
	}

	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &Client{
		http:    hc,
		anonKey: strings.TrimSpace(cfg.AnonKey),
	}, nil
}

// headers base: la API key va siempre; el bearer es la key o el token de usuario.
func (c *Client) headers(bearer string) map[string]string {
	if bearer == "" {
		bearer = c.anonKey
	}
	return map[string]string{
		"apikey":        c.anonKey,
		"Authorization": "Bearer " + bearer,
	}
}

// asBackendError convierte una respuesta no-2xx en backend.Error, extrayendo
// el mensaje del body JSON cuando existe. El mensaje del backend se conserva.
func asBackendError(err error, kind4xx backend.Kind) error {
	if err == nil {
		return nil
	}
	var he *httpclient.HTTPError
	if !errors.As(err, &he) {
		return backend.Errf(backend.KindUpstream, 0, "%v", err)
	}

	msg := he.Body
	var parsed struct {
		Message     string `json:"message"`
		Msg         string `json:"msg"`
		Description string `json:"error_description"`
	}
	if json.Unmarshal([]byte(he.Body), &parsed) == nil {
		switch {
		case parsed.Message != "":
			msg = parsed.Message
		case parsed.Msg != "":
			msg = parsed.Msg
		case parsed.Description != "":
			msg = parsed.Description
		}
	}

	kind := backend.KindUpstream
	switch {
	case he.StatusCode == http.StatusUnauthorized || he.StatusCode == http.StatusForbidden:
		kind = backend.KindUnauthorized
	case he.StatusCode >= 400 && he.StatusCode < 500:
		kind = kind4xx
	}
	return backend.Errf(kind, he.StatusCode, "%s", msg)
}
