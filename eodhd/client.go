package eodhd

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/PaesslerAG/jsonpath"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// getJSON performs an HTTP GET request on path and decodes the JSON response
// into a generic document. Numbers are kept as json.Number.
func (s *Source) getJSON(ctx context.Context, path string, params map[string]string) (any, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, errors.Wrapf(err, "cannot GET %s", path)
		}
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetQueryParam("api_token", s.cfg.APIKey).
		SetQueryParam("fmt", "json").
		Get(path)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot GET %s", path)
	}
	if resp.IsError() {
		return nil, errors.Errorf("cannot GET %s: %s", path, resp.Status())
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(resp.Body()))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrapf(err, "cannot decode %s", path)
	}
	return doc, nil
}

// newClient returns the resty client used to query the API. Retries are
// handled by the caller, the client only bounds each request with a timeout.
func newClient(cfg Config) *resty.Client {
	return resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "ewt")
}

// lookupDecimal returns the number found at path in doc, or nil if there is none.
//
// EODHD reports unavailable values as "NA" strings, they are treated as
// absent like missing keys are.
func lookupDecimal(path string, doc any) *decimal.Decimal {
	val, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil
	}
	// because jsonpath is never clear about wheter it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if list, ok := val.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		val = list[0]
	}

	d, ok := toDecimal(val)
	if !ok {
		return nil
	}
	return &d
}

func toDecimal(val any) (decimal.Decimal, bool) {
	switch v := val.(type) {
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	default:
		return decimal.Zero, false
	}
}

// lookupInt is lookupDecimal truncated to an integer.
func lookupInt(path string, doc any) *int64 {
	d := lookupDecimal(path, doc)
	if d == nil {
		return nil
	}
	i := d.IntPart()
	return &i
}
