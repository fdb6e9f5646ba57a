// Package source retrieves the raw sales feed, either from a published
// spreadsheet URL or from a local file.
package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// ErrTransport means the feed could not be reached or read. It is never
// used for a feed that was read but held no usable rows.
var ErrTransport = errors.New("source: could not reach data source")

type Kind string

const (
	KindCSV  Kind = "csv"
	KindXLSX Kind = "xlsx"
)

// Payload is one retrieved copy of the feed.
type Payload struct {
	Location  string
	Kind      Kind
	Data      []byte
	FetchedAt time.Time
}

func (p Payload) Text() string { return string(p.Data) }

type Options struct {
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// MaxElapsed bounds all retries of one fetch.
	MaxElapsed time.Duration
}

func DefaultOptions() Options {
	return Options{Timeout: 12 * time.Second, MaxElapsed: 12 * time.Second}
}

type Fetcher struct {
	client     *http.Client
	maxElapsed time.Duration
	log        *logrus.Entry
	now        func() time.Time
}

func NewFetcher(opts Options, log *logrus.Entry) *Fetcher {
	def := DefaultOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.MaxElapsed <= 0 {
		opts.MaxElapsed = def.MaxElapsed
	}
	return &Fetcher{
		client:     &http.Client{Timeout: opts.Timeout},
		maxElapsed: opts.MaxElapsed,
		log:        log,
		now:        time.Now,
	}
}

// IsRemote reports whether location is fetched over HTTP.
func IsRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Fetch reads location. Every failure wraps ErrTransport.
func (f *Fetcher) Fetch(ctx context.Context, location string) (Payload, error) {
	if strings.TrimSpace(location) == "" {
		return Payload{}, fmt.Errorf("%w: no source configured", ErrTransport)
	}
	var (
		data []byte
		err  error
	)
	if IsRemote(location) {
		data, err = f.get(ctx, location)
	} else {
		data, err = os.ReadFile(location)
		if err != nil {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
	}
	if err != nil {
		return Payload{}, err
	}
	p := Payload{Location: location, Kind: detect(location, data), Data: data, FetchedAt: f.now()}
	f.log.WithFields(logrus.Fields{
		"location": location,
		"kind":     p.Kind,
		"bytes":    len(data),
	}).Info("source fetched")
	return p, nil
}

func (f *Fetcher) get(ctx context.Context, location string) ([]byte, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, fmt.Errorf("%w: bad url: %v", ErrTransport, err)
	}
	// Published sheets are served through a cache; a fresh query defeats it.
	q := u.Query()
	q.Set("t", strconv.FormatInt(f.now().UnixMilli(), 10))
	u.RawQuery = q.Encode()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = f.maxElapsed

	var body []byte
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := f.client.Do(req)
		if err != nil {
			f.log.WithError(err).WithField("attempt", attempt).Warn("source fetch failed")
			return err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			f.log.WithField("status", resp.StatusCode).WithField("attempt", attempt).Warn("source server error")
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("unexpected status: %s", resp.Status))
		}
		body = b
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return body, nil
}

var zipMagic = []byte("PK\x03\x04")

func detect(location string, data []byte) Kind {
	if bytes.HasPrefix(data, zipMagic) {
		return KindXLSX
	}
	path := location
	if u, err := url.Parse(location); err == nil && u.Path != "" {
		path = u.Path
	}
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return KindXLSX
	}
	return KindCSV
}

// Sniff wraps bytes that arrived some other way, e.g. an upload, in a
// Payload with the kind detected from name and content.
func Sniff(name string, data []byte, at time.Time) Payload {
	return Payload{Location: name, Kind: detect(name, data), Data: data, FetchedAt: at}
}
