package component

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	cerrors "github.com/vango-dev/compose/internal/errors"
)

// maxManifestSize caps the manifest body any loader reads.
const maxManifestSize = 1 << 20

// HTTPLoader fetches manifests from <BaseURL>/<name>.json.
// A 404 means the component does not exist.
type HTTPLoader struct {
	BaseURL   string
	Client    *http.Client
	Factories Factories
}

// NewHTTPLoader creates an HTTPLoader with a 30 second client timeout.
func NewHTTPLoader(baseURL string, factories Factories) *HTTPLoader {
	return &HTTPLoader{
		BaseURL:   strings.TrimSuffix(baseURL, "/"),
		Client:    &http.Client{Timeout: 30 * time.Second},
		Factories: factories,
	}
}

// Load implements Loader.
func (l *HTTPLoader) Load(ctx context.Context, name string) (*Definition, error) {
	if !ValidName(name) {
		return nil, nil
	}

	u := l.BaseURL + "/" + url.PathEscape(name) + ".json"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, cerrors.New("E210").Wrap(err)
	}
	req.Header.Set("Accept", "application/json")

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, cerrors.New("E210").
			WithDetail("Could not connect to component source: " + err.Error())
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		return nil, cerrors.New("E210").
			WithDetail(fmt.Sprintf("%s returned status %d", u, resp.StatusCode))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, cerrors.New("E210").WithDetailf("reading %s", u).Wrap(err)
	}
	return decodeDefinition(name, data, l.Factories)
}
