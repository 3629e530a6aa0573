package net

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// MaxModelSize caps the size of a fetched document.
const MaxModelSize = 16 << 20

// ErrorURLNotFound is returned when the server responds with 404.
var ErrorURLNotFound = errors.New("URL not found")

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// Fetch returns the body of url. A non-empty token is sent as a bearer token.
func Fetch(ctx context.Context, url, token string) ([]byte, error) {
	resp, err := getResp(ctx, url, token)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, MaxModelSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "error reading response from %s", url)
	}
	if len(b) > MaxModelSize {
		return nil, errors.Errorf("response from %s exceeds %d bytes", url, MaxModelSize)
	}
	return b, nil
}

// Download saves the body of url to path.
func Download(ctx context.Context, url, path, token string) (retErr error) {
	resp, err := getResp(ctx, url, token)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "error creating file %s", path)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("closing file: %w", cerr)
		}
	}()

	if _, err = io.Copy(out, io.LimitReader(resp.Body, MaxModelSize)); err != nil {
		return errors.Wrap(err, "error saving downloaded content to file")
	}

	return nil
}

func getResp(ctx context.Context, url, token string) (*http.Response, error) {
	if !IsURL(url) {
		return nil, errors.Errorf("invalid URL: %q", url)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error creating HTTP Get request")
	}
	req.Header.Set("User-Agent", clientAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := GetOAuthClient(ctx, token).Do(req) //nolint:gosec // URL comes from user config
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching %s", url)
	}
	PrintHTTPResponse(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, ErrorURLNotFound
	case resp.StatusCode != http.StatusOK:
		resp.Body.Close()
		return nil, errors.Errorf("error downloading %s (status: %d - %s)", url, resp.StatusCode, resp.Status)
	}

	return resp, nil
}
