package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/amishk599/jobhunter/internal/model"
)

const userAgent = "jobhunter/1.0 (+https://github.com/amishk599/jobhunter)"

// getJSON issues a GET to url and decodes the JSON body into out. label
// prefixes every error (e.g. "lever fetch for acme"). Non-200 responses come
// back as *model.HTTPError so the retry layer can classify them.
func getJSON(ctx context.Context, client *http.Client, url, label string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.NewHTTPError(resp, fmt.Errorf("%s: unexpected status %d", label, resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	return nil
}
