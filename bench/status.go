package bench

import (
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"lanbench/jsonmodel"
)

// FetchStatus reads the echo server's status endpoint. Used to cross-check
// the drained byte count against what the transfer trials sent.
func FetchStatus(client *http.Client, url string) (*jsonmodel.StatusResponse, error) {
	res, err := client.Get(url)

	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", url)
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, errors.Errorf("fetching %s - unexpected status %d", url, res.StatusCode)
	}

	var status jsonmodel.StatusResponse

	if err := json.NewDecoder(res.Body).Decode(&status); err != nil {
		return nil, errors.Wrapf(err, "decoding status from %s", url)
	}

	return &status, nil
}
