package importer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"dancehub/pkg/models"
)

// MirrorSource pulls the song bundle from another dancehub instance's
// /songdb endpoint (or a standalone mirror-server).
type MirrorSource struct {
	Client  *http.Client
	BaseURL string
}

func NewMirrorSource(baseURL string) *MirrorSource {
	return &MirrorSource{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *MirrorSource) Name() string { return "mirror" }

func (s *MirrorSource) FetchAll(ctx context.Context) ([]models.Song, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+"/songdb", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch mirror: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mirror returned %s", resp.Status)
	}

	b, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return nil, fmt.Errorf("read mirror body: %w", err)
	}
	return decodeBundle(b)
}
