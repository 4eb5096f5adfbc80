// Package catalog enumerates the candidate objects a forecast considers:
// the major planets, deep-sky objects from the OpenNGC catalog, comets
// from the Minor Planet Center, and a built-in set of dwarf planets and
// bright asteroids. Downloads are cached on disk so repeated runs work
// offline.
package catalog

import (
	"context"
	"fmt"
	"io"
	nethttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/nightseek/nightseek/internal/cache"
	"github.com/nightseek/nightseek/internal/platform/http"
	"github.com/nightseek/nightseek/models"
)

const (
	openNGCURL  = "https://raw.githubusercontent.com/mattiaverga/OpenNGC/master/database_files/NGC.csv"
	cometElsURL = "https://www.minorplanetcenter.net/iau/MPCORB/CometEls.txt"

	openNGCCacheName  = "openngc"
	cometElsCacheName = "cometels"

	openNGCCacheTTL  = 7 * 24 * time.Hour
	cometElsCacheTTL = 24 * time.Hour
)

// Options configures a Provider.
type Options struct {
	// ObserverLatitude enables the declination pre-filter: objects that
	// can never rise above MinUsefulAltitude for this latitude are
	// dropped at load time. Nil disables the filter.
	ObserverLatitude  *float64
	MinUsefulAltitude float64

	CacheDir string
}

// Provider loads and caches the object catalogs.
type Provider struct {
	opts   Options
	client *http.Client
	ngc    *cache.Cache
	mpc    *cache.Cache
	logger zerolog.Logger
	now    func() time.Time
}

// NewProvider builds a Provider that fetches through client and caches
// under opts.CacheDir.
func NewProvider(opts Options, client *http.Client, logger zerolog.Logger) *Provider {
	if opts.MinUsefulAltitude == 0 {
		opts.MinUsefulAltitude = 30
	}
	return &Provider{
		opts:   opts,
		client: client,
		ngc:    cache.New(opts.CacheDir, openNGCCacheTTL, 2),
		mpc:    cache.New(opts.CacheDir, cometElsCacheTTL, 2),
		logger: logger.With().Str("component", "catalog").Logger(),
		now:    time.Now,
	}
}

// MilkyWay is the galactic core as a fixed target, positioned at
// Sagittarius A*.
func MilkyWay() models.CelestialObject {
	mag := 0.0
	return models.CelestialObject{
		Name:       "MW_CORE",
		CommonName: "Milky Way Core",
		Category:   models.CategoryMilkyWay,
		Body:       models.FixedBody("Milky Way Core", 17.761, -29.008),
		Magnitude:  &mag,
	}
}

// reachable reports whether a declination can ever clear the minimum
// useful altitude from the configured latitude.
func (p *Provider) reachable(decDeg float64) bool {
	if p.opts.ObserverLatitude == nil {
		return true
	}
	maxAlt := 90 - abs(*p.opts.ObserverLatitude-decDeg)
	return maxAlt >= p.opts.MinUsefulAltitude
}

// fetchCached returns the named resource, downloading when the cached
// copy is stale and falling back to a stale copy if the download fails.
func (p *Provider) fetchCached(ctx context.Context, name, url string, c *cache.Cache) ([]byte, error) {
	if data, err := c.LoadFresh(name, p.now()); err == nil {
		return data, nil
	}

	data, err := p.download(ctx, url)
	if err != nil {
		p.logger.Warn().Err(err).Str("resource", name).Msg("download failed, trying stale cache")
		if stale, _, cerr := c.LoadLatest(name); cerr == nil {
			return stale, nil
		}
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}

	if err := c.Write(name, data, p.now()); err != nil {
		p.logger.Warn().Err(err).Str("resource", name).Msg("failed to cache download")
	}
	return data, nil
}

func (p *Provider) download(ctx context.Context, url string) ([]byte, error) {
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := p.client.DoRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}
	return data, nil
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
