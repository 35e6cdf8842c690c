package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"

	"github.com/sitegauge/sitegauge/internal/config"
	"github.com/sitegauge/sitegauge/internal/models"
)

// DomainTrust estimates a domain-authority-like score from cheap signals.
// The output is always labeled estimated; a real metrics backend has a
// config slot (MozAPIKey) but nothing binds it yet.
type DomainTrust struct {
	cfg    config.DomainTrustConfig
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

func NewDomainTrust(cfg config.DomainTrustConfig, log *logrus.Logger) *DomainTrust {
	return &DomainTrust{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.ArchiveTimeout},
		log:    log,
		now:    time.Now,
	}
}

// Estimate scores the page's domain. The archive-age lookup is best effort
// with a short timeout; on failure the age stays unknown and the rest of
// the signals still count.
func (d *DomainTrust) Estimate(ctx context.Context, pageURL string) models.DomainTrustResult {
	result := models.DomainTrustResult{
		Reliability: models.ReliabilityEstimated,
		Signals:     []string{},
	}

	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		result.Error = fmt.Sprintf("unparseable URL: %v", err)
		return result
	}
	host := u.Hostname()

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		domain = host
	}
	result.Domain = domain

	score := 30

	if u.Scheme == "https" {
		score += 15
		result.Signals = append(result.Signals, "serves over https")
	}

	tld := domain
	if idx := strings.LastIndex(domain, "."); idx >= 0 {
		tld = domain[idx+1:]
	}
	switch tld {
	case "gov", "edu":
		score += 20
		result.Signals = append(result.Signals, "highly trusted TLD ."+tld)
	case "com", "org":
		score += 15
		result.Signals = append(result.Signals, "trusted TLD ."+tld)
	case "net", "io", "dev":
		score += 10
		result.Signals = append(result.Signals, "common TLD ."+tld)
	default:
		score += 5
	}

	switch {
	case len(domain) <= 10:
		score += 10
		result.Signals = append(result.Signals, "short domain name")
	case len(domain) <= 16:
		score += 5
	}

	if strings.HasPrefix(host, "www.") {
		score += 5
		result.Signals = append(result.Signals, "www host")
	}

	if years, ok := d.domainAgeYears(ctx, domain); ok {
		result.AgeKnown = true
		result.DomainAgeYears = years
		bonus := years * 2
		if bonus > 20 {
			bonus = 20
		}
		score += bonus
		result.Signals = append(result.Signals, fmt.Sprintf("first archived %d years ago", years))
	}

	if score > 100 {
		score = 100
	}
	result.Score = score
	return result
}

type archiveResponse struct {
	ArchivedSnapshots struct {
		Closest struct {
			Available bool   `json:"available"`
			Timestamp string `json:"timestamp"`
		} `json:"closest"`
	} `json:"archived_snapshots"`
}

// domainAgeYears asks a public web-archive availability endpoint for the
// earliest snapshot near 1996. Failures are silent by design.
func (d *DomainTrust) domainAgeYears(ctx context.Context, domain string) (int, bool) {
	query := url.Values{}
	query.Set("url", domain)
	query.Set("timestamp", "19960101")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.cfg.ArchiveEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return 0, false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.log.WithError(err).WithField("domain", domain).Debug("archive lookup failed")
		return 0, false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, false
	}

	var payload archiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, false
	}
	closest := payload.ArchivedSnapshots.Closest
	if !closest.Available || len(closest.Timestamp) < 4 {
		return 0, false
	}

	year, err := strconv.Atoi(closest.Timestamp[:4])
	if err != nil {
		return 0, false
	}
	age := d.now().Year() - year
	if age < 0 {
		return 0, false
	}
	return age, true
}
