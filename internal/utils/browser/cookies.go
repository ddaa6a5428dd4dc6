// Package browser exports browser cookies for use by the downloader.
package browser

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"postgrab/internal/domain/consts"
	"postgrab/internal/domain/logger"

	"github.com/browserutils/kooky"
	// Use all browsers for Kooky:
	_ "github.com/browserutils/kooky/browser/all"
	"golang.org/x/net/publicsuffix"
)

// CookieReader returns the cookies stored for a domain.
type CookieReader func(ctx context.Context, domain string) ([]*http.Cookie, error)

// CookieExporter writes one cookie file per domain into Dir for the downloader.
type CookieExporter struct {
	Read    CookieReader
	Dir     string
	written map[string]string
}

// NewCookieExporter returns an exporter reading from every browser kooky supports.
func NewCookieExporter(dir string) *CookieExporter {
	return &CookieExporter{
		Read:    readBrowserCookies,
		Dir:     dir,
		written: make(map[string]string),
	}
}

// Export writes the cookies for sourceURL's domain to that domain's file in Netscape format.
//
// Returns "" if no cookies were found, so callers can leave the cookie flag off.
// A domain already exported reuses its earlier file.
func (ce *CookieExporter) Export(ctx context.Context, sourceURL string) (string, error) {
	domain, err := baseDomain(sourceURL)
	if err != nil {
		return "", fmt.Errorf("error extracting base domain in cookie grab: %w", err)
	}

	if ce.written == nil {
		ce.written = make(map[string]string)
	}
	if p, ok := ce.written[domain]; ok {
		return p, nil
	}

	cookies, err := ce.Read(ctx, domain)
	if err != nil {
		logger.Pl.D(2, "Failed reading cookies: %v", err)
		ce.written[domain] = ""
		return "", nil
	}
	if len(cookies) == 0 {
		logger.Pl.I("No cookies found for %s", domain)
		ce.written[domain] = ""
		return "", nil
	}

	path := CookiePath(ce.Dir, domain)
	if err := saveCookiesToFile(cookies, domain, path); err != nil {
		return "", fmt.Errorf("failed to write cookie file %q: %w", path, err)
	}
	logger.Pl.I("Found %d cookies for %s", len(cookies), domain)
	ce.written[domain] = path
	return path, nil
}

// Remove deletes every cookie file written so far.
func (ce *CookieExporter) Remove() error {
	var errList []error
	for domain, p := range ce.written {
		if p == "" {
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errList = append(errList, err)
			continue
		}
		delete(ce.written, domain)
	}
	return errors.Join(errList...)
}

// readBrowserCookies loads valid cookies for domain from all browser stores.
func readBrowserCookies(ctx context.Context, domain string) ([]*http.Cookie, error) {
	var (
		found   []*kooky.Cookie
		errList []error
	)
	for _, store := range kooky.FindAllCookieStores() {
		if err := ctx.Err(); err != nil {
			closeStore(store)
			return nil, err
		}

		browserName := store.Browser()
		logger.Pl.D(2, "Attempting to read cookies from %s", browserName)

		cookies, err := store.ReadCookies(kooky.Valid, kooky.DomainHasSuffix(domain))
		closeStore(store)
		if err != nil {
			logger.Pl.D(2, "Failed to read cookies from %s: %v", browserName, err)
			errList = append(errList, fmt.Errorf("%s: %w", browserName, err))
			continue
		}
		if len(cookies) > 0 {
			logger.Pl.D(1, "Read %d cookies from %s for domain %s", len(cookies), browserName, domain)
			found = append(found, cookies...)
		}
	}

	if len(found) == 0 && len(errList) > 0 {
		return nil, errors.Join(errList...)
	}
	return convertToHTTPCookies(found), nil
}

func closeStore(store kooky.CookieStore) {
	if err := store.Close(); err != nil {
		logger.Pl.D(2, "Failed to close %s cookie store: %v", store.Browser(), err)
	}
}

// convertToHTTPCookies converts kooky cookies to http.Cookie format.
func convertToHTTPCookies(kookyCookies []*kooky.Cookie) []*http.Cookie {
	httpCookies := make([]*http.Cookie, len(kookyCookies))
	for i, c := range kookyCookies {
		httpCookies[i] = &http.Cookie{
			Name:    c.Name,
			Value:   c.Value,
			Path:    c.Path,
			Domain:  c.Domain,
			Secure:  c.Secure,
			Expires: c.Expires,
		}
	}
	return httpCookies
}

// saveCookiesToFile saves the cookies to a file in Netscape format.
func saveCookiesToFile(cookies []*http.Cookie, domain, cookieFilePath string) error {
	file, err := os.OpenFile(cookieFilePath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer func() {
		if err := file.Close(); err != nil {
			logger.Pl.E("failed to close file %q due to error: %v", cookieFilePath, err)
		}
	}()

	w := bufio.NewWriter(file)
	if _, err := w.WriteString("# Netscape HTTP Cookie File\n# This is a generated file! Do not edit.\n\n"); err != nil {
		return err
	}

	logger.Pl.D(1, "Saving %d cookies to file %s...", len(cookies), cookieFilePath)
	for _, cookie := range cookies {
		if _, err := w.WriteString(netscapeLine(cookie, domain)); err != nil {
			return err
		}
	}
	return w.Flush()
}

// netscapeLine renders one cookie as a tab-separated Netscape cookie file line.
func netscapeLine(c *http.Cookie, fallbackDomain string) string {
	domain := c.Domain
	if domain == "" {
		domain = fallbackDomain
	}

	includeSub := "FALSE"
	if strings.HasPrefix(domain, ".") {
		includeSub = "TRUE"
	}

	secure := "FALSE"
	if c.Secure {
		secure = "TRUE"
	}

	path := c.Path
	if path == "" {
		path = "/"
	}

	expires := int64(0)
	if !c.Expires.IsZero() {
		expires = c.Expires.Unix()
	}

	return fmt.Sprintf("%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
		domain, includeSub, path, secure, expires, c.Name, c.Value)
}

// baseDomain returns the base domain for an inputted URL.
func baseDomain(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	return publicsuffix.EffectiveTLDPlusOne(u.Hostname())
}

// CookiePath is where cookies exported for domain go inside dir.
func CookiePath(dir, domain string) string {
	return filepath.Join(dir, consts.CookieFilePrefix+domain+consts.CookieFileExt)
}
