package tiger

import (
	"archive/zip"
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Downloader fetches TIGER/Line ZIP files over HTTPS, falling back to the
// Census FTP mirror, and extracts the contained shapefile. Requests are
// rate limited so bulk state fetches stay polite.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	ftpWait time.Duration
}

// DownloaderOptions configures a Downloader.
type DownloaderOptions struct {
	Timeout      time.Duration // per-file HTTP timeout (default 10m)
	RequestsPerS float64       // rate limit across all requests (default 2)
	FTPTimeout   time.Duration // FTP dial timeout (default 30s)
}

// NewDownloader creates a Downloader with the given options.
func NewDownloader(opts DownloaderOptions) *Downloader {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Minute
	}
	if opts.RequestsPerS == 0 {
		opts.RequestsPerS = 2
	}
	if opts.FTPTimeout == 0 {
		opts.FTPTimeout = 30 * time.Second
	}
	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerS), 1),
		ftpWait: opts.FTPTimeout,
	}
}

// Fetch downloads primaryURL (falling back to mirrorURL on failure) into
// destDir and extracts the ZIP. Returns the path to the extracted .shp file.
// An already-present ZIP is reused without a network round trip.
func (d *Downloader) Fetch(ctx context.Context, primaryURL, mirrorURL, destDir string) (string, error) {
	parts := strings.Split(primaryURL, "/")
	zipName := parts[len(parts)-1]

	zipPath, err := d.FetchFile(ctx, primaryURL, mirrorURL, destDir, zipName)
	if err != nil {
		return "", err
	}

	extractDir := filepath.Join(destDir, strings.TrimSuffix(zipName, ".zip"))
	if err := os.MkdirAll(extractDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create extract dir")
	}
	if err := extractZIP(zipPath, extractDir); err != nil {
		return "", eris.Wrap(err, "tiger: extract ZIP")
	}

	shpPath, err := findFileByExt(extractDir, ".shp")
	if err != nil {
		return "", eris.Wrap(err, "tiger: find .shp file")
	}
	return shpPath, nil
}

// FetchFile downloads primaryURL into destDir under name, without
// extraction. Mirror fallback and local caching behave as in Fetch.
func (d *Downloader) FetchFile(ctx context.Context, primaryURL, mirrorURL, destDir, name string) (string, error) {
	log := zap.L().With(
		zap.String("component", "tiger.download"),
		zap.String("url", primaryURL),
	)

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return "", eris.Wrap(err, "tiger: create dest dir")
	}
	dest := filepath.Join(destDir, name)

	if info, err := os.Stat(dest); err == nil && info.Size() > 0 {
		log.Debug("file already exists, skipping download", zap.String("path", dest))
		return dest, nil
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "tiger: rate limit")
	}
	log.Info("downloading census file")
	if err := d.downloadHTTP(ctx, primaryURL, dest); err != nil {
		if mirrorURL == "" {
			return "", eris.Wrap(err, "tiger: download file")
		}
		log.Warn("primary download failed, trying FTP mirror",
			zap.String("mirror", mirrorURL),
			zap.Error(err),
		)
		if ftpErr := d.downloadFTP(ctx, mirrorURL, dest); ftpErr != nil {
			return "", eris.Wrapf(ftpErr, "tiger: download file (primary: %v)", err)
		}
	}
	return dest, nil
}

// downloadHTTP downloads a URL to a local file.
func (d *Downloader) downloadHTTP(ctx context.Context, rawURL, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return eris.Wrap(err, "build request")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download returned status %d", resp.StatusCode)
	}

	return writeToFile(dest, resp.Body)
}

// downloadFTP downloads an ftp:// URL to a local file using anonymous login.
func (d *Downloader) downloadFTP(ctx context.Context, rawURL, dest string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return eris.Wrap(err, "parse ftp url")
	}
	if u.Scheme != "ftp" {
		return eris.Errorf("expected ftp scheme, got %q", u.Scheme)
	}

	host := u.Host
	if _, _, splitErr := net.SplitHostPort(host); splitErr != nil {
		host = net.JoinHostPort(host, "21")
	}

	conn, err := ftp.Dial(host, ftp.DialWithTimeout(d.ftpWait), ftp.DialWithContext(ctx))
	if err != nil {
		return eris.Wrap(err, "ftp dial")
	}
	defer func() { _ = conn.Quit() }()

	if err := conn.Login("anonymous", "anonymous@"); err != nil {
		return eris.Wrap(err, "ftp login")
	}

	resp, err := conn.Retr(u.Path)
	if err != nil {
		return eris.Wrap(err, "ftp retrieve")
	}
	defer func() { _ = resp.Close() }()

	return writeToFile(dest, resp)
}

func writeToFile(dest string, r io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return eris.Wrap(err, "create file")
	}
	defer f.Close() //nolint:errcheck

	if _, err := io.Copy(f, r); err != nil {
		return eris.Wrap(err, "write file")
	}
	return nil
}

// extractZIP extracts a ZIP archive to the destination directory, flattening
// any internal paths.
func extractZIP(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return eris.Wrap(err, "open zip")
	}
	defer r.Close() //nolint:errcheck

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		destPath := filepath.Join(destDir, filepath.Base(f.Name))

		rc, err := f.Open()
		if err != nil {
			return eris.Wrapf(err, "open zip entry %s", f.Name)
		}

		outFile, err := os.Create(destPath)
		if err != nil {
			_ = rc.Close()
			return eris.Wrapf(err, "create %s", destPath)
		}

		if _, err := io.Copy(outFile, rc); err != nil {
			_ = outFile.Close()
			_ = rc.Close()
			return eris.Wrapf(err, "extract %s", f.Name)
		}
		_ = outFile.Close()
		_ = rc.Close()
	}

	return nil
}

// findFileByExt returns the first file in dir with the given extension.
func findFileByExt(dir, ext string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", eris.Wrap(err, "read dir")
	}
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ext) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", eris.Errorf("no %s file in %s", ext, dir)
}
