// Package tiger downloads Census TIGER/Line shapefiles and parses them into
// in-memory address-range and block-polygon tables.
package tiger

import (
	"fmt"
	"strings"
)

const (
	httpBase = "https://www2.census.gov/geo/tiger"
	ftpBase  = "ftp://ftp2.census.gov/geo/tiger"

	// DefaultYear is the TIGER/Line vintage matching Census 2020 block
	// GEOIDs.
	DefaultYear = 2020
)

// Product describes a TIGER/Line shapefile product.
type Product struct {
	Name      string // directory name on the Census server, e.g. "ADDRFEAT"
	PerCounty bool   // true = one file per 5-digit county FIPS, false = per state
}

var (
	// AddrFeat carries address ranges along street segments, one file per
	// county.
	AddrFeat = Product{Name: "ADDRFEAT", PerCounty: true}

	// Blocks carries the 2020 tabulation block polygons, one file per state.
	Blocks = Product{Name: "TABBLOCK20"}
)

// FileName returns the ZIP file name for an area (2-digit state FIPS or
// 5-digit county FIPS, depending on the product).
func (p Product) FileName(year int, area string) string {
	return fmt.Sprintf("tl_%d_%s_%s.zip", year, area, strings.ToLower(p.Name))
}

// DownloadURL returns the primary HTTPS URL for a product file.
func (p Product) DownloadURL(year int, area string) string {
	return fmt.Sprintf("%s/TIGER%d/%s/%s", httpBase, year, p.Name, p.FileName(year, area))
}

// MirrorURL returns the FTP mirror URL for a product file.
func (p Product) MirrorURL(year int, area string) string {
	return fmt.Sprintf("%s/TIGER%d/%s/%s", ftpBase, year, p.Name, p.FileName(year, area))
}
