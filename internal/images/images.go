// package images resolves artist image references to displayable URLs
//
// Image references stored by the backend come in several shapes: absolute
// URLs, legacy repo-relative paths, and bare filenames that belong to a
// tenant's asset directory. The resolver applies one fixed precedence order
// so every caller renders the same URL for the same reference.
package images

import (
	"strings"
)

// FallbackAsset is the shared placeholder shown when no usable image exists.
const FallbackAsset = "/static/img/music-music-note-2.svg"

const (
	staticPrefix       = "/static/"
	tenantAssetDir     = "author_images"
	sharedAssetPrefix  = "/static/author_images/"
	tenantAssetPattern = "/static/tenants/"
)

// reservedSegments are top-level routes that can never be tenant slugs.
var reservedSegments = map[string]bool{
	"search": true,
	"queue":  true,
	"admin":  true,
	"songs":  true,
	"help":   true,
	"login":  true,
	"static": true,
}

// Resolver maps stored image references to displayable URLs.
//
// DefaultTenant is consulted when a call supplies no tenant; PagePath is the
// current page's URL path, used as a last resort to infer the tenant from its
// first non-reserved segment.
type Resolver struct {
	DefaultTenant string
	PagePath      string
}

// Resolve returns a displayable URL for ref, preferring tenant over the
// resolver's defaults.
//
// Precedence: absolute http(s) URLs pass through; empty references get the
// fallback asset; recognized static/legacy prefixes are normalized; bare
// filenames are composed under the tenant's asset directory, or the shared
// directory when no tenant is known.
func (r *Resolver) Resolve(ref, tenant string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	if ref == "" {
		return FallbackAsset
	}

	if strings.Contains(ref, "/") {
		if strings.HasPrefix(ref, "static/") {
			return "/" + ref
		}
		if strings.HasPrefix(ref, staticPrefix) {
			return ref
		}
		// Legacy rows stored "tenants/<slug>/author_images/<file>" or
		// "author_images/<file>" without the static root.
		if strings.HasPrefix(ref, "tenants/") || strings.HasPrefix(ref, tenantAssetDir+"/") {
			return staticPrefix + ref
		}
	}

	if tenant == "" {
		tenant = r.tenantFromContext()
	}

	if tenant != "" {
		return tenantAssetPattern + tenant + "/" + tenantAssetDir + "/" + ref
	}
	return sharedAssetPrefix + ref
}

// tenantFromContext falls back to the configured tenant, then to the first
// non-reserved segment of the page path.
func (r *Resolver) tenantFromContext() string {
	if r == nil {
		return ""
	}
	if r.DefaultTenant != "" {
		return r.DefaultTenant
	}

	parts := strings.Split(strings.TrimPrefix(r.PagePath, "/"), "/")
	if len(parts) > 0 && parts[0] != "" && !reservedSegments[parts[0]] {
		return parts[0]
	}
	return ""
}

// Resolve maps ref to a displayable URL with no tenant context.
func Resolve(ref, tenant string) string {
	var r Resolver
	return r.Resolve(ref, tenant)
}

// Binding ties a resolved image URL to its one-shot error fallback.
//
// The first load failure swaps the source to [FallbackAsset]; further
// failures are ignored so a broken fallback asset cannot loop.
type Binding struct {
	src               string
	fallbackAttempted bool
}

// Bind resolves ref for tenant and returns a Binding ready for rendering.
func (r *Resolver) Bind(ref, tenant string) *Binding {
	return &Binding{src: r.Resolve(ref, tenant)}
}

// Src returns the URL the image should currently render from.
func (b *Binding) Src() string {
	return b.src
}

// OnError records a load failure and returns the URL to render next.
func (b *Binding) OnError() string {
	if b.fallbackAttempted {
		return b.src
	}
	b.fallbackAttempted = true

	if !strings.Contains(b.src, "music-music-note-2.svg") {
		b.src = FallbackAsset
	}
	return b.src
}
