package tenant

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxSubdomainLen longitud máxima del subdominio generado desde el nombre.
const MaxSubdomainLen = 20

// Slugify convierte el nombre de la empresa en un subdominio: sin tildes, minúsculas,
// solo [a-z0-9], truncado a MaxSubdomainLen. "Ñandú Café S.A." -> "nanducafesa".
func Slugify(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	var b strings.Builder
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	slug := b.String()
	if len(slug) > MaxSubdomainLen {
		slug = slug[:MaxSubdomainLen]
	}
	if slug == "" {
		slug = "company"
	}
	if _, isReserved := reserved[slug]; isReserved {
		slug += "1"
	}
	return slug
}

// WithSuffix agrega un contador para desambiguar colisiones: acme, 1 -> acme1.
func WithSuffix(slug string, n int) string {
	return slug + strconv.Itoa(n)
}
