// Package tenant resuelve y transporta la empresa activa de cada petición.
package tenant

import (
	"net"
	"strings"
)

// reserved subdominios que apuntan a la plataforma y no a una empresa.
var reserved = map[string]struct{}{
	"www":   {},
	"api":   {},
	"admin": {},
}

// ResolveSubdomain deriva el subdominio de la empresa a partir del host de la petición.
//
// Devuelve ok=false (contexto de plataforma) cuando el host es localhost, una IP,
// incluye puerto, no tiene punto o su primera etiqueta es reservada.
// Con varios niveles (a.b.example.com) solo cuenta la primera etiqueta.
func ResolveSubdomain(host string) (subdomain string, ok bool) {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || host == "localhost" || strings.Contains(host, ":") {
		return "", false
	}
	if net.ParseIP(host) != nil {
		return "", false
	}
	label, _, found := strings.Cut(host, ".")
	if !found || label == "" {
		return "", false
	}
	if _, isReserved := reserved[label]; isReserved {
		return "", false
	}
	return label, true
}
