package page

import (
	"fmt"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the manifest used when no theme is requested.
const DefaultThemeName = "schemabuilder"

// DefaultManifest returns the built-in light theme with a dark variant.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-bg":     "#ffffff",
			"color-fg":     "#1f2933",
			"color-muted":  "#6b7280",
			"color-border": "#d1d5db",
			"color-accent": "#2563eb",
			"color-error":  "#b91c1c",
			"font-family":  "system-ui, sans-serif",
			"font-mono":    "ui-monospace, monospace",
			"radius":       "6px",
		},
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-bg":     "#111827",
					"color-fg":     "#f3f4f6",
					"color-muted":  "#9ca3af",
					"color-border": "#374151",
					"color-accent": "#60a5fa",
					"color-error":  "#f87171",
				},
			},
		},
	}
}

// DefaultThemeRegistry returns a go-theme registry holding DefaultManifest.
func DefaultThemeRegistry() (*theme.MemoryRegistry, error) {
	registry := theme.NewRegistry()
	if err := registry.Register(DefaultManifest()); err != nil {
		return nil, fmt.Errorf("page: register default theme: %w", err)
	}
	return registry, nil
}

// StylesheetAsset is the manifest asset key that replaces the built-in
// stylesheet when a theme ships its own.
const StylesheetAsset = "stylesheet"

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		if strings.ContainsAny(key+vars[key], "<>{};") {
			continue
		}
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}
