package importer

import (
	"strings"

	"github.com/pkordes/product-registry/internal/domain"
)

var templateItems = map[domain.ReferenceKind][]string{
	domain.KindUsers:     {"Anna Berg", "Jonas Lie", "Maria Holm"},
	domain.KindProducts:  {"Cordless drill", "Circular saw", "Laser level", "Pressure washer"},
	domain.KindLocations: {"Main workshop", "Warehouse B", "Site office"},
	domain.KindPurposes:  {"Maintenance", "Installation", "Repair", "Inspection"},
}

// Template returns example import content for kind in format f. CSV
// templates quote every value; text templates list them bare.
func Template(kind domain.ReferenceKind, f Format) []byte {
	items := templateItems[kind]
	var b strings.Builder
	for _, it := range items {
		if f == FormatCSV {
			b.WriteString(`"` + it + `"`)
		} else {
			b.WriteString(it)
		}
		b.WriteByte('\n')
	}
	return []byte(b.String())
}

// TemplateName is the download file name of a template.
func TemplateName(kind domain.ReferenceKind, f Format) string {
	return string(kind) + "-template." + f.String()
}
