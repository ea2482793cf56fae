package project

// DefaultColor is used when a project arrives without a colour and no palette applies.
const DefaultColor = "#007bff"

// Palette is the rotation of colours offered to new projects.
var Palette = []string{
	"#007bff",
	"#28a745",
	"#dc3545",
	"#ffc107",
	"#6f42c1",
	"#fd7e14",
	"#20c997",
	"#e83e8c",
	"#6c757d",
	"#17a2b8",
	"#343a40",
	"#f8f9fa",
}

// PaletteColor returns the palette entry for the n-th project.
func PaletteColor(n int) string {
	if n < 0 {
		return DefaultColor
	}
	return Palette[n%len(Palette)]
}
