package render

import "fmt"

// Format represents an output backend.
type Format string

// Output backends.
const (
	FormatXML        Format = "xml"
	FormatHTML       Format = "html"
	FormatLaTeX      Format = "latex"
	FormatMan        Format = "man"
	FormatCommonMark Format = "commonmark"
	FormatPlainText  Format = "plaintext"
)

// Formats returns every backend in a stable order.
func Formats() []Format {
	return []Format{FormatXML, FormatHTML, FormatLaTeX, FormatMan, FormatCommonMark, FormatPlainText}
}

// ParseFormat parses a format string, returning an error for unknown formats.
func ParseFormat(formatStr string) (Format, error) {
	switch formatStr {
	case "html", "":
		return FormatHTML, nil
	case "xml":
		return FormatXML, nil
	case "latex":
		return FormatLaTeX, nil
	case "man":
		return FormatMan, nil
	case "commonmark", "markdown", "md":
		return FormatCommonMark, nil
	case "plaintext", "text":
		return FormatPlainText, nil
	default:
		return "", fmt.Errorf("unknown format %q; valid formats: xml, html, latex, man, commonmark, plaintext", formatStr)
	}
}

// String returns the string representation of the format.
func (f Format) String() string {
	return string(f)
}

// IsValid returns true if the format is a known valid format.
func (f Format) IsValid() bool {
	switch f {
	case FormatXML, FormatHTML, FormatLaTeX, FormatMan, FormatCommonMark, FormatPlainText:
		return true
	default:
		return false
	}
}

// Extension returns the conventional file extension for output in f.
func (f Format) Extension() string {
	switch f {
	case FormatXML:
		return ".xml"
	case FormatHTML:
		return ".html"
	case FormatLaTeX:
		return ".tex"
	case FormatMan:
		return ".1"
	case FormatCommonMark:
		return ".md"
	default:
		return ".txt"
	}
}
