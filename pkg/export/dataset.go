package export

import "fmt"

// Format names a rendered document type.
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat normalises a user supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatPDF:
		return FormatPDF, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", raw)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// Section is a titled block of a sheet. Rows without a matching header are omitted.
type Section struct {
	Heading string
	Note    string
	Data    Dataset
}

// Sheet is a document made of sections, such as a clearance form.
type Sheet struct {
	Title    string
	Subtitle string
	Sections []Section
}

// Flatten merges every section into one dataset, prefixing rows with the section heading.
func (s Sheet) Flatten(sectionHeader string) Dataset {
	out := Dataset{}
	seen := map[string]bool{}
	if sectionHeader != "" {
		out.Headers = append(out.Headers, sectionHeader)
		seen[sectionHeader] = true
	}
	for _, section := range s.Sections {
		for _, h := range section.Data.Headers {
			if !seen[h] {
				seen[h] = true
				out.Headers = append(out.Headers, h)
			}
		}
	}
	for _, section := range s.Sections {
		for _, row := range section.Data.Rows {
			merged := make(map[string]string, len(row)+1)
			for k, v := range row {
				merged[k] = v
			}
			if sectionHeader != "" {
				merged[sectionHeader] = section.Heading
			}
			out.Rows = append(out.Rows, merged)
		}
	}
	return out
}
