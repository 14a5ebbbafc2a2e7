package spreadsheet

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const (
	MimeXLS      = "application/vnd.ms-excel"
	MimeXExcel   = "application/x-excel"
	MimeExcel    = "application/excel"
	MimeXLSX     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeFallback = "application/octet-stream"
)

var acceptedTypes = []string{MimeXLS, MimeXExcel, MimeExcel, MimeXLSX}

func AcceptedTypes() []string {
	out := make([]string, len(acceptedTypes))
	copy(out, acceptedTypes)
	return out
}

func IsAccepted(mimeType string) bool {
	mimeType = normalizeMIME(mimeType)
	for _, t := range acceptedTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

const (
	mimeZip = "application/zip"
	mimeOLE = "application/x-ole-storage"
)

// ResolveMIME returns the accepted MIME type of an upload. The container
// sniffed from the content picks the type; the declared type is used only
// when the content is neither a zip nor an OLE compound file.
func ResolveMIME(declared string, data []byte) (string, error) {
	declared = normalizeMIME(declared)
	detected := mimetype.Detect(data)

	switch {
	case detected.Is(MimeXLSX) || detected.Is(mimeZip):
		return MimeXLSX, nil
	case detected.Is(MimeXLS) || detected.Is(mimeOLE):
		if isLegacy(declared) {
			return declared, nil
		}
		return MimeXLS, nil
	case inFamily(detected, mimeZip) || inFamily(detected, mimeOLE):
		// A different office format, e.g. a Word document.
		return "", &UnsupportedTypeError{MimeType: detected.String()}
	}

	if IsAccepted(declared) {
		return declared, nil
	}
	if declared != "" && declared != mimeFallback {
		return "", &UnsupportedTypeError{MimeType: declared}
	}
	return "", &UnsupportedTypeError{MimeType: detected.String()}
}

func isLegacy(m string) bool {
	return m == MimeXLS || m == MimeXExcel || m == MimeExcel
}

// inFamily reports whether m or one of its parents is the given type.
func inFamily(m *mimetype.MIME, parent string) bool {
	for ; m != nil; m = m.Parent() {
		if m.Is(parent) {
			return true
		}
	}
	return false
}

// MIMEForFile guesses a declared type from a file name.
func MIMEForFile(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return MimeXLSX
	case ".xls":
		return MimeXLS
	}
	return ""
}

func normalizeMIME(m string) string {
	if i := strings.IndexByte(m, ';'); i >= 0 {
		m = m[:i]
	}
	return strings.ToLower(strings.TrimSpace(m))
}
