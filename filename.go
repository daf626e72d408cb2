package tablexport

import (
	"fmt"
	"strings"
)

// reservedFilenames are device names Windows refuses regardless of extension.
var reservedFilenames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true, "COM5": true,
	"COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true, "LPT5": true,
	"LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// ValidateFilename rejects filenames that could escape the download directory
// or break on common filesystems: path separators, control characters,
// reserved characters, reserved device names, leading/trailing dots or
// spaces, and names over 255 bytes. Validation happens before any extraction
// starts.
func ValidateFilename(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename must not be empty")
	}
	if strings.ContainsAny(filename, `/\`) {
		return fmt.Errorf("filename must not contain path separators")
	}
	for _, r := range filename {
		if r <= 0x1F || r == 0x7F {
			return fmt.Errorf("filename must not contain control characters")
		}
	}
	if i := strings.IndexAny(filename, `<>:"|?*`); i >= 0 {
		return fmt.Errorf("filename must not contain the character %q", filename[i])
	}
	if len(filename) > 255 {
		return fmt.Errorf("filename too long (maximum 255 bytes)")
	}

	base, _, _ := strings.Cut(filename, ".")
	if reservedFilenames[strings.ToUpper(base)] {
		return fmt.Errorf("filename %q is a reserved device name", base)
	}

	if strings.HasPrefix(filename, ".") || strings.HasPrefix(filename, " ") ||
		strings.HasSuffix(filename, ".") || strings.HasSuffix(filename, " ") {
		return fmt.Errorf("filename must not start or end with a dot or space")
	}
	// Fullwidth and halfwidth dot lookalikes defeat the edge checks above.
	if strings.ContainsAny(filename, "。．․") {
		return fmt.Errorf("filename must not contain fullwidth dot characters")
	}

	return nil
}

// ensureExtension appends the extension unless the filename already ends with
// it (case-insensitive).
func ensureExtension(filename, ext string) string {
	if strings.HasSuffix(strings.ToLower(filename), "."+strings.ToLower(ext)) {
		return filename
	}
	return filename + "." + ext
}
