package tablexport

// escapeFormulaInjection prefixes a field with a single quote when a
// spreadsheet opening the CSV would otherwise interpret it as a formula.
// A leading tab triggers the prefix too.
func escapeFormulaInjection(field string) string {
	if field == "" {
		return field
	}
	switch field[0] {
	case '=', '+', '-', '@', '\t':
		return "'" + field
	}
	return field
}
