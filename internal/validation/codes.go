package validation

// ResolveMessageCodes returns the catalog keys for an object scoped error,
// most specific first: code.object, code.
func ResolveMessageCodes(code, objectName string) []string {
	if code == "" {
		return nil
	}
	if objectName == "" {
		return []string{code}
	}
	return []string{code + "." + objectName, code}
}

// ResolveFieldMessageCodes returns the catalog keys for a field scoped error,
// most specific first: code.object.field, code.field, code.fieldType, code.
// Empty parts are skipped.
func ResolveFieldMessageCodes(code, objectName, field, fieldType string) []string {
	if code == "" {
		return nil
	}
	codes := make([]string, 0, 4)
	if objectName != "" && field != "" {
		codes = append(codes, code+"."+objectName+"."+field)
	}
	if field != "" {
		codes = append(codes, code+"."+field)
	}
	if fieldType != "" {
		codes = append(codes, code+"."+fieldType)
	}
	return append(codes, code)
}
