package tags

// Missing returns the required tag keys that are absent from existing,
// preserving the order of required. A nil or empty existing set means
// every required tag is missing, so required is returned as-is.
func Missing(existing map[string]string, required []string) []string {
	if len(existing) == 0 {
		return required
	}

	var missing []string
	for _, key := range required {
		if _, ok := existing[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}
