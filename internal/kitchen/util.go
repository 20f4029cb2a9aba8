package kitchen

// mergeParams returns a new map with base's entries overlaid by overlay's.
func mergeParams(base, overlay map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		out[k] = v
	}
	return out
}

// resolveBackend applies the step > recipe > global-default precedence of
// spec.md §4.4.
func resolveBackend(local, fallback string) string {
	if local != "" {
		return local
	}
	return fallback
}

func toSet(items []string) map[string]bool {
	out := make(map[string]bool, len(items))
	for _, s := range items {
		out[s] = true
	}
	return out
}

func mergeSchemas(a, b map[string]Schema) map[string]Schema {
	out := make(map[string]Schema, len(a)+len(b))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range b {
		out[k] = v
	}
	return out
}
