package mcpserver

// getFloat reads a JSON number argument. Arguments arrive as float64.
func getFloat(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key].(float64); ok {
		return v
	}
	return fallback
}

// getOptionalString returns nil when key is absent, so "" can still be passed
// on purpose.
func getOptionalString(args map[string]any, key string) *string {
	v, ok := args[key].(string)
	if !ok {
		return nil
	}
	return &v
}
