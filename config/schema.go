package config

// schema is the JSON schema every decoded config document must satisfy.
var schema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"root":               map[string]any{"type": "string"},
		"styleExtensions":    stringList,
		"scriptExtensions":   stringList,
		"conditions":         stringList,
		"tsconfig":           map[string]any{"type": "string", "minLength": 1},
		"includeNodeModules": map[string]any{"type": "boolean"},
		"sassLoadPaths":      stringList,
		"concurrency":        map[string]any{"type": "integer", "minimum": 1},
		"paths": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"baseUrl": map[string]any{"type": "string"},
				"patterns": map[string]any{
					"type": "array",
					"items": map[string]any{
						"type":                 "object",
						"additionalProperties": false,
						"required":             []string{"key", "targets"},
						"properties": map[string]any{
							"key":     map[string]any{"type": "string", "minLength": 1},
							"targets": map[string]any{"type": "array", "minItems": 1, "items": nonEmptyString},
						},
					},
				},
			},
		},
		"compilers": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"css":  nonEmptyString,
				"sass": nonEmptyString,
				"less": nonEmptyString,
			},
		},
	},
}

var nonEmptyString = map[string]any{"type": "string", "minLength": 1}

var stringList = map[string]any{"type": "array", "items": nonEmptyString}
