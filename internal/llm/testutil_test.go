package llm

var verdictSchema = MustSchema("verdict", "test verdict", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"directive": map[string]any{"type": "string", "enum": []any{"accept", "reject", "prompt"}},
	},
	"required":             []any{"directive"},
	"additionalProperties": false,
})
