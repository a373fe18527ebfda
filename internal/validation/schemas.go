package validation

// Schema names accepted by Validator.Decode.
const (
	CreateSession = "create_session"
	CreateMemo    = "create_memo"
	CreateTodo    = "create_todo"
	ChatPrompt    = "chat_prompt"
)

var builtinSchemas = map[string]string{
	CreateSession: `{
		"type": "object",
		"required": ["title"],
		"properties": {"title": {"type": "string"}}
	}`,
	CreateMemo: `{
		"type": "object",
		"required": ["content"],
		"properties": {"content": {"type": "string"}}
	}`,
	CreateTodo: `{
		"type": "object",
		"required": ["title"],
		"properties": {"title": {"type": "string"}}
	}`,
	ChatPrompt: `{
		"type": "object",
		"required": ["prompt"],
		"properties": {
			"prompt": {"type": "string"},
			"session_id": {"type": ["string", "null"]}
		}
	}`,
}
