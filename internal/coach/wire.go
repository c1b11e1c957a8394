package coach

// Wire types for the OpenAI-compatible chat-completions contract.

type chatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []tool    `json:"tools,omitempty"`
}

type tool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"`
}

// submitGoalsTool is the onboarding function schema: six array-of-string
// arguments, one per goal horizon.
var submitGoalsTool = tool{
	Type: "function",
	Function: toolFunction{
		Name:        "submit_goals",
		Description: "Submit the user's goals sorted into six horizons.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"long_term": goalArraySchema("Lifetime goals"),
				"decade":    goalArraySchema("Ten-year goals"),
				"yearly":    goalArraySchema("This year's goals"),
				"monthly":   goalArraySchema("This month's goals"),
				"weekly":    goalArraySchema("This week's goals"),
				"daily":     goalArraySchema("Today's goals"),
			},
			"required": []string{"long_term", "decade", "yearly", "monthly", "weekly", "daily"},
		},
	},
}

func goalArraySchema(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   string `json:"content"`
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
	} `json:"choices"`
}

// text returns the first choice's assistant text, if any.
func (r *chatResponse) text() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// toolArguments returns the raw JSON arguments of the first call to the
// named tool, or "".
func (r *chatResponse) toolArguments(name string) string {
	if len(r.Choices) == 0 {
		return ""
	}
	for _, call := range r.Choices[0].Message.ToolCalls {
		if call.Function.Name == name {
			return call.Function.Arguments
		}
	}
	return ""
}
