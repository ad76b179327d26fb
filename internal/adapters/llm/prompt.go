package llm

import (
	"google.golang.org/genai"

	"github.com/PabloGalante/datagent/internal/domain"
)

// SystemInstruction is sent with every chat session.
const SystemInstruction = `You are a high-tech "Data Intelligence Agent" for a large enterprise big-data platform.
Your tone is professional, precise, and helpful.
You specialize in three areas:
1. Smart Query (answering specific data questions).
2. Smart Reports (generating visual summaries).
3. Smart Analysis (providing deep insights).

Keep your answers concise and formatted nicely. Use markdown.
If the user asks for data visualization, mention that you are generating a chart (the UI will handle the actual rendering).
`

const (
	// FallbackText replaces an empty model answer.
	FallbackText = "I processed your request but could not generate a text response."

	// ErrorText is returned for any client, transport or service failure.
	ErrorText = "System Error: Unable to connect to the Data Intelligence Core. Please check your API configuration."
)

// toContents maps the conversation history onto genai contents, one per
// turn, keeping order.
func toContents(history []domain.Turn) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, t := range history {
		var role genai.Role
		switch t.Role {
		case domain.RoleAssistant:
			role = genai.RoleModel
		default:
			role = genai.RoleUser
		}
		contents = append(contents, genai.NewContentFromText(t.Text, role))
	}
	return contents
}
