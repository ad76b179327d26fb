package llm

import (
	"context"
	"fmt"

	"github.com/PabloGalante/datagent/internal/domain"
)

type MockLLM struct{}

func NewMockLLM() *MockLLM {
	return &MockLLM{}
}

func (m *MockLLM) Respond(_ context.Context, message string, history []domain.Turn) (string, error) {
	return fmt.Sprintf("收到：%q（上下文 %d 条）。这是本地模拟回复。", message, len(history)), nil
}
