package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnswerSystemInstruction(t *testing.T) {
	instr := AnswerSystemInstruction("chapter one discusses binary trees")

	assert.Contains(t, instr, "ONLY on the provided context")
	assert.Contains(t, instr, "could not find the answer")
	assert.Contains(t, instr, "chapter one discusses binary trees")
}

func TestRewriteSystemInstruction(t *testing.T) {
	history := "user: what is a heap?\nassistant: a heap is a tree-shaped priority structure"
	instr := RewriteSystemInstruction(history)

	assert.Contains(t, instr, "standalone question")
	assert.Contains(t, instr, "return it unchanged")
	assert.Contains(t, instr, history)
}
