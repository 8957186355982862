package responder

import (
	"strings"
	"testing"
)

func TestAnswerIdentityQuestion(t *testing.T) {
	a := NewAssistant()

	answer, err := a.Answer("你是谁？")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(answer, "川小农") {
		t.Errorf("identity answer %q should introduce the assistant", answer)
	}
}

func TestAnswerAddressQuestion(t *testing.T) {
	a := NewAssistant()

	answer, err := a.Answer("学校在哪里")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(answer, "雅安") {
		t.Errorf("address answer %q should list the campuses", answer)
	}
}

func TestAnswerRuleOrderPrefersEarlierRule(t *testing.T) {
	a := NewAssistant()

	// Matches both the identity rule ("介绍") and the general school rule
	// ("学校"); the earlier rule must win.
	answer, err := a.Answer("介绍一下学校")
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(answer, "川小农") {
		t.Errorf("answer %q should come from the identity rule", answer)
	}
}

func TestAnswerUnknownQuestionEchoes(t *testing.T) {
	a := NewAssistant()

	question := "今天天气怎么样"
	answer, err := a.Answer(question)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !strings.Contains(answer, question) {
		t.Errorf("default answer %q should echo the question", answer)
	}
}
