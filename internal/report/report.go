// Package report turns period statistics into a natural-language financial
// summary through the Gemini API. Prompt construction is deterministic so the
// same ledger state always produces the same payload.
package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"google.golang.org/genai"

	"wealthgrows/internal/core"
)

// SampleLimit bounds the number of transactions included in the prompt.
const SampleLimit = 30

var ErrMissingAPIKey = errors.New("missing GEMINI_API_KEY")

const systemInstruction = `You are a sharp but warm personal finance coach.
You understand modern spending psychology: emotional purchases, lifestyle
creep, and the goal of building a sustainable long-term savings system.

Given the financial data below:
1. Run a health check on the numbers and call out highlights and red flags.
2. Give concrete, actionable suggestions for the next period.

Format the answer as Markdown.`

// Params is the input to one report generation.
type Params struct {
	PeriodLabel  string
	Stats        core.Stats
	PrevStats    *core.Stats
	Transactions []core.Transaction
	UserNote     string
}

// Generator calls the Gemini API. Construct with NewGeneratorFromEnv.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGeneratorFromEnv builds a Generator from the ambient credential. It
// fails with ErrMissingAPIKey before any network traffic when no key is set.
func NewGeneratorFromEnv(ctx context.Context, model string) (*Generator, error) {
	if os.Getenv("GEMINI_API_KEY") == "" && os.Getenv("GOOGLE_API_KEY") == "" {
		return nil, ErrMissingAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{client: client, model: model}, nil
}

// Generate produces the report text for params.
func (g *Generator) Generate(ctx context.Context, params Params) (string, error) {
	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: BuildPrompt(params)}},
		},
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: systemInstruction}}},
		Temperature:       genai.Ptr(float32(0.8)),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("generate report: %w", err)
	}
	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("generate report: empty response from model")
	}
	return text, nil
}

// BuildPrompt renders the data payload: plain two-decimal numbers, no
// currency symbols, macro breakdown in seed order, and a bounded transaction
// sample ordered by amount descending with original order breaking ties.
func BuildPrompt(params Params) string {
	var b strings.Builder

	note := params.UserNote
	if note == "" {
		note = "none"
	}

	s := params.Stats
	fmt.Fprintf(&b, "Report period: %s\n", params.PeriodLabel)
	fmt.Fprintf(&b, "User note: %s\n", note)
	fmt.Fprintf(&b, "Total income: %s\n", s.TotalIncome.Decimal())
	fmt.Fprintf(&b, "Total expense: %s\n", s.TotalExpense.Decimal())
	fmt.Fprintf(&b, "Net savings: %s (savings rate: %.1f%%)\n", s.Savings.Decimal(), s.SavingsRate*100)
	fmt.Fprintf(&b, "Invested: %s (investment rate: %.1f%%)\n", s.InvestmentAmount.Decimal(), s.InvestmentRate*100)

	b.WriteString("Expense structure:\n")
	for _, m := range core.ExpenseMacroCategories() {
		fmt.Fprintf(&b, "  %s: %s\n", m, core.Money{Cents: s.CategoryBreakdown[m]}.Decimal())
	}

	if p := params.PrevStats; p != nil {
		fmt.Fprintf(&b, "Previous period: income %s, expense %s, savings %s\n",
			p.TotalIncome.Decimal(), p.TotalExpense.Decimal(), p.Savings.Decimal())
	}

	b.WriteString("Transactions (largest first):\n")
	for _, t := range sampleTransactions(params.Transactions) {
		note := t.Note
		if note == "" {
			note = "no note"
		}
		fmt.Fprintf(&b, "  %s - %s: %s [%s]\n",
			t.Date.Format("2006-01-02"), t.CategoryName, t.Amount.Decimal(), note)
	}

	return b.String()
}

func sampleTransactions(transactions []core.Transaction) []core.Transaction {
	sample := append([]core.Transaction(nil), transactions...)
	sort.SliceStable(sample, func(i, j int) bool {
		return sample[i].Amount.Cents > sample[j].Amount.Cents
	})
	if len(sample) > SampleLimit {
		sample = sample[:SampleLimit]
	}
	return sample
}
