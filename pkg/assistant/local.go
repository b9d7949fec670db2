package assistant

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

type intent int

const (
	intentGeneral intent = iota
	intentImprove
	intentAnalyze
)

var suggestionTexts = map[canvas.Sector]string{
	canvas.SectorInventory:     "Consider implementing a just-in-time inventory system to reduce holding costs and improve cash flow.",
	canvas.SectorManufacturing: "Analyze production bottlenecks and implement lean manufacturing principles to increase throughput by 15-20%.",
	canvas.SectorProduct:       "Conduct customer interviews to identify unmet needs and prioritize your product roadmap accordingly.",
	canvas.SectorHuman:         "Implement regular skill development programs and create clear career progression paths to improve employee retention.",
	canvas.SectorMarketing:     "Focus spend on the two channels with the lowest customer acquisition cost and test one new channel each quarter.",
	canvas.SectorFinancial:     "Build a rolling 13-week cash flow forecast and review it weekly to spot shortfalls early.",
}

var analysisTexts = map[canvas.Sector]string{
	canvas.SectorInventory:     "Your inventory management could benefit from demand forecasting algorithms to reduce stockouts and overstock situations.",
	canvas.SectorManufacturing: "Consider implementing predictive maintenance to reduce downtime and extend equipment lifespan.",
	canvas.SectorProduct:       "Your product strategy should include competitive analysis and market trend monitoring to stay ahead.",
	canvas.SectorHuman:         "Employee engagement surveys and regular feedback sessions can help identify areas for improvement in your human operations.",
	canvas.SectorMarketing:     "Track conversion rates per channel; campaigns without a measurable funnel hide where your budget is lost.",
	canvas.SectorFinancial:     "Compare gross margin by product line; a few low-margin lines often absorb a large share of working capital.",
}

// LocalResponder answers from canned, sector specific texts chosen by
// keywords in the question.
type LocalResponder struct{}

var _ Responder = (*LocalResponder)(nil)

func NewLocalResponder() *LocalResponder {
	return &LocalResponder{}
}

func (r *LocalResponder) Name() string {
	return ModeLocal
}

func (r *LocalResponder) Respond(ctx context.Context, q Query) (*Reply, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := q.Hierarchy.Clone()
	targets := r.targets(q, next)
	kind := classify(q.Question)

	var b strings.Builder
	switch kind {
	case intentImprove:
		b.WriteString("Based on my analysis of your selected business areas, here are some optimization suggestions:\n\n")
	case intentAnalyze:
		b.WriteString("Here's my analysis of your selected business areas:\n\n")
	default:
		b.WriteString("I've analyzed your selected business areas and have some general recommendations:\n\n")
	}

	bullets := make([]string, 0, len(targets))
	for _, n := range targets {
		label, text := cannedText(kind, n)
		n.Content += fmt.Sprintf("\n\n%s: %s", label, text)
		if kind == intentGeneral {
			text = "Regular review and optimization of processes can lead to significant efficiency gains."
		}
		bullets = append(bullets, fmt.Sprintf("• %s: %s", n.Title, text))
	}
	b.WriteString(strings.Join(bullets, "\n\n"))

	switch kind {
	case intentImprove:
		b.WriteString("\n\nWould you like me to apply these suggestions to your notes?")
	case intentAnalyze:
		b.WriteString("\n\nWould you like me to apply these insights to your notes?")
	default:
		b.WriteString("\n\nWould you like me to add these recommendations to your notes?")
	}

	return &Reply{
		Message:   b.String(),
		Hierarchy: next,
		Changed:   ChangedNotes(q.Hierarchy, next),
	}, nil
}

// targets returns pointers into next for every note the reply should touch.
func (r *LocalResponder) targets(q Query, next canvas.Hierarchy) []*canvas.Note {
	out := make([]*canvas.Note, 0)

	if len(q.Selected) > 0 {
		canvases := next[q.CheckpointID]
		if canvases == nil {
			return out
		}
		notes := canvases[q.CanvasID]
		for _, sel := range q.Selected {
			for i := range notes {
				if notes[i].ID == sel.ID {
					out = append(out, &notes[i])
					break
				}
			}
		}
		return out
	}

	for _, cpID := range sortedKeys(next) {
		canvases := next[cpID]
		for _, canvasID := range canvases.IDs() {
			notes := canvases[canvasID]
			for i := range notes {
				if notes[i].Selected {
					out = append(out, &notes[i])
				}
			}
		}
	}
	return out
}

func classify(question string) intent {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "improve") || strings.Contains(lower, "optimize"):
		return intentImprove
	case strings.Contains(lower, "analyze") || strings.Contains(lower, "insights"):
		return intentAnalyze
	default:
		return intentGeneral
	}
}

func cannedText(kind intent, n *canvas.Note) (label, text string) {
	switch kind {
	case intentImprove:
		return "AI Suggestion", suggestionTexts[n.Sector]
	case intentAnalyze:
		return "AI Analysis", analysisTexts[n.Sector]
	default:
		return "AI Recommendation", fmt.Sprintf(
			"Based on industry best practices, consider reviewing and updating your %s strategies quarterly to stay competitive.",
			strings.ToLower(n.Title),
		)
	}
}

func sortedKeys(h canvas.Hierarchy) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
