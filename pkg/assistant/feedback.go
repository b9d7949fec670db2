package assistant

import (
	"fmt"
	"sort"
	"strings"

	"github.com/viv500/GenesisAI/pkg/canvas"
)

// InsightMarker prefixes the question line of a feedback message.
const InsightMarker = "💡 - Question/Insight:"

var sectorQuestions = map[canvas.Sector]string{
	canvas.SectorInventory:     "How many days of stock can you cover today, and which supplier would hurt most if they slipped a week?",
	canvas.SectorManufacturing: "Which step in your production line limits output, and what would it cost to double its capacity?",
	canvas.SectorProduct:       "Which customer problem does this change solve, and how will you know it worked?",
	canvas.SectorHuman:         "Who owns this on your team, and do they have the time and skills to deliver it?",
	canvas.SectorMarketing:     "Which channel brings your most profitable customers, and what does one of them cost to acquire?",
	canvas.SectorFinancial:     "How does this affect your cash runway over the next two quarters?",
}

// FeedbackInput describes one note edit.
type FeedbackInput struct {
	Hierarchy canvas.Hierarchy
	Original  canvas.Note
	Updated   canvas.Note
	// Changes is the raw patch the client sent; its keys count as changed
	// fields even when the values match.
	Changes map[string]interface{}
}

// Feedback renders a change summary line followed by an insight question.
func Feedback(in FeedbackInput) string {
	fields := changedFields(in.Original, in.Updated, in.Changes)

	var summary string
	if len(fields) == 0 {
		summary = fmt.Sprintf("You reviewed \"%s\" without changing it.", in.Updated.Title)
	} else {
		summary = fmt.Sprintf("You updated the %s of \"%s\".", joinFields(fields), in.Updated.Title)
	}

	if parent := parentTitle(in.Hierarchy, in.Updated); parent != "" {
		summary += fmt.Sprintf(" It sits under \"%s\".", parent)
	}

	question, ok := sectorQuestions[in.Updated.Sector]
	if !ok {
		question = "What is the next concrete step for this note, and when will you take it?"
	}
	return summary + "\n" + InsightMarker + " " + question
}

func changedFields(original, updated canvas.Note, changes map[string]interface{}) []string {
	set := make(map[string]bool)
	if original.Title != updated.Title {
		set["title"] = true
	}
	if original.Content != updated.Content {
		set["content"] = true
	}
	if original.Position != updated.Position {
		set["position"] = true
	}
	if strings.Join(original.Files, "\x00") != strings.Join(updated.Files, "\x00") {
		set["files"] = true
	}
	if original.Sector != updated.Sector {
		set["sector"] = true
	}
	for k := range changes {
		set[k] = true
	}

	fields := make([]string, 0, len(set))
	for k := range set {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func joinFields(fields []string) string {
	if len(fields) == 1 {
		return fields[0]
	}
	return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
}

func parentTitle(h canvas.Hierarchy, n canvas.Note) string {
	if n.ParentID == nil {
		return ""
	}
	for _, canvases := range h {
		if _, _, ok := canvases.Find(n.ID); !ok {
			continue
		}
		canvasID, idx, ok := canvases.Find(*n.ParentID)
		if !ok {
			return ""
		}
		return canvases[canvasID][idx].Title
	}
	return ""
}
