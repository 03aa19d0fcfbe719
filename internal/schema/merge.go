package schema

import (
	"strings"

	"rpgscribe/internal/graph"
	"rpgscribe/internal/opcode"
)

// walkCommandList scans one command list, merging sequence runs in place and
// visiting every text slot. A maximal run of sequence-classified commands is
// collapsed into its first command, newline-joined; the remaining run
// commands are removed from the returned list. Merging is idempotent: a
// collapsed run is a single-command run on the next pass.
//
// The shortened list is what gets written back out on the write path; the
// engine reads one multi-line parameter and several single-line commands
// identically, so original granularity is not restored.
func (n *Navigator) walkCommandList(cat opcode.Category, list []any, visit VisitFunc) ([]any, error) {
	out := make([]any, 0, len(list))

	var (
		runParams []any    // parameter list of the run's first command
		runParts  []string // accumulated line parts
		runRaw    bool     // first command held a byte buffer
		inRun     bool
	)

	flush := func() error {
		if !inRun {
			return nil
		}
		inRun = false
		joined := strings.Join(runParts, "\n")
		runParts = nil
		if err := n.store(runParams, 0, joined, runRaw); err != nil {
			return err
		}
		slot, ok := n.slotAt(runParams, 0)
		if !ok {
			return nil
		}
		return visit(slot)
	}

	for _, item := range list {
		cmd, ok := graph.Map(item)
		if !ok {
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, item)
			continue
		}

		code, ok := graph.Int(cmd[fieldCode])
		if !ok {
			if err := flush(); err != nil {
				return nil, err
			}
			out = append(out, item)
			continue
		}

		rule := opcode.Classify(cat, code)
		params, _ := graph.ListField(cmd, fieldParameters)

		if rule.Class == opcode.Sequence && len(params) > 0 {
			if unit, textOK := n.text.Unit(params[0]); textOK {
				if !inRun {
					inRun = true
					runParams = params
					runRaw = unit.Raw
					out = append(out, item)
				}
				runParts = append(runParts, unit.Text)
				continue
			}
		}

		// Anything below ends a pending run.
		if err := flush(); err != nil {
			return nil, err
		}
		out = append(out, item)

		switch rule.Class {
		case opcode.Choice:
			if len(params) == 0 {
				continue
			}
			options, ok := graph.List(params[0])
			if !ok {
				continue
			}
			for i := range options {
				slot, ok := n.slotAt(options, i)
				if !ok {
					continue
				}
				if err := visit(slot); err != nil {
					return nil, err
				}
			}
		case opcode.Standalone:
			if len(params) == 0 {
				continue
			}
			slot, ok := n.slotAt(params, 0)
			if !ok {
				continue
			}
			if rule.Filter != nil && !rule.Filter(slot.Text().Text) {
				continue
			}
			if err := visit(slot); err != nil {
				return nil, err
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}
	return out, nil
}
