package chat

import (
	"sort"
	"strings"
)

// Search returns messages whose content contains query, ignoring case.
// ThreadID narrows the scan to one thread, else ProjectID to one project.
// A blank query matches nothing. Results are in send order.
func (e *Engine) Search(query string, opts SearchOptions) []Message {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return []Message{}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	out := []Message{}
	scan := func(msgs []Message) {
		for _, msg := range msgs {
			if strings.Contains(strings.ToLower(msg.Content), needle) {
				out = append(out, msg)
			}
		}
	}

	switch {
	case opts.ThreadID != "":
		scan(e.messages[opts.ThreadID])
	case opts.ProjectID != "":
		for _, t := range e.threads {
			if t.ProjectID == opts.ProjectID {
				scan(e.messages[t.ID])
			}
		}
	default:
		for _, t := range e.threads {
			scan(e.messages[t.ID])
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}
